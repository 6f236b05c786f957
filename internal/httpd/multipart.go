package httpd

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
)

// UploadedFile is the single file part extracted from a multipart body. The
// filename is taken verbatim from the part header; callers decide where the
// bytes land.
type UploadedFile struct {
	Filename string
	Content  []byte
}

var (
	errNoBoundary = errors.New("multipart: missing boundary")
	errNoFilePart = errors.New("multipart: no file part named \"file\"")
)

var filenamePattern = regexp.MustCompile(`filename="([^"]*)"`)

// multipartBoundary pulls the boundary token out of a Content-Type value
// like `multipart/form-data; boundary=----x`.
func multipartBoundary(contentType string) (string, bool) {
	for _, param := range strings.Split(contentType, ";") {
		param = strings.TrimSpace(param)
		if v, ok := strings.CutPrefix(param, "boundary="); ok {
			v = strings.Trim(v, `"`)
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// extractUpload finds the first multipart segment that is a form-data part
// named "file" carrying a filename, and returns its name and raw content.
// Additional file parts in the same body are ignored.
//
// The content is everything after the blank line separating part headers from
// part data, minus the one line terminator the multipart framing adds before
// the next boundary. Bytes are not interpreted; binary uploads survive
// unchanged.
func extractUpload(body []byte, contentType string) (*UploadedFile, error) {
	boundary, ok := multipartBoundary(contentType)
	if !ok {
		return nil, errNoBoundary
	}
	delim := []byte("--" + boundary)
	for _, segment := range bytes.Split(body, delim) {
		if !bytes.Contains(segment, []byte("Content-Disposition: form-data")) {
			continue
		}
		if !bytes.Contains(segment, []byte(`name="file"`)) {
			continue
		}
		m := filenamePattern.FindSubmatch(segment)
		if m == nil {
			continue
		}
		content, ok := partContent(segment)
		if !ok {
			continue
		}
		return &UploadedFile{Filename: string(m[1]), Content: content}, nil
	}
	return nil, errNoFilePart
}

// partContent splits a segment at the header/content blank line and strips
// the single trailing line terminator left by the boundary framing.
func partContent(segment []byte) ([]byte, bool) {
	sep := []byte("\r\n\r\n")
	i := bytes.Index(segment, sep)
	if i < 0 {
		sep = []byte("\n\n")
		i = bytes.Index(segment, sep)
		if i < 0 {
			return nil, false
		}
	}
	content := segment[i+len(sep):]
	if bytes.HasSuffix(content, []byte("\r\n")) {
		content = content[:len(content)-2]
	} else if bytes.HasSuffix(content, []byte("\n")) {
		content = content[:len(content)-1]
	}
	return content, true
}

package fsutil

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrOutsideRoot is returned when a resolved path does not lie under the
// share root.
var ErrOutsideRoot = errors.New("path escapes share root")

// Resolve maps a URL-encoded request path to an absolute filesystem path
// under rootAbs.
//
// The path is URL-decoded, backslashes are normalized to forward slashes, and
// empty, "." and ".." segments are dropped before joining under the root.
// Containment is then re-checked with a plain string-prefix test against the
// root's absolute path. Known limitations, kept on purpose: symlinks are not
// canonicalized, and the prefix test cannot tell "/data" from "/data2" if the
// joined path ever left the root by some other means.
func Resolve(rootAbs, rawPath string) (string, error) {
	decoded := unescape(rawPath)
	decoded = strings.ReplaceAll(decoded, "\\", "/")

	parts := strings.Split(decoded, "/")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		kept = append(kept, p)
	}

	abs := filepath.Join(append([]string{rootAbs}, kept...)...)
	if !strings.HasPrefix(abs, rootAbs) {
		return "", ErrOutsideRoot
	}
	return abs, nil
}

func unescape(s string) string {
	dec, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return dec
}

// Entry is one row of a directory listing.
type Entry struct {
	Name  string
	IsDir bool
	Size  int64
	Mtime time.Time
}

// ListDir reads a directory and returns its entries sorted directories-first,
// then case-insensitively by name.
func ListDir(dirAbs string) ([]Entry, error) {
	ents, err := os.ReadDir(dirAbs)
	if err != nil {
		return nil, err
	}
	items := make([]Entry, 0, len(ents))
	for _, e := range ents {
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, Entry{
			Name:  e.Name(),
			IsDir: e.IsDir(),
			Size:  info.Size(),
			Mtime: info.ModTime(),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].IsDir != items[j].IsDir {
			return items[i].IsDir
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

// IsRangeable reports whether a file name belongs to the byte-range-served
// category (video types). All other files are always served whole.
func IsRangeable(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".webm", ".mkv", ".mov", ".avi":
		return true
	default:
		return false
	}
}

// IsImage reports whether the name has a thumbnail-eligible image extension.
func IsImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}

// ContentTypeForName maps a file name to a Content-Type. Extensions missing
// from the platform mime table get explicit fallbacks so media playback works
// on minimal systems.
func ContentTypeForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	// images
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	// video
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	// audio
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	// docs/text
	case ".pdf":
		return "application/pdf"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".txt", ".log", ".md", ".json", ".yaml", ".yml", ".toml", ".ini",
		".cfg", ".conf", ".go", ".js", ".ts", ".py", ".rs", ".java", ".c",
		".h", ".cpp", ".hpp", ".sh", ".css", ".csv", ".xml":
		return "text/plain; charset=utf-8"
	// archives
	case ".zip":
		return "application/zip"
	case ".tar":
		return "application/x-tar"
	case ".gz":
		return "application/gzip"
	default:
		return "application/octet-stream"
	}
}

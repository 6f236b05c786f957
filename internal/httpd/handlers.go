package httpd

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"webshare/internal/fsutil"
	"webshare/internal/render"
	"webshare/internal/thumb"
)

// dispatch routes a parsed request by method. Returned errors are unexpected
// failures; the connection handler turns them into a 500.
func (s *Server) dispatch(ctx context.Context, conn net.Conn, req *Request) error {
	switch req.Method {
	case "GET":
		return s.handleGet(ctx, conn, req)
	case "POST":
		return s.handlePost(conn, req)
	default:
		return writeText(conn, 405, "method not allowed")
	}
}

func (s *Server) handleGet(ctx context.Context, conn net.Conn, req *Request) error {
	abs, err := fsutil.Resolve(s.root, req.RawPath)
	if err != nil {
		return writeText(conn, 403, "forbidden")
	}
	st, err := os.Stat(abs)
	if err != nil {
		return writeText(conn, 404, "not found")
	}

	if st.IsDir() {
		entries, err := fsutil.ListDir(abs)
		if err != nil {
			return fmt.Errorf("list %s: %w", abs, err)
		}
		page := render.ListingPage(s.relPath(abs), entries)
		return writeResponse(conn, 200, []Header{
			{"Content-Type", "text/html; charset=utf-8"},
		}, []byte(page))
	}

	switch req.Query("view") {
	case "text":
		return s.serveTextView(conn, abs, req.Query("encoding"))
	case "video":
		page := render.VideoPage(st.Name(), webPath(s.relPath(abs)))
		return writeResponse(conn, 200, []Header{
			{"Content-Type", "text/html; charset=utf-8"},
		}, []byte(page))
	case "thumb":
		return s.serveThumb(conn, abs, st.Name())
	}
	return s.serveFile(ctx, conn, req, abs, st)
}

func (s *Server) serveTextView(conn net.Conn, abs, enc string) error {
	b, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("read %s: %w", abs, err)
	}
	text := render.DecodeText(b, enc)
	page := render.TextPage(filepath.Base(abs), text)
	return writeResponse(conn, 200, []Header{
		{"Content-Type", "text/html; charset=utf-8"},
	}, []byte(page))
}

func (s *Server) serveThumb(conn net.Conn, abs, name string) error {
	if !fsutil.IsImage(name) {
		return writeText(conn, 404, "not found")
	}
	b, err := thumb.JPEG(abs, 256)
	if err != nil {
		return writeText(conn, 404, "not found")
	}
	return writeResponse(conn, 200, []Header{
		{"Content-Type", "image/jpeg"},
		{"Cache-Control", "public, max-age=3600"},
	}, b)
}

// serveFile streams a regular file, honoring Range only for rangeable
// (video) extensions. Everything else gets the whole file even when a Range
// header is present.
func (s *Server) serveFile(ctx context.Context, conn net.Conn, req *Request, abs string, st os.FileInfo) error {
	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("open %s: %w", abs, err)
	}
	defer f.Close()

	name := st.Name()
	size := st.Size()
	rangeable := fsutil.IsRangeable(name)
	contentType := fsutil.ContentTypeForName(name)

	if rangeable {
		if br, ok := parseRange(req.Header("Range"), size); ok {
			headers := []Header{
				{"Content-Type", contentType},
				{"Content-Range", fmt.Sprintf("bytes %d-%d/%d", br.Start, br.End, br.Total)},
				{"Accept-Ranges", "bytes"},
				{"Content-Length", strconv.FormatInt(br.Length(), 10)},
				{"Cache-Control", "no-cache"},
			}
			if err := writeHead(conn, 206, headers); err != nil {
				return nil
			}
			return streamFile(ctx, conn, f, br.Start, br.Length())
		}
	}

	headers := []Header{
		{"Content-Type", contentType},
		{"Content-Length", strconv.FormatInt(size, 10)},
	}
	if rangeable {
		headers = append(headers, Header{"Accept-Ranges", "bytes"})
	} else {
		headers = append(headers, Header{"Cache-Control", "public, max-age=3600"})
	}
	if err := writeHead(conn, 200, headers); err != nil {
		return nil
	}
	return streamFile(ctx, conn, f, 0, size)
}

func (s *Server) handlePost(conn net.Conn, req *Request) error {
	switch req.Query("action") {
	case "upload":
		return s.handleUpload(conn, req)
	case "delete":
		return s.handleDelete(conn, req)
	case "rename":
		return s.handleRename(conn, req)
	default:
		return writeText(conn, 400, "unknown action")
	}
}

func (s *Server) handleUpload(conn net.Conn, req *Request) error {
	dirRel := req.Query("path")
	if dirRel == "" {
		return writeText(conn, 400, "missing path")
	}
	dirAbs, err := fsutil.Resolve(s.root, dirRel)
	if err != nil {
		return writeText(conn, 403, "forbidden")
	}
	up, err := extractUpload(req.Body, req.Header("Content-Type"))
	if err != nil {
		return writeText(conn, 400, err.Error())
	}
	if err := os.MkdirAll(dirAbs, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dirAbs, err)
	}
	// The filename is used as sent by the client; see DESIGN.md.
	dst := filepath.Join(dirAbs, up.Filename)
	if err := os.WriteFile(dst, up.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return writeRedirect(conn, webPath(s.relPath(dirAbs)))
}

func (s *Server) handleDelete(conn net.Conn, req *Request) error {
	rel := req.Query("path")
	if rel == "" {
		return writeText(conn, 400, "missing path")
	}
	abs, err := fsutil.Resolve(s.root, rel)
	if err != nil {
		return writeText(conn, 403, "forbidden")
	}
	if _, err := os.Stat(abs); err != nil {
		return writeText(conn, 404, "not found")
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("delete %s: %w", abs, err)
	}
	parent := filepath.Dir(abs)
	if len(parent) < len(s.root) {
		parent = s.root
	}
	return writeRedirect(conn, webPath(s.relPath(parent)))
}

func (s *Server) handleRename(conn net.Conn, req *Request) error {
	rel := req.Query("path")
	oldName := req.Query("old_name")
	newName := req.Query("new_name")
	if rel == "" || oldName == "" || newName == "" {
		return writeText(conn, 400, "missing path or names")
	}
	dirAbs, err := fsutil.Resolve(s.root, rel)
	if err != nil {
		return writeText(conn, 403, "forbidden")
	}
	oldAbs := filepath.Join(dirAbs, oldName)
	if _, err := os.Stat(oldAbs); err != nil {
		return writeText(conn, 404, "not found")
	}
	if err := os.Rename(oldAbs, filepath.Join(dirAbs, newName)); err != nil {
		return fmt.Errorf("rename %s: %w", oldAbs, err)
	}
	return writeRedirect(conn, webPath(s.relPath(dirAbs)))
}

// relPath converts an absolute path back to a slash-separated path relative
// to the root ("" for the root itself).
func (s *Server) relPath(abs string) string {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// webPath turns a root-relative slash path into an escaped URL path.
func webPath(rel string) string {
	if rel == "" {
		return "/"
	}
	segs := strings.Split(rel, "/")
	for i := range segs {
		segs[i] = url.PathEscape(segs[i])
	}
	return "/" + strings.Join(segs, "/")
}

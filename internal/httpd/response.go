package httpd

import (
	"fmt"
	"io"
	"strconv"
)

// Header is one response header line. Headers are written in the order the
// caller assembles them.
type Header struct {
	Key   string
	Value string
}

func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 206:
		return "Partial Content"
	case 302:
		return "Found"
	case 400:
		return "Bad Request"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	default:
		return "Internal Server Error"
	}
}

// writeHead serializes the status line and headers, ending with the blank
// line. Connection: close is always appended; this server never keeps a
// connection alive. Header values are trusted: callers must not pass values
// containing CR or LF.
func writeHead(w io.Writer, code int, headers []Header) error {
	if _, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", code, statusText(code)); err != nil {
		return err
	}
	for _, h := range headers {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", h.Key, h.Value); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "Connection: close\r\n\r\n"); err != nil {
		return err
	}
	return nil
}

// writeResponse writes a complete in-memory response. Content-Length is
// derived from the body.
func writeResponse(w io.Writer, code int, headers []Header, body []byte) error {
	headers = append(headers, Header{"Content-Length", strconv.Itoa(len(body))})
	if err := writeHead(w, code, headers); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return err
		}
	}
	return nil
}

// writeText writes a plain-text response, used for every error status.
func writeText(w io.Writer, code int, msg string) error {
	headers := []Header{{"Content-Type", "text/plain; charset=utf-8"}}
	return writeResponse(w, code, headers, []byte(msg))
}

// writeRedirect writes a 302 with a Location header and an empty body.
func writeRedirect(w io.Writer, location string) error {
	headers := []Header{
		{"Location", location},
		{"Content-Length", "0"},
	}
	return writeHead(w, 302, headers)
}

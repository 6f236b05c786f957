package httpd

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// Request is one parsed HTTP request. It is built once per connection and
// never mutated afterwards.
type Request struct {
	Method  string
	RawPath string // URL-encoded path, query string stripped
	Proto   string // accepted but not validated

	query   url.Values
	headers map[string]string // lowercased keys, last value wins

	Body []byte
}

// Query returns the first value for key, or "" if absent.
func (r *Request) Query(key string) string {
	return r.query.Get(key)
}

// QueryAll returns every value for key in request order.
func (r *Request) QueryAll(key string) []string {
	return r.query[key]
}

// Header returns the value for a (case-insensitive) header key.
func (r *Request) Header(key string) string {
	return r.headers[strings.ToLower(key)]
}

// ReadRequest parses exactly one request from br: request line, headers, then
// a body of exactly Content-Length bytes. No keep-alive, no chunked encoding.
//
// When the returned *Request is nil the failure happened before headers were
// complete and the caller must drop the connection without a response; a
// non-nil *Request alongside an error means headers were read and a 500 may
// be written.
func ReadRequest(br *bufio.Reader) (*Request, error) {
	line, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("read request line: %w", err)
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("malformed request line %q", line)
	}
	req := &Request{
		Method:  parts[0],
		Proto:   parts[2],
		headers: make(map[string]string),
	}

	target := parts[1]
	if i := strings.IndexByte(target, '?'); i >= 0 {
		req.RawPath = target[:i]
		// Tolerate sloppy query strings; keep whatever parsed.
		vals, _ := url.ParseQuery(target[i+1:])
		req.query = vals
	} else {
		req.RawPath = target
		req.query = url.Values{}
	}

	contentLength := 0
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		if line == "" {
			break
		}
		key, value, found := strings.Cut(line, ": ")
		if !found {
			continue
		}
		key = strings.ToLower(key)
		req.headers[key] = value
		if key == "content-length" {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				contentLength = n
			}
		}
	}

	if contentLength > 0 {
		body := make([]byte, contentLength)
		if _, err := io.ReadFull(br, body); err != nil {
			return req, fmt.Errorf("read body: %w", err)
		}
		req.Body = body
	}
	return req, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

package httpd

import (
	"bufio"
	"strings"
	"testing"
)

func parse(t *testing.T, raw string) *Request {
	t.Helper()
	req, err := ReadRequest(bufio.NewReader(strings.NewReader(raw)))
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	return req
}

func TestReadRequestBasic(t *testing.T) {
	req := parse(t, "GET /dir/file.txt HTTP/1.1\r\nHost: x\r\nAccept: */*\r\n\r\n")
	if req.Method != "GET" {
		t.Errorf("method = %q", req.Method)
	}
	if req.RawPath != "/dir/file.txt" {
		t.Errorf("path = %q", req.RawPath)
	}
	if req.Proto != "HTTP/1.1" {
		t.Errorf("proto = %q", req.Proto)
	}
	if req.Header("host") != "x" || req.Header("HOST") != "x" {
		t.Errorf("host header = %q", req.Header("host"))
	}
	if len(req.Body) != 0 {
		t.Errorf("body = %q", req.Body)
	}
}

func TestReadRequestQuery(t *testing.T) {
	req := parse(t, "POST /?action=rename&path=a%2Fb&tag=1&tag=2 HTTP/1.1\r\n\r\n")
	if req.RawPath != "/" {
		t.Errorf("path = %q", req.RawPath)
	}
	if got := req.Query("action"); got != "rename" {
		t.Errorf("action = %q", got)
	}
	if got := req.Query("path"); got != "a/b" {
		t.Errorf("path param = %q", got)
	}
	if got := req.QueryAll("tag"); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("tags = %v", got)
	}
	if got := req.Query("absent"); got != "" {
		t.Errorf("absent = %q", got)
	}
}

func TestReadRequestDuplicateHeaderLastWins(t *testing.T) {
	req := parse(t, "GET / HTTP/1.1\r\nX-One: a\r\nX-One: b\r\n\r\n")
	if got := req.Header("x-one"); got != "b" {
		t.Errorf("x-one = %q, want last value", got)
	}
}

func TestReadRequestBody(t *testing.T) {
	req := parse(t, "POST /u HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello")
	if string(req.Body) != "hello" {
		t.Errorf("body = %q", req.Body)
	}
}

func TestReadRequestShortBody(t *testing.T) {
	raw := "POST /u HTTP/1.1\r\nContent-Length: 10\r\n\r\nhi"
	req, err := ReadRequest(bufio.NewReader(strings.NewReader(raw)))
	if err == nil {
		t.Fatal("want error for truncated body")
	}
	if req == nil {
		t.Fatal("headers were read; request must be non-nil so a 500 can be sent")
	}
}

func TestReadRequestMalformedLine(t *testing.T) {
	for _, raw := range []string{"", "GET\r\n\r\n", "justonefield\r\n\r\n"} {
		req, err := ReadRequest(bufio.NewReader(strings.NewReader(raw)))
		if err == nil {
			t.Errorf("raw %q: want error", raw)
		}
		if req != nil {
			t.Errorf("raw %q: want nil request (drop without response)", raw)
		}
	}
}

func TestReadRequestHeaderWithoutSeparatorSkipped(t *testing.T) {
	req := parse(t, "GET / HTTP/1.1\r\ngarbageline\r\nGood: yes\r\n\r\n")
	if got := req.Header("good"); got != "yes" {
		t.Errorf("good = %q", got)
	}
	if got := req.Header("garbageline"); got != "" {
		t.Errorf("garbage header kept: %q", got)
	}
}

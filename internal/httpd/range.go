package httpd

import (
	"context"
	"io"
	"os"
	"regexp"
	"strconv"
)

// chunkSize is the fixed block size for streaming file bodies to the socket.
const chunkSize = 8192

var rangePattern = regexp.MustCompile(`^bytes=(\d*)-(\d*)$`)

// ByteRange is a validated request window into a file of Total bytes.
// Invariant: 0 <= Start <= End <= Total-1.
type ByteRange struct {
	Start int64
	End   int64
	Total int64
}

func (r ByteRange) Length() int64 { return r.End - r.Start + 1 }

// parseRange interprets a Range header against a file of size bytes.
//
// Only single ranges of the shape bytes=<start>-<end> are understood, with
// either side optional. An empty end means "to the last byte". An empty start
// means "from byte 0": true suffix ranges (bytes=-500, last 500 bytes) are
// deliberately not implemented and degrade to a from-zero range. Anything
// that does not match, or that collapses to an empty window, reports ok=false
// and the file is served whole.
func parseRange(header string, size int64) (ByteRange, bool) {
	if size <= 0 {
		return ByteRange{}, false
	}
	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return ByteRange{}, false
	}
	start := int64(0)
	if m[1] != "" {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return ByteRange{}, false
		}
		start = n
	}
	end := size - 1
	if m[2] != "" {
		n, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return ByteRange{}, false
		}
		end = n
	}
	if end > size-1 {
		end = size - 1
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		return ByteRange{}, false
	}
	return ByteRange{Start: start, End: end, Total: size}, true
}

// streamFile copies length bytes of f starting at offset to w in fixed
// chunks. A write error (peer went away) or context cancellation ends the
// stream early without error; only read failures are reported.
func streamFile(ctx context.Context, w io.Writer, f *os.File, offset, length int64) error {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, chunkSize)
	remaining := length
	for remaining > 0 {
		if ctx.Err() != nil {
			return nil
		}
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		rn, rerr := io.ReadFull(f, buf[:n])
		if rn > 0 {
			if _, werr := w.Write(buf[:rn]); werr != nil {
				return nil
			}
			remaining -= int64(rn)
		}
		if rerr != nil {
			if rerr == io.ErrUnexpectedEOF || rerr == io.EOF {
				return nil
			}
			return rerr
		}
	}
	return nil
}

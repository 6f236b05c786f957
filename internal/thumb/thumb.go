// Package thumb produces small JPEG previews of image files for the browse
// page.
package thumb

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"

	// decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// JPEG decodes the image at absPath and returns it re-encoded as a JPEG whose
// longest edge is at most maxEdge pixels.
func JPEG(absPath string, maxEdge int) ([]byte, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, os.ErrInvalid
	}
	if maxEdge <= 0 {
		maxEdge = 256
	}

	nw, nh := fit(w, h, maxEdge)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var out bytes.Buffer
	opts := jpeg.Options{Quality: 82}
	if err := jpeg.Encode(&out, dst, &opts); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// fit scales (w, h) down so the longest edge is max, keeping aspect ratio.
func fit(w, h, max int) (int, int) {
	nw, nh := w, h
	if w >= h {
		if w > max {
			nw = max
			nh = h * max / w
		}
	} else {
		if h > max {
			nh = max
			nw = w * max / h
		}
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

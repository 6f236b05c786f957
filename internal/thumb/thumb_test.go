package thumb

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestJPEGDownscales(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.png")
	writePNG(t, src, 800, 400)

	out, err := JPEG(src, 256)
	if err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a jpeg: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 256 || b.Dy() != 128 {
		t.Fatalf("thumb size = %dx%d, want 256x128", b.Dx(), b.Dy())
	}
}

func TestJPEGKeepsSmallImages(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.png")
	writePNG(t, src, 100, 50)

	out, err := JPEG(src, 256)
	if err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("thumb size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestJPEGRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "not.png")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := JPEG(src, 256); err == nil {
		t.Fatal("want decode error")
	}
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h, max, nw, nh int
	}{
		{800, 400, 256, 256, 128},
		{400, 800, 256, 128, 256},
		{100, 50, 256, 100, 50},
		{256, 256, 256, 256, 256},
		{10000, 1, 256, 256, 1},
	}
	for _, c := range cases {
		nw, nh := fit(c.w, c.h, c.max)
		if nw != c.nw || nh != c.nh {
			t.Errorf("fit(%d,%d,%d) = %d,%d want %d,%d", c.w, c.h, c.max, nw, nh, c.nw, c.nh)
		}
	}
}

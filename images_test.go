package sitekit

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessImageResizes(t *testing.T) {
	img, data, err := processImage(bytes.NewReader(pngBytes(t, maxImageWidth*2, 200)), "Hero Shot.PNG")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != maxImageWidth || img.Height != 100 {
		t.Errorf("size = %dx%d, want %dx100", img.Width, img.Height, maxImageWidth)
	}
	if img.Filename != "hero-shot.jpg" || img.OriginalName != "Hero Shot.PNG" {
		t.Errorf("names = %q/%q", img.Filename, img.OriginalName)
	}
	if img.Size != len(data) {
		t.Errorf("Size = %d, want %d", img.Size, len(data))
	}
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if decoded.Bounds().Dx() != maxImageWidth {
		t.Errorf("decoded width = %d, want %d", decoded.Bounds().Dx(), maxImageWidth)
	}
}

func TestProcessImageKeepsSmallImages(t *testing.T) {
	img, _, err := processImage(bytes.NewReader(pngBytes(t, 320, 240)), "!!!.png")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != 320 || img.Height != 240 {
		t.Errorf("size = %dx%d, want 320x240", img.Width, img.Height)
	}
	if img.Filename != "image.jpg" {
		t.Errorf("Filename = %q, want image.jpg", img.Filename)
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, _, err := processImage(strings.NewReader("not an image"), "x.png"); err == nil {
		t.Error("expected a decode error")
	}
}

func TestImageURL(t *testing.T) {
	if got := (Image{Filename: "a.jpg"}).URL(); got != "/public/uploads/a.jpg" {
		t.Errorf("URL = %q", got)
	}
}

package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeBase64Image(t *testing.T) {
	raw := []byte("\x89PNG fake")
	enc := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "plain", in: enc},
		{name: "data url", in: "data:image/png;base64," + enc},
		{name: "unpadded", in: base64.RawStdEncoding.EncodeToString(raw)},
		{name: "surrounding space", in: "  " + enc + "\n"},
		{name: "empty", in: "", wantErr: true},
		{name: "malformed data url", in: "data:image/png;base64", wantErr: true},
		{name: "garbage", in: "!!!not-base64!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64Image(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if !bytes.Equal(got, raw) {
				t.Fatalf("decoded = %q, want %q", got, raw)
			}
		})
	}
}

func TestDetectMIMEType(t *testing.T) {
	if got := DetectMIMEType(pngBytes(t, 1, 1, color.White)); got != "image/png" {
		t.Fatalf("png detected as %q", got)
	}
	if got := DetectMIMEType([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}); got != "image/jpeg" {
		t.Fatalf("jpeg detected as %q", got)
	}
	if got := DetectMIMEType([]byte("plain text")); got != "image/png" {
		t.Fatalf("fallback = %q, want image/png", got)
	}
}

func TestMergeImagesGrid(t *testing.T) {
	images := [][]byte{
		pngBytes(t, 10, 10, color.White),
		pngBytes(t, 10, 10, color.Black),
		pngBytes(t, 10, 10, color.White),
	}

	out, err := MergeImages(images, "1:1")
	if err != nil {
		t.Fatalf("MergeImages error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	// 3 images → 2 cols x 2 rows
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("merged bounds = %v, want 20x20", b)
	}
}

func TestMergeImagesResizesForAspectRatio(t *testing.T) {
	images := [][]byte{pngBytes(t, 8, 8, color.White), pngBytes(t, 8, 8, color.Black)}

	out, err := MergeImages(images, "16:9")
	if err != nil {
		t.Fatalf("MergeImages error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1344 || b.Dy() != 768 {
		t.Fatalf("bounds = %v, want 1344x768", b)
	}
}

func TestMergeImagesEdgeCases(t *testing.T) {
	if _, err := MergeImages(nil, ""); err == nil {
		t.Fatal("expected error for no images")
	}

	// 한 장이어도 PNG로 다시 인코딩
	out, err := MergeImages([][]byte{pngBytes(t, 2, 3, color.White)}, "")
	if err != nil {
		t.Fatalf("single image error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("single image output is not PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("single image bounds = %v, want 2x3", b)
	}
}

func TestMergeImagesSingleImageHonorsAspectRatio(t *testing.T) {
	out, err := MergeImages([][]byte{pngBytes(t, 10, 10, color.White)}, "9:16")
	if err != nil {
		t.Fatalf("MergeImages error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 768 || b.Dy() != 1344 {
		t.Fatalf("bounds = %v, want 768x1344", b)
	}
}

func TestMergeImagesRejectsUndecodableInput(t *testing.T) {
	tests := []struct {
		name   string
		images [][]byte
	}{
		{"single garbage", [][]byte{[]byte("junk")}},
		{"all garbage", [][]byte{[]byte("x"), []byte("y")}},
		{"one bad among good", [][]byte{pngBytes(t, 4, 4, color.White), []byte("junk")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out, err := MergeImages(tt.images, "16:9"); err == nil {
				t.Fatalf("expected error, got %d bytes", len(out))
			}
		})
	}
}

func TestResizeImageFitsAndCenters(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	dst := ResizeImage(src, 40, 40)
	if b := dst.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Fatalf("bounds = %v, want 40x40", b)
	}
	// 20x10 → 40x20, 위아래 10px 투명 여백
	if _, _, _, a := dst.At(20, 2).RGBA(); a != 0 {
		t.Errorf("letterbox pixel alpha = %d, want transparent", a)
	}
	if r, _, _, a := dst.At(20, 20).RGBA(); r>>8 != 255 || a>>8 != 255 {
		t.Errorf("center pixel = r%d a%d, want opaque red", r>>8, a>>8)
	}
}

package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeEvidenceImage_DataURIPNG(t *testing.T) {
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodeTestPNG(t))

	img := decodeEvidenceImage(payload)
	if img == nil {
		t.Fatal("expected decoded image")
	}
	if img.Ext != "png" || img.ContentType != "image/png" {
		t.Fatalf("unexpected image meta: ext=%s type=%s", img.Ext, img.ContentType)
	}
	if _, _, err := image.Decode(bytes.NewReader(img.Data)); err != nil {
		t.Fatalf("re-encoded image does not decode: %v", err)
	}
}

func TestDecodeEvidenceImage_BareBase64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(encodeTestPNG(t))

	img := decodeEvidenceImage(payload)
	if img == nil {
		t.Fatal("expected decoded image")
	}
	if img.Ext != "png" {
		t.Fatalf("expected png, got %s", img.Ext)
	}
}

func TestDecodeEvidenceImage_JPEGKeepsFormat(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg failed: %v", err)
	}
	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	img := decodeEvidenceImage(payload)
	if img == nil {
		t.Fatal("expected decoded image")
	}
	if img.Ext != "jpg" || img.ContentType != "image/jpeg" {
		t.Fatalf("unexpected image meta: ext=%s type=%s", img.Ext, img.ContentType)
	}
}

func TestDecodeEvidenceImage_UndecodableBytesTreatedAsAbsent(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("definitely not an image"))

	if img := decodeEvidenceImage(payload); img != nil {
		t.Fatalf("expected nil for undecodable bytes, got ext=%s", img.Ext)
	}
}

func TestDecodeEvidenceImage_BadBase64TreatedAsAbsent(t *testing.T) {
	if img := decodeEvidenceImage("%%%not-base64%%%"); img != nil {
		t.Fatal("expected nil for invalid base64")
	}
}

func TestDecodeEvidenceImage_EmptyTreatedAsAbsent(t *testing.T) {
	if img := decodeEvidenceImage(""); img != nil {
		t.Fatal("expected nil for empty payload")
	}
	if img := decodeEvidenceImage("  "); img != nil {
		t.Fatal("expected nil for blank payload")
	}
	if img := decodeEvidenceImage("data:image/png;base64,"); img != nil {
		t.Fatal("expected nil for empty data URI payload")
	}
}

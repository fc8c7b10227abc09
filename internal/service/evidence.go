package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	_ "image/gif"
)

// evidenceImage is a decoded proof-of-delivery image ready to store.
type evidenceImage struct {
	Data        []byte
	Ext         string
	ContentType string
}

// decodeEvidenceImage accepts a data-URI or bare base64 payload and
// re-encodes it through the image decoder. Empty, malformed or
// undecodable payloads yield nil: the asset is treated as absent and
// the submission proceeds without it.
func decodeEvidenceImage(payload string) *evidenceImage {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil
	}
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(raw) == 0 {
		return nil
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil
		}
		return &evidenceImage{Data: buf.Bytes(), Ext: "jpg", ContentType: "image/jpeg"}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil
		}
		return &evidenceImage{Data: buf.Bytes(), Ext: "png", ContentType: "image/png"}
	}
}

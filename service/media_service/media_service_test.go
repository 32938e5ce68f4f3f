package media_service

import (
	"encoding/base64"
	"testing"
)

func TestParseDataURI(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	contentType, raw, err := ParseDataURI(dataURI)
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "image/jpeg" {
		t.Errorf("got content type %q, want image/jpeg", contentType)
	}
	if string(raw) != string(payload) {
		t.Errorf("payload mismatch: %v", raw)
	}
}

func TestParseDataURIRejectsMalformedInput(t *testing.T) {
	bad := []string{
		"",
		"plain text",
		"data:image/png,not-base64-flagged",
		"data:;base64,QUJD",
		"data:image/png;base64,%%%not-base64%%%",
	}
	for _, dataURI := range bad {
		if _, _, err := ParseDataURI(dataURI); err == nil {
			t.Errorf("ParseDataURI(%q) accepted malformed input", dataURI)
		}
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/webp":      ".webp",
		"video/mp4":       ".mp4",
		"image/avif":      ".avif",
		"application/pdf": ".pdf",
		"broken":          ".bin",
	}
	for contentType, want := range cases {
		if got := extensionFor(contentType); got != want {
			t.Errorf("extensionFor(%q) = %q, want %q", contentType, got, want)
		}
	}
}

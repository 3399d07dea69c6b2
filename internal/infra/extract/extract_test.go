package extract

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/grantscope/docintake/internal/domain/documents"
)

func TestExtractPlainText(t *testing.T) {
	f := documents.SourceFile{Name: "notes.txt", Type: documents.FileTypeText, Data: []byte("hello funding")}
	got, err := Extract(f)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "hello funding" {
		t.Errorf("Extract = %q, want verbatim text", got)
	}
}

func TestExtractInvalidUTF8(t *testing.T) {
	f := documents.SourceFile{Name: "bad.txt", Type: documents.FileTypeText, Data: []byte{0xff, 0xfe, 0xfd}}
	_, err := Extract(f)
	var ee *documents.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("Extract error = %v, want ExtractionError", err)
	}
}

func TestExtractBinaryIsBase64(t *testing.T) {
	raw := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0x01}
	f := documents.SourceFile{Name: "a.pdf", Type: documents.FileTypePDF, Data: raw}
	got, err := Extract(f)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != base64.StdEncoding.EncodeToString(raw) {
		t.Errorf("Extract = %q, want std base64 of raw bytes", got)
	}
}

func TestStripDataURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"data url", "data:application/pdf;base64,QUJD", "QUJD"},
		{"plain base64 untouched", "QUJD", "QUJD"},
		{"data prefix without comma", "data:application/pdf", "data:application/pdf"},
		{"only first comma stripped", "data:text/plain;base64,QQ==,rest", "QQ==,rest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripDataURL(tt.in); got != tt.want {
				t.Errorf("StripDataURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodePayload(t *testing.T) {
	data, err := DecodePayload("data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("abc")))
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("DecodePayload = %q, want %q", data, "abc")
	}

	_, err = DecodePayload("!!not-base64!!")
	var ee *documents.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("DecodePayload error = %v, want ExtractionError", err)
	}
}

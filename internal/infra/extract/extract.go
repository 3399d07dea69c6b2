package extract

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/grantscope/docintake/internal/domain/documents"
)

// Extract turns a source file into its transport representation: verbatim
// UTF-8 text for plain-text files, base64 for everything else. The base64
// form is the contract for "send raw file bytes as text" to the classifier's
// extractor side.
func Extract(f documents.SourceFile) (string, error) {
	if f.Type == documents.FileTypeText {
		if !utf8.Valid(f.Data) {
			return "", &documents.ExtractionError{Err: fmt.Errorf("%s is not valid UTF-8 text", f.Name)}
		}
		return string(f.Data), nil
	}
	return base64.StdEncoding.EncodeToString(f.Data), nil
}

// StripDataURL removes a data-URL prefix up to and including the first comma.
// Browser clients send FileReader output as "data:<mime>;base64,<payload>".
func StripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

// DecodePayload decodes request content (base64, possibly a full data URL)
// into the raw file bytes.
func DecodePayload(content string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(StripDataURL(content))
	if err != nil {
		return nil, &documents.ExtractionError{Err: err}
	}
	return data, nil
}

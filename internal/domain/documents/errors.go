package documents

import (
	"errors"
	"fmt"
)

// MsgUnsupportedFileType is shown to the user verbatim; the dashboard matches on it.
const MsgUnsupportedFileType = "Please select a PDF, Word document, or text file"

// ErrAnalysisInFlight indicates a tenant already has an analyze call pending.
var ErrAnalysisInFlight = errors.New("analysis already in progress")

// ValidationError: rejected input. Recovered locally, never fatal.
// Zero Msg means the file-type allow-list message.
type ValidationError struct {
	FileType FileType
	Msg      string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return MsgUnsupportedFileType
}

// NetworkError: non-2xx response from the remote classifier.
type NetworkError struct {
	Status     int
	StatusText string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.StatusText)
}

// ExtractionError: content decode failed. Propagated, not swallowed.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("content extraction failed: %v", e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

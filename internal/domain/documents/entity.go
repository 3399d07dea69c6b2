package documents

import (
	"path/filepath"
	"strings"
	"time"
)

// ID tipe untuk Document
type DocumentID string

// FileType is the declared media type of an uploaded file.
type FileType string

const (
	FileTypePDF  FileType = "application/pdf"
	FileTypeDoc  FileType = "application/msword"
	FileTypeDocx FileType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	FileTypeText FileType = "text/plain"
)

// DocumentType enum hasil klasifikasi
type DocumentType string

const (
	TypeGrantApplication DocumentType = "grant application"
	TypeGrantOpportunity DocumentType = "grant opportunity"
	TypeResearchPaper    DocumentType = "research paper"
	TypeUnknown          DocumentType = "unknown"
)

// Status enum untuk lifecycle analisis
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// SourceFile is the user-selected upload. Immutable once built.
type SourceFile struct {
	Name string
	Type FileType
	Data []byte
}

// Analysis value object: the normalized classification that reaches callers.
type Analysis struct {
	Summary        string       `json:"summary"`
	DocumentType   DocumentType `json:"documentType"`
	KeyEntities    []string     `json:"keyEntities"`
	IsGrantRelated bool         `json:"isGrantRelated"`
	Confidence     float64      `json:"confidence"`
}

// AnalysisResult is what an analyze call returns to the caller.
type AnalysisResult struct {
	Success    bool       `json:"success"`
	DocumentID DocumentID `json:"documentId"`
	Analysis   Analysis   `json:"analysis"`
	ViewURL    string     `json:"viewUrl,omitempty"`
}

// Aggregate Root: Document (persisted record of one analyze invocation)
type Document struct {
	ID            DocumentID `json:"id"`
	TenantID      string     `json:"tenant_id"`
	FileName      string     `json:"file_name"`
	FileType      FileType   `json:"file_type"`
	ContentLength int        `json:"content_length"`
	Backend       string     `json:"backend,omitempty"`
	Status        Status     `json:"status"`
	Analysis      Analysis   `json:"analysis"`
	ViewURL       string     `json:"view_url,omitempty"`
	ArtifactURL   string     `json:"artifact_url,omitempty"`
	AnalyzedAt    time.Time  `json:"analyzed_at"`
	DurationMS    int64      `json:"duration_ms"`
}

// AllowedFileType reports whether t is on the intake allow-list.
func AllowedFileType(t FileType) bool {
	switch t {
	case FileTypePDF, FileTypeDoc, FileTypeDocx, FileTypeText:
		return true
	}
	return false
}

// FileTypeFromName maps an upload extension to its media type.
// Returns "" when the extension is not accepted.
func FileTypeFromName(name string) FileType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FileTypePDF
	case ".doc":
		return FileTypeDoc
	case ".docx":
		return FileTypeDocx
	case ".txt":
		return FileTypeText
	}
	return ""
}

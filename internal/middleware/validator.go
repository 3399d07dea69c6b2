package middleware

import (
	"regexp"
	"strings"

	"github.com/grantscope/docintake/internal/domain/documents"
)

// Input validation and sanitization utilities

// ValidateFileType checks the declared media type against the intake
// allow-list. The message is user-facing and matched by the dashboard,
// so it must stay exactly as-is.
func ValidateFileType(fileType string) error {
	if !documents.AllowedFileType(documents.FileType(fileType)) {
		return &documents.ValidationError{FileType: documents.FileType(fileType)}
	}
	return nil
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return &documents.ValidationError{Msg: "tenant ID cannot be empty"}
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return &documents.ValidationError{Msg: "invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)"}
	}

	return nil
}

// ValidateDocumentID validates document ID format: doc-<epochMillis>-<alnum9>
func ValidateDocumentID(id string) error {
	if id == "" {
		return &documents.ValidationError{Msg: "document ID cannot be empty"}
	}

	pattern := `^doc-\d{1,16}-[a-z0-9]{9}$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return &documents.ValidationError{Msg: "invalid document ID format"}
	}

	return nil
}

// SanitizeFileName strips path components and control characters from an
// uploaded file name before it is logged or used as a storage key.
func SanitizeFileName(name string) string {
	// Drop any directory part, whichever separator the client used
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	// Remove null bytes and control characters
	var result strings.Builder
	for _, r := range name {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}

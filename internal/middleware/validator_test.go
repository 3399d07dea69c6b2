package middleware

import "testing"

func TestValidateFileType(t *testing.T) {
	allowed := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
	}
	for _, ft := range allowed {
		if err := ValidateFileType(ft); err != nil {
			t.Errorf("ValidateFileType(%q) = %v, want nil", ft, err)
		}
	}

	err := ValidateFileType("application/zip")
	if err == nil {
		t.Fatal("application/zip accepted")
	}
	if err.Error() != "Please select a PDF, Word document, or text file" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestValidateTenantID(t *testing.T) {
	tests := []struct {
		tenant string
		ok     bool
	}{
		{"acme", true},
		{"acme-corp_01", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
	}
	for _, tt := range tests {
		err := ValidateTenantID(tt.tenant)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateTenantID(%q) = %v, want ok=%v", tt.tenant, err, tt.ok)
		}
	}
}

func TestValidateDocumentID(t *testing.T) {
	if err := ValidateDocumentID("doc-1700000000000-a1b2c3d4e"); err != nil {
		t.Errorf("valid id rejected: %v", err)
	}
	for _, bad := range []string{"", "doc-abc-a1b2c3d4e", "doc-1700000000000-short", "scan-1-aaaaaaaaa"} {
		if err := ValidateDocumentID(bad); err == nil {
			t.Errorf("ValidateDocumentID(%q) = nil, want error", bad)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"grant.pdf", "grant.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\grant.docx`, "grant.docx"},
		{"with\x00null.txt", "withnull.txt"},
		{"  padded.txt  ", "padded.txt"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateLimitAndDays(t *testing.T) {
	if got := ValidateLimit(0); got != 20 {
		t.Errorf("ValidateLimit(0) = %d", got)
	}
	if got := ValidateLimit(500); got != 100 {
		t.Errorf("ValidateLimit(500) = %d", got)
	}
	if got := ValidateDays(-1); got != 7 {
		t.Errorf("ValidateDays(-1) = %d", got)
	}
	if got := ValidateDays(1000); got != 365 {
		t.Errorf("ValidateDays(1000) = %d", got)
	}
}

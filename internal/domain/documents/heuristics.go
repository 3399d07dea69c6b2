package documents

import (
	"fmt"
	"strings"
)

// Heuristic classification: rule-based derivation of document attributes
// from filename/content substrings. This runs on every analyze call and its
// output replaces the upstream classifier payload's nuanced fields. Keeping
// that replacement is a deliberate compatibility decision (see DESIGN.md).

const (
	comprehensiveThreshold = 1000
	confidenceThreshold    = 500
)

// DeriveAnalysis computes the normalized analysis for a file name and its
// extracted content. Pure; case-insensitive on both inputs.
func DeriveAnalysis(fileName, content string) Analysis {
	lowerName := strings.ToLower(fileName)
	lowerContent := strings.ToLower(content)

	return Analysis{
		Summary:        deriveSummary(fileName, len(content)),
		DocumentType:   deriveDocumentType(lowerName),
		KeyEntities:    deriveKeyEntities(lowerName),
		IsGrantRelated: deriveGrantRelated(lowerName, lowerContent),
		Confidence:     deriveConfidence(len(content)),
	}
}

func deriveSummary(fileName string, contentLen int) string {
	tag := "document"
	if strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		tag = "PDF"
	}
	detail := "basic"
	if contentLen > comprehensiveThreshold {
		detail = "comprehensive"
	}
	return fmt.Sprintf("Analysis of %s: this %s contains %s information about grant funding opportunities.",
		fileName, tag, detail)
}

// deriveDocumentType applies the filename rules in order; first match wins.
func deriveDocumentType(lowerName string) DocumentType {
	switch {
	case strings.Contains(lowerName, "grant"):
		return TypeGrantApplication
	case strings.Contains(lowerName, "proposal"):
		return TypeGrantOpportunity
	case strings.Contains(lowerName, "report"):
		return TypeResearchPaper
	}
	return TypeUnknown
}

func deriveKeyEntities(lowerName string) []string {
	first := "Organization"
	if strings.Contains(lowerName, "teach") {
		first = "Teach for America"
	}
	return []string{first, "Project funding", "Educational initiative", "Community impact"}
}

func deriveGrantRelated(lowerName, lowerContent string) bool {
	return strings.Contains(lowerName, "grant") ||
		strings.Contains(lowerName, "proposal") ||
		strings.Contains(lowerContent, "funding") ||
		strings.Contains(lowerContent, "grant")
}

// deriveConfidence is a two-level step function, not a continuous score.
// Strictly greater than the threshold; exactly 500 chars stays at 0.65.
func deriveConfidence(contentLen int) float64 {
	if contentLen > confidenceThreshold {
		return 0.85
	}
	return 0.65
}

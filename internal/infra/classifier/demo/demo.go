package demo

import (
	"context"
	"time"

	"github.com/grantscope/docintake/internal/domain/documents"
)

// simulatedLatency mirrors what a real classification round-trip feels like
// so the showcase UI exercises its pending states.
const simulatedLatency = 1500 * time.Millisecond

// Classifier is the client-only simulation path used for static showcase
// deployments. Its payload exists solely to exercise the caller; the
// normalized analysis is derived from heuristics either way.
type Classifier struct {
	Latency time.Duration
}

func New() *Classifier {
	return &Classifier{Latency: simulatedLatency}
}

func (c *Classifier) Name() string { return "demo" }

func (c *Classifier) Classify(ctx context.Context, req documents.ClassificationRequest) (documents.RawClassification, error) {
	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return documents.RawClassification{
		"document_type":  "Grant Application",
		"themes":         []string{"education", "community development", "funding"},
		"funding_amount": "$50,000",
		"status":         "simulated",
		"file_name":      req.FileName,
	}, nil
}

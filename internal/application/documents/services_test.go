package documents

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	domain "github.com/grantscope/docintake/internal/domain/documents"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeRepo struct {
	mu   sync.Mutex
	docs map[domain.DocumentID]*domain.Document
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[domain.DocumentID]*domain.Document)}
}

func (r *fakeRepo) Save(ctx context.Context, d *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.docs[d.ID] = &cp
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, tenant string, id domain.DocumentID) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *d
	return &cp, nil
}

func (r *fakeRepo) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Document
	for _, d := range r.docs {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total, related, failed := 0, 0, 0
	for _, d := range r.docs {
		total++
		if d.Analysis.IsGrantRelated {
			related++
		}
		if d.Status == domain.StatusFailed {
			failed++
		}
	}
	return total, related, failed, nil
}

func (r *fakeRepo) succeeded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.docs {
		if d.Status == domain.StatusSucceeded {
			n++
		}
	}
	return n
}

type fakeClassifier struct {
	name    string
	err     error
	delay   time.Duration
	payload domain.RawClassification
	calls   int
	mu      sync.Mutex
}

func (c *fakeClassifier) Name() string {
	if c.name == "" {
		return "fake"
	}
	return c.name
}

func (c *fakeClassifier) Classify(ctx context.Context, req domain.ClassificationRequest) (domain.RawClassification, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.payload, nil
}

func newService(repo *fakeRepo, cls domain.Classifier) *Service {
	return NewService(repo, cls, nil, fixedClock{t: time.UnixMilli(1700000000000)}, "classifier-v1")
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestAnalyzeRejectsUnsupportedType(t *testing.T) {
	repo := newFakeRepo()
	cls := &fakeClassifier{}
	svc := newService(repo, cls)

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		TenantID: "acme",
		FileName: "archive.zip",
		FileType: "application/zip",
		Content:  b64("irrelevant"),
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if err.Error() != "Please select a PDF, Word document, or text file" {
		t.Errorf("message = %q", err.Error())
	}
	if cls.calls != 0 {
		t.Errorf("classifier called %d times, want 0", cls.calls)
	}
	if len(repo.docs) != 0 {
		t.Errorf("repo has %d docs, want 0 (no transition to processing)", len(repo.docs))
	}
	if got := svc.State("acme"); got != domain.StatusFailed {
		t.Errorf("state = %q, want failed and re-submittable", got)
	}
}

func TestAnalyzeDemoScenario(t *testing.T) {
	// 600 chars of content mentioning funding, filename with grant+proposal.
	content := "...funding for environmental work..." + strings.Repeat(" restoration and outreach", 24)
	content = content[:600]

	repo := newFakeRepo()
	cls := &fakeClassifier{payload: domain.RawClassification{"document_type": "Something Else Entirely"}}
	svc := newService(repo, cls)

	res, err := svc.Analyze(context.Background(), AnalyzeCommand{
		TenantID: "acme",
		FileName: "grant-proposal-2024.txt",
		Content:  b64(content),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.Success {
		t.Error("Success = false")
	}
	if res.Analysis.DocumentType != domain.TypeGrantApplication {
		t.Errorf("DocumentType = %q, want %q", res.Analysis.DocumentType, domain.TypeGrantApplication)
	}
	if !res.Analysis.IsGrantRelated {
		t.Error("IsGrantRelated = false, want true")
	}
	if res.Analysis.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", res.Analysis.Confidence)
	}
	if res.Analysis.KeyEntities[0] != "Organization" {
		t.Errorf("KeyEntities[0] = %q, want %q", res.Analysis.KeyEntities[0], "Organization")
	}
	if res.ViewURL != "#document-1700000000000" {
		t.Errorf("ViewURL = %q", res.ViewURL)
	}
	// The backend payload's document_type must not leak into the result.
	if res.Analysis.DocumentType == "Something Else Entirely" {
		t.Error("raw classifier payload leaked into the normalized analysis")
	}
	if got := svc.State("acme"); got != domain.StatusSucceeded {
		t.Errorf("state = %q, want succeeded", got)
	}

	doc, err := svc.Get(context.Background(), "acme", res.DocumentID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Status != domain.StatusSucceeded || doc.ContentLength != 600 {
		t.Errorf("stored doc = %+v", doc)
	}
}

func TestAnalyzeRemoteFailureLeavesNoResult(t *testing.T) {
	repo := newFakeRepo()
	cls := &fakeClassifier{err: &domain.NetworkError{Status: 500, StatusText: "Internal Server Error"}}
	svc := newService(repo, cls)

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		TenantID: "acme",
		FileName: "grant.txt",
		Content:  b64("some funding text"),
	})
	var ne *domain.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if err.Error() != "HTTP 500: Internal Server Error" {
		t.Errorf("message = %q", err.Error())
	}
	if repo.succeeded() != 0 {
		t.Error("a succeeded result was stored despite the failure")
	}
	if got := svc.State("acme"); got != domain.StatusFailed {
		t.Errorf("state = %q, want failed", got)
	}
}

func TestAnalyzeExtractionFailurePropagates(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeClassifier{})

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		TenantID: "acme",
		FileName: "doc.txt",
		Content:  "!!not base64!!",
	})
	var ee *domain.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("error = %v, want ExtractionError", err)
	}
}

func TestAnalyzeSingleInFlightPerTenant(t *testing.T) {
	repo := newFakeRepo()
	cls := &fakeClassifier{delay: 200 * time.Millisecond}
	svc := newService(repo, cls)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := svc.Analyze(context.Background(), AnalyzeCommand{
			TenantID: "acme", FileName: "grant.txt", Content: b64("x"),
		})
		done <- err
	}()
	<-started
	time.Sleep(50 * time.Millisecond)

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		TenantID: "acme", FileName: "grant.txt", Content: b64("x"),
	})
	if !errors.Is(err, domain.ErrAnalysisInFlight) {
		t.Errorf("second call error = %v, want ErrAnalysisInFlight", err)
	}

	// A different tenant is not blocked.
	if _, err := svc.Analyze(context.Background(), AnalyzeCommand{
		TenantID: "other", FileName: "grant.txt", Content: b64("x"),
	}); err != nil {
		t.Errorf("other tenant blocked: %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("first call: %v", err)
	}
	// Gate released after completion.
	if _, err := svc.Analyze(context.Background(), AnalyzeCommand{
		TenantID: "acme", FileName: "grant.txt", Content: b64("x"),
	}); err != nil {
		t.Errorf("resubmission after completion failed: %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate(strings.Repeat("a", 3000), 2000); len(got) != 2000 {
		t.Errorf("len = %d, want 2000", len(got))
	}
	if got := truncate("short", 2000); got != "short" {
		t.Errorf("got %q", got)
	}
	// Multi-byte runes are not split.
	s := strings.Repeat("é", 1500)
	got := truncate(s, 1000)
	if []rune(got)[999] != 'é' || len([]rune(got)) != 1000 {
		t.Errorf("rune truncation wrong: %d runes", len([]rune(got)))
	}
}

package documents

import (
	"context"
	"fmt"
	"log"

	"github.com/grantscope/docintake/internal/application"
	domain "github.com/grantscope/docintake/internal/domain/documents"
	"github.com/grantscope/docintake/internal/infra/extract"
)

// contentPrefixLimit bounds how much extracted content is sent to the
// classifier backend.
const contentPrefixLimit = 2000

const analysisType = "document_classification"

// Service implements use-cases untuk document intake & analysis.
// Safe for concurrent use; at most one analyze call per tenant is in flight.
type Service struct {
	Repo       domain.Repository
	Classifier domain.Classifier
	Artifacts  domain.ArtifactStore
	Clock      application.Clock
	Model      string

	states *stateTracker
}

func NewService(repo domain.Repository, cls domain.Classifier, store domain.ArtifactStore, clock application.Clock, model string) *Service {
	return &Service{
		Repo:       repo,
		Classifier: cls,
		Artifacts:  store,
		Clock:      clock,
		Model:      model,
		states:     newStateTracker(),
	}
}

// Command untuk analyze
type AnalyzeCommand struct {
	TenantID string
	FileName string
	FileType string // declared media type; derived from extension when empty
	Content  string // base64 file bytes, optionally a full data URL
}

// State reports the analyze state machine position for a tenant.
func (s *Service) State(tenant string) domain.Status {
	return s.states.State(tenant)
}

// Analyze runs the full intake pipeline: validate → extract → classify →
// derive heuristics → persist. The classifier payload is obtained on every
// call but its nuanced fields are discarded; the analysis that reaches the
// caller comes from filename/content heuristics (see DeriveAnalysis). That
// match with historical stored results is intentional.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.AnalysisResult, error) {
	if err := s.states.begin(cmd.TenantID); err != nil {
		return nil, err
	}
	ok := false
	// The gate is always released on exit, success or not.
	defer func() { s.states.finish(cmd.TenantID, ok) }()

	// 1. Validate declared media type against the allow-list.
	fileType := domain.FileType(cmd.FileType)
	if fileType == "" {
		fileType = domain.FileTypeFromName(cmd.FileName)
	}
	if !domain.AllowedFileType(fileType) {
		return nil, &domain.ValidationError{FileType: fileType}
	}

	// 2. Decode the upload and extract its transport representation.
	data, err := extract.DecodePayload(cmd.Content)
	if err != nil {
		log.Printf("analyze failed: tenant=%s file=%s err=%v", cmd.TenantID, cmd.FileName, err)
		return nil, err
	}
	content, err := extract.Extract(domain.SourceFile{Name: cmd.FileName, Type: fileType, Data: data})
	if err != nil {
		log.Printf("analyze failed: tenant=%s file=%s err=%v", cmd.TenantID, cmd.FileName, err)
		return nil, err
	}

	s.states.to(cmd.TenantID, domain.StatusProcessing)

	now := s.Clock.Now()
	id := domain.NewDocumentID(now)
	doc := &domain.Document{
		ID:            id,
		TenantID:      cmd.TenantID,
		FileName:      cmd.FileName,
		FileType:      fileType,
		ContentLength: len(content),
		Backend:       s.Classifier.Name(),
		Status:        domain.StatusProcessing,
		AnalyzedAt:    now,
	}
	if err := s.Repo.Save(ctx, doc); err != nil {
		log.Printf("analyze failed: tenant=%s file=%s err=%v", cmd.TenantID, cmd.FileName, err)
		return nil, err
	}

	// 3. Keep the raw upload for later review.
	if s.Artifacts != nil {
		key := fmt.Sprintf("%s/%s/%s", cmd.TenantID, id, cmd.FileName)
		url, err := s.Artifacts.Put(ctx, key, data, string(fileType))
		if err != nil {
			// The artifact copy is best-effort; the analysis still proceeds.
			log.Printf("artifact upload failed: tenant=%s file=%s err=%v", cmd.TenantID, cmd.FileName, err)
		} else {
			doc.ArtifactURL = url
		}
	}

	// 4. Obtain the raw classification payload from the configured backend.
	if _, err := s.Classifier.Classify(ctx, domain.ClassificationRequest{
		Text:         truncate(content, contentPrefixLimit),
		ModelName:    s.Model,
		AnalysisType: analysisType,
		FileName:     cmd.FileName,
		FileType:     fileType,
	}); err != nil {
		log.Printf("analyze failed: tenant=%s file=%s backend=%s err=%v",
			cmd.TenantID, cmd.FileName, s.Classifier.Name(), err)
		doc.Status = domain.StatusFailed
		_ = s.Repo.Save(context.Background(), doc)
		return nil, err
	}

	// 5. Derive the normalized analysis from filename/content heuristics.
	doc.Analysis = domain.DeriveAnalysis(cmd.FileName, content)
	doc.ViewURL = domain.NewViewURL(now)
	doc.Status = domain.StatusSucceeded
	doc.DurationMS = s.Clock.Now().Sub(now).Milliseconds()
	if err := s.Repo.Save(ctx, doc); err != nil {
		log.Printf("analyze failed: tenant=%s file=%s err=%v", cmd.TenantID, cmd.FileName, err)
		return nil, err
	}

	ok = true
	return &domain.AnalysisResult{
		Success:    true,
		DocumentID: id,
		Analysis:   doc.Analysis,
		ViewURL:    doc.ViewURL,
	}, nil
}

// Latest ambil N document terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Document, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Get ambil 1 document by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.DocumentID) (*domain.Document, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Summary rekap hasil analisis N hari terakhir
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (map[string]any, error) {
	total, grantRelated, failed, err := s.Repo.Summary(ctx, tenant, sinceDays)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_documents": total,
		"grant_related":   grantRelated,
		"failed":          failed,
	}, nil
}

// truncate keeps the first n runes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

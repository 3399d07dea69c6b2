package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appcrawler "github.com/grantscope/docintake/internal/application/crawler"
	appdocs "github.com/grantscope/docintake/internal/application/documents"
	domdocs "github.com/grantscope/docintake/internal/domain/documents"
	domgrants "github.com/grantscope/docintake/internal/domain/grants"
	"github.com/grantscope/docintake/internal/middleware"
)

type Router struct {
	docsSvc       *appdocs.Service
	crawler       *appcrawler.Manager
	crawlInterval time.Duration
}

func NewRouter(docsSvc *appdocs.Service, crawler *appcrawler.Manager, crawlInterval time.Duration) http.Handler {
	r := &Router{docsSvc: docsSvc, crawler: crawler, crawlInterval: crawlInterval}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(middleware.RequireTenantMatch)

		rt.Post("/documents/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/documents/latest", r.wrap(r.handleLatest))
		rt.Get("/documents/state", r.wrap(r.handleState))
		rt.Get("/documents/summary", r.wrap(r.handleSummary))
		rt.Get("/documents/{id}", r.wrap(r.handleGet))

		rt.Post("/crawler/start", r.wrap(r.handleCrawlStart))
		rt.Get("/crawler/status", r.wrap(r.handleCrawlStatus))
		rt.Get("/crawler/logs", r.wrap(r.handleCrawlLogs))
		rt.Post("/crawler/schedule", r.wrap(r.handleCrawlSchedule))
		rt.Delete("/crawler/schedule", r.wrap(r.handleCrawlUnschedule))

		rt.Get("/grants/latest", r.wrap(r.handleGrantsLatest))
		rt.Get("/grants/summary", r.wrap(r.handleGrantsSummary))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap translates the error taxonomy into HTTP statuses. Every failure ends
// here; nothing escapes to crash the process.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var (
			validationErr *domdocs.ValidationError
			networkErr    *domdocs.NetworkError
			extractionErr *domdocs.ExtractionError
		)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.As(err, &validationErr):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domdocs.ErrAnalysisInFlight),
			errors.Is(err, domgrants.ErrCrawlInProgress):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.As(err, &networkErr):
			http.Error(w, err.Error(), http.StatusBadGateway)
		case errors.As(err, &extractionErr):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/{tenant}/documents/analyze
// Body: {"file_name": "...", "file_type": "...", "content": "<base64 or data URL>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}

	var body struct {
		FileName string `json:"file_name"`
		FileType string `json:"file_type"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.FileType != "" {
		if err := middleware.ValidateFileType(body.FileType); err != nil {
			return err
		}
	}

	result, err := r.docsSvc.Analyze(req.Context(), appdocs.AnalyzeCommand{
		TenantID: tenant,
		FileName: middleware.SanitizeFileName(body.FileName),
		FileType: body.FileType,
		Content:  body.Content,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()

	return writeJSON(w, result)
}

// GET /v1/{tenant}/documents/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.docsSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/documents/state — the analyze state machine position,
// polled by the dashboard to disable re-submission.
func (r *Router) handleState(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	return writeJSON(w, map[string]any{"state": r.docsSvc.State(tenant)})
}

// GET /v1/{tenant}/documents/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateDocumentID(id); err != nil {
		return err
	}

	doc, err := r.docsSvc.Get(req.Context(), tenant, domdocs.DocumentID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, doc)
}

// GET /v1/{tenant}/documents/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	summary, err := r.docsSvc.Summary(req.Context(), tenant, middleware.ValidateDays(days))
	if err != nil {
		return err
	}
	return writeJSON(w, summary)
}

// POST /v1/{tenant}/crawler/start — queues the crawl and returns 202.
// A crawl over several sources outlives the request; the caller polls
// status/logs for the outcome.
func (r *Router) handleCrawlStart(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}

	if err := r.crawler.StartGlobalCrawlAsync(tenant); err != nil {
		return err
	}
	middleware.IncrementCrawls()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(map[string]any{
		"queued": true,
		"status": r.crawler.Status(),
	})
}

// GET /v1/{tenant}/crawler/status
func (r *Router) handleCrawlStatus(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, r.crawler.Status())
}

// GET /v1/{tenant}/crawler/logs?limit=50
func (r *Router) handleCrawlLogs(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	return writeJSON(w, map[string]any{"logs": r.crawler.Logs(middleware.ValidateLimit(limit))})
}

// POST /v1/{tenant}/crawler/schedule
func (r *Router) handleCrawlSchedule(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	r.crawler.ScheduleRegularCrawls(r.crawlInterval, tenant)
	return writeJSON(w, r.crawler.Status())
}

// DELETE /v1/{tenant}/crawler/schedule
func (r *Router) handleCrawlUnschedule(w http.ResponseWriter, req *http.Request) error {
	r.crawler.StopScheduledCrawls()
	return writeJSON(w, r.crawler.Status())
}

// GET /v1/{tenant}/grants/latest?limit=20
func (r *Router) handleGrantsLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.crawler.Repo.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/grants/summary?days=7
func (r *Router) handleGrantsSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))
	days = middleware.ValidateDays(days)

	n, err := r.crawler.Repo.CountSince(req.Context(), tenant, days)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"grants_discovered": n,
		"days":              days,
	})
}

package crawler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grantscope/docintake/internal/application"
	domain "github.com/grantscope/docintake/internal/domain/grants"
)

// Manager runs the global grant crawl and exposes the polled lifecycle the
// dashboard consumes: status snapshot, one-shot crawl, regular scheduling,
// and a bounded log tail.
type Manager struct {
	Repo    domain.Repository
	Sources []domain.Source
	Clock   application.Clock

	mu          sync.Mutex
	running     bool
	scheduled   bool
	totalCrawls int
	lastCrawlAt time.Time
	stopSched   chan struct{}

	logs *logBuffer
}

func NewManager(repo domain.Repository, sources []domain.Source, clock application.Clock) *Manager {
	return &Manager{
		Repo:    repo,
		Sources: sources,
		Clock:   clock,
		logs:    newLogBuffer(logCapacity),
	}
}

// Status returns a snapshot for the polling dashboard.
func (m *Manager) Status() domain.CrawlStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CrawlStatus{
		IsRunning:   m.running,
		IsScheduled: m.scheduled,
		TotalCrawls: m.totalCrawls,
		LastCrawlAt: m.lastCrawlAt,
	}
}

// Logs returns up to n most recent crawl log lines, oldest first.
func (m *Manager) Logs(n int) []string {
	return m.logs.tail(n)
}

// claim takes the single-crawl gate.
func (m *Manager) claim() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return domain.ErrCrawlInProgress
	}
	m.running = true
	return nil
}

// StartGlobalCrawl fetches every configured source once and persists what it
// finds. At most one crawl runs at a time; concurrent starts are rejected.
func (m *Manager) StartGlobalCrawl(ctx context.Context, tenant string) (*domain.CrawlReport, error) {
	if err := m.claim(); err != nil {
		return nil, err
	}
	return m.run(ctx, tenant), nil
}

// StartGlobalCrawlAsync claims the gate and runs the crawl in the background
// on a detached context, so it survives the HTTP request that triggered it.
// The caller polls Status and Logs for the outcome.
func (m *Manager) StartGlobalCrawlAsync(tenant string) error {
	if err := m.claim(); err != nil {
		return err
	}
	go m.run(context.Background(), tenant)
	return nil
}

func (m *Manager) run(ctx context.Context, tenant string) *domain.CrawlReport {
	defer func() {
		m.mu.Lock()
		m.running = false
		m.totalCrawls++
		m.lastCrawlAt = m.Clock.Now()
		m.mu.Unlock()
	}()

	m.logf("crawl started: tenant=%s sources=%d", tenant, len(m.Sources))

	report := &domain.CrawlReport{Errors: []string{}, ProcessedGrants: []*domain.Grant{}}
	for _, src := range m.Sources {
		found, err := src.Fetch(ctx)
		if err != nil {
			msg := fmt.Sprintf("source %s: %v", src.Name(), err)
			report.Errors = append(report.Errors, msg)
			m.logf("crawl error: %s", msg)
			continue
		}
		for _, g := range found {
			if g.ID == "" {
				g.ID = domain.GrantID(uuid.NewString())
			}
			g.TenantID = tenant
			g.SourceName = src.Name()
			if g.DiscoveredAt.IsZero() {
				g.DiscoveredAt = m.Clock.Now()
			}
			if err := m.Repo.Save(ctx, g); err != nil {
				msg := fmt.Sprintf("saving grant %q from %s: %v", g.Title, src.Name(), err)
				report.Errors = append(report.Errors, msg)
				m.logf("crawl error: %s", msg)
				continue
			}
			report.ProcessedGrants = append(report.ProcessedGrants, g)
		}
		m.logf("source %s: %d grants", src.Name(), len(found))
	}

	report.TotalGrants = len(report.ProcessedGrants)
	report.Success = len(report.Errors) == 0
	report.Summary = fmt.Sprintf("crawled %d sources: %d grants, %d errors",
		len(m.Sources), report.TotalGrants, len(report.Errors))
	m.logf("crawl finished: %s", report.Summary)

	return report
}

// ScheduleRegularCrawls starts a ticker that triggers a global crawl on the
// given interval. No-op when a schedule is already active.
func (m *Manager) ScheduleRegularCrawls(interval time.Duration, tenant string) {
	m.mu.Lock()
	if m.scheduled {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	m.stopSched = stop
	m.scheduled = true
	m.mu.Unlock()

	m.logf("regular crawls scheduled: interval=%s", interval)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := m.StartGlobalCrawl(context.Background(), tenant); err != nil {
					log.Printf("scheduled crawl skipped: %v", err)
				}
			case <-stop:
				return
			}
		}
	}()
}

// StopScheduledCrawls cancels the schedule ticker. Safe to call when no
// schedule is active.
func (m *Manager) StopScheduledCrawls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.scheduled {
		return
	}
	close(m.stopSched)
	m.stopSched = nil
	m.scheduled = false
	m.logs.add(m.Clock.Now(), "regular crawls stopped")
}

func (m *Manager) logf(format string, args ...any) {
	m.logs.add(m.Clock.Now(), fmt.Sprintf(format, args...))
}

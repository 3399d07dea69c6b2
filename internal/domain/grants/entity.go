package grants

import "time"

// ID tipe untuk Grant
type GrantID string

// Grant is one funding opportunity discovered by the global crawler.
type Grant struct {
	ID           GrantID   `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Title        string    `json:"title"`
	Funder       string    `json:"funder,omitempty"`
	Amount       string    `json:"amount,omitempty"`
	Deadline     string    `json:"deadline,omitempty"`
	SourceName   string    `json:"source_name"`
	SourceURL    string    `json:"source_url,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// CrawlStatus snapshot returned to the polling dashboard.
type CrawlStatus struct {
	IsRunning   bool      `json:"isRunning"`
	IsScheduled bool      `json:"isScheduled"`
	TotalCrawls int       `json:"totalCrawls"`
	LastCrawlAt time.Time `json:"lastCrawlAt,omitzero"`
}

// CrawlReport summarizes one global crawl run.
type CrawlReport struct {
	Success         bool     `json:"success"`
	TotalGrants     int      `json:"totalGrants"`
	Errors          []string `json:"errors"`
	Summary         string   `json:"summary"`
	ProcessedGrants []*Grant `json:"processedGrants"`
}

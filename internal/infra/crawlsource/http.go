package crawlsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domain "github.com/grantscope/docintake/internal/domain/grants"
)

const fetchTimeout = 20 * time.Second

// HTTPSource crawls one grant listing endpoint that serves a JSON array of
// opportunities.
type HTTPSource struct {
	name string
	url  string
	http *http.Client
}

func NewHTTPSource(name, url string) *HTTPSource {
	return &HTTPSource{
		name: name,
		url:  url,
		http: &http.Client{Timeout: fetchTimeout},
	}
}

func (s *HTTPSource) Name() string { return s.name }

// listing wire format: a JSON array of these
type listingItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Funder   string `json:"funder"`
	Amount   string `json:"amount"`
	Deadline string `json:"deadline"`
	URL      string `json:"url"`
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]*domain.Grant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var items []listingItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding listing from %s: %w", s.name, err)
	}

	out := make([]*domain.Grant, 0, len(items))
	for _, it := range items {
		if it.Title == "" {
			continue
		}
		sourceURL := it.URL
		if sourceURL == "" {
			sourceURL = s.url
		}
		out = append(out, &domain.Grant{
			ID:        domain.GrantID(it.ID),
			Title:     it.Title,
			Funder:    it.Funder,
			Amount:    it.Amount,
			Deadline:  it.Deadline,
			SourceURL: sourceURL,
		})
	}
	return out, nil
}

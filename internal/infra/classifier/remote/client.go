package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/grantscope/docintake/internal/domain/documents"
)

const defaultTimeout = 30 * time.Second

// Client talks to the external classification endpoint over HTTPS POST.
type Client struct {
	endpoint string
	model    string
	http     *http.Client
}

func NewClient(endpoint, model string) *Client {
	return &Client{
		endpoint: endpoint,
		model:    model,
		http:     &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) Name() string { return "remote" }

// wire format expected by the classification endpoint
type requestBody struct {
	Text         string          `json:"text"`
	ModelName    string          `json:"model_name"`
	AnalysisType string          `json:"analysis_type"`
	Metadata     requestMetadata `json:"metadata"`
}

type requestMetadata struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

func (c *Client) Classify(ctx context.Context, req documents.ClassificationRequest) (documents.RawClassification, error) {
	model := req.ModelName
	if model == "" {
		model = c.model
	}
	body, err := json.Marshal(requestBody{
		Text:         req.Text,
		ModelName:    model,
		AnalysisType: req.AnalysisType,
		Metadata: requestMetadata{
			FileName: req.FileName,
			FileType: string(req.FileType),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding classification request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &documents.NetworkError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}

	// The response shape is not validated beyond the status check. A body
	// that fails to decode is treated the same as an empty payload.
	var raw documents.RawClassification
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return documents.RawClassification{}, nil
	}
	return raw, nil
}

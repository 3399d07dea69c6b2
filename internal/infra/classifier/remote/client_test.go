package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grantscope/docintake/internal/domain/documents"
)

func TestClassifySendsWireFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"document_type": "Grant Application"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "classifier-v1")
	raw, err := c.Classify(context.Background(), documents.ClassificationRequest{
		Text:         "some document text",
		AnalysisType: "document_classification",
		FileName:     "grant.pdf",
		FileType:     documents.FileTypePDF,
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if raw["document_type"] != "Grant Application" {
		t.Errorf("payload = %v", raw)
	}

	if got["text"] != "some document text" {
		t.Errorf("text = %v", got["text"])
	}
	if got["model_name"] != "classifier-v1" {
		t.Errorf("model_name = %v (default model should fill in)", got["model_name"])
	}
	if got["analysis_type"] != "document_classification" {
		t.Errorf("analysis_type = %v", got["analysis_type"])
	}
	meta, _ := got["metadata"].(map[string]any)
	if meta["fileName"] != "grant.pdf" || meta["fileType"] != "application/pdf" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestClassifyNon2xxIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Classify(context.Background(), documents.ClassificationRequest{Text: "x"})

	var ne *documents.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if ne.Error() != "HTTP 500: Internal Server Error" {
		t.Errorf("error text = %q, want %q", ne.Error(), "HTTP 500: Internal Server Error")
	}
}

func TestClassifyUnparseableBodyIsTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	raw, err := c.Classify(context.Background(), documents.ClassificationRequest{Text: "x"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("payload = %v, want empty", raw)
	}
}

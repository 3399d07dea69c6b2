package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/grantscope/docintake/internal/domain/documents"
)

const maxTokens = 2048

const systemPrompt = `You are a grant document classifier. Given document text and its
file name, respond with a single JSON object with keys: document_type, themes
(array of strings), funding_amount, summary. Respond with JSON only.`

// Client classifies documents through the OpenAI chat completion API.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Classify(ctx context.Context, creq documents.ClassificationRequest) (documents.RawClassification, error) {
	model := creq.ModelName
	if model == "" {
		model = c.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("File: %s\n\n%s", creq.FileName, creq.Text)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	content := resp.Choices[0].Message.Content
	var raw documents.RawClassification
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		// Model ignored the JSON instruction; keep the text as-is.
		return documents.RawClassification{"analysis": content}, nil
	}
	return raw, nil
}

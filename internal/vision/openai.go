package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com"
)

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAITextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIImageContent struct {
	Type     string         `json:"type"`
	ImageURL openAIImageURL `json:"image_url"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIChatRequest struct {
	Model          string               `json:"model"`
	Messages       []openAIMessage      `json:"messages"`
	Temperature    float64              `json:"temperature"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content any `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIProvider talks to the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
}

// NewOpenAIProvider validates the credential and applies model/endpoint defaults.
func NewOpenAIProvider(apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrConfiguration)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAIProvider{apiKey: apiKey, model: model, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (p *OpenAIProvider) Name() string { return "OpenAI" }

// NewRequest sends the prompt as the system message and the images as data
// URLs in the user message.
func (p *OpenAIProvider) NewRequest(ctx context.Context, images []Image) (*http.Request, error) {
	userContent := []any{openAITextContent{Type: "text", Text: sideLabel(images)}}
	for _, img := range images {
		userContent = append(userContent, openAIImageContent{
			Type:     "image_url",
			ImageURL: openAIImageURL{URL: fmt.Sprintf("data:%s;base64,%s", img.MimeType, img.Data)},
		})
	}

	payload, err := json.Marshal(openAIChatRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature:    0.1,
		ResponseFormat: openAIResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	return req, nil
}

// ExtractText returns the content of the first choice. Structured content
// arrays are flattened to their text parts.
func (p *OpenAIProvider) ExtractText(body []byte) (string, error) {
	var resp openAIChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: parse openai envelope: %v", ErrEnvelope, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in openai response", ErrEnvelope)
	}

	var text string
	switch content := resp.Choices[0].Message.Content.(type) {
	case string:
		text = content
	case []any:
		var sb strings.Builder
		for _, item := range content {
			part, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := part["text"].(string); ok {
				sb.WriteString(s)
			}
		}
		text = sb.String()
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no JSON content returned by openai", ErrEnvelope)
	}
	return text, nil
}

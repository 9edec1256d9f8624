package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Completer is the model-invocation surface the generation services depend
// on. Tests swap in a canned implementation.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// WebSearcher runs a model-backed web search and returns the raw text
// completion.
type WebSearcher interface {
	WebSearch(ctx context.Context, system, query string) (string, error)
}

// AIService talks to an OpenAI-compatible API over plain HTTP.
type AIService struct {
	baseURL     string
	apiKey      string
	model       string
	searchModel string
	client      *http.Client
}

func NewAIService(baseURL, apiKey, model, searchModel string) *AIService {
	return &AIService{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		searchModel: searchModel,
		client:      &http.Client{},
	}
}

func (s *AIService) Complete(ctx context.Context, system, user string) (string, error) {
	return s.doChat(ctx, system, user, false)
}

// CompleteJSON asks for a json_object response; callers still validate the
// returned text.
func (s *AIService) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	return s.doChat(ctx, system, user, true)
}

func (s *AIService) doChat(ctx context.Context, system, user string, jsonOnly bool) (string, error) {
	body := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	if jsonOnly {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	data, err := s.post(ctx, "/v1/chat/completions", body)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return result.Choices[0].Message.Content, nil
}

// WebSearch invokes the responses API with the provider's web_search tool.
func (s *AIService) WebSearch(ctx context.Context, system, query string) (string, error) {
	body := map[string]interface{}{
		"model":             s.searchModel,
		"max_output_tokens": 600,
		"tools":             []map[string]string{{"type": "web_search"}},
		"input": []map[string]interface{}{
			{"role": "system", "content": system},
			{"role": "user", "content": query},
		},
	}

	data, err := s.post(ctx, "/v1/responses", body)
	if err != nil {
		return "", err
	}

	var result struct {
		Output []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	var sb strings.Builder
	for _, item := range result.Output {
		for _, block := range item.Content {
			if block.Type == "output_text" {
				sb.WriteString(block.Text)
			}
		}
	}
	return sb.String(), nil
}

func (s *AIService) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	payload, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm status %d: %s", resp.StatusCode, data)
	}
	return data, nil
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RouterProvider talks to an OpenAI-compatible /chat/completions endpoint
// (the Hugging Face inference router by default). Generation parameters are
// fixed: bounded output length, moderate randomness.
type RouterProvider struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Client      *http.Client
}

type routerMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type routerChatReq struct {
	Model       string      `json:"model"`
	Messages    []routerMsg `json:"messages"`
	MaxTokens   int         `json:"max_tokens"`
	Temperature float64     `json:"temperature"`
}

type routerChatResp struct {
	Choices []struct {
		Message routerMsg `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewRouterProvider(baseURL, apiKey, model string) *RouterProvider {
	if baseURL == "" {
		baseURL = "https://router.huggingface.co/v1"
	}
	return &RouterProvider{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Model:       model,
		MaxTokens:   500,
		Temperature: 0.7,
		Client:      &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *RouterProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if p.Client == nil {
		return "", errors.New("router: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "", errors.New("router: api key is required")
	}
	model := strings.TrimSpace(p.Model)
	if model == "" {
		return "", errors.New("router: model is required")
	}

	reqBody := routerChatReq{
		Model:       model,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		Messages: func() []routerMsg {
			out := make([]routerMsg, 0, len(messages))
			for _, m := range messages {
				out = append(out, routerMsg{Role: m.Role, Content: m.Content})
			}
			return out
		}(),
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("router: %s", msg)
	}

	var decoded routerChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("router: empty response")
	}
	return decoded.Choices[0].Message.Content, nil
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient is a thin wrapper over the Generative Language REST API.
// Callers are expected to treat every error as non-fatal and fall back to a
// canned response.
type GeminiClient struct {
	client  *http.Client
	baseURL string
	key     string
	model   string
}

func NewGeminiClient() *GeminiClient {
	return &GeminiClient{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultGeminiBaseURL,
		key:     os.Getenv("GEMINI_API_KEY"),
		model:   "gemini-2.0-flash",
	}
}

// NewGeminiClientWithBase exists for tests that point the client at a fake server.
func NewGeminiClientWithBase(baseURL, key string) *GeminiClient {
	c := NewGeminiClient()
	c.baseURL = baseURL
	c.key = key
	return c
}

func (g *GeminiClient) Available() bool { return g.key != "" }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Config   *geminiConfig   `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends a single-turn prompt and returns the model's text reply.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g.key == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if maxTokens > 0 {
		body.Config = &geminiConfig{Temperature: 0.7, MaxOutputTokens: maxTokens}
	}
	b, _ := json.Marshal(body)

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Surface the exact upstream error body; callers decide how to degrade.
		var apiErr geminiResponse
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error != nil {
			return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var out geminiResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("decode gemini response error: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty gemini response")
	}

	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("empty gemini response")
	}
	return text, nil
}

// StripCodeFences unwraps ```json ... ``` (or plain ```) blocks that the model
// tends to wrap JSON replies in.
func StripCodeFences(text string) string {
	const fence = "```"

	if idx := strings.Index(text, fence+"json"); idx >= 0 {
		rest := text[idx+len(fence)+4:]
		if end := strings.Index(rest, fence); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(text, fence); idx >= 0 {
		rest := text[idx+len(fence):]
		if end := strings.Index(rest, fence); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}

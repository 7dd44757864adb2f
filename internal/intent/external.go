package intent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/OWENLEEzy/claude-session-analyzer/internal/config"
	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

const defaultEndpoint = "https://api.anthropic.com/v1/messages"

const conceptPrompt = `You are a session-search assistant. The user wants to find a past
conversation to continue working. Extract 2-5 core search concepts from the query below.

Query: %s

Return only JSON, no markdown fences, in this shape:
{"concepts": ["concept1", "concept2"]}`

// External extracts concepts through the Anthropic Messages endpoint. Every
// transport, auth, timeout, or parse failure silently degrades to the local
// fallback; the caller never sees an error.
type External struct {
	endpoint string
	apiKey   string
	model    string
	timeout  time.Duration
	client   *http.Client
	fallback *Fallback
}

// NewExternal builds the external-backed extractor around a fallback.
func NewExternal(cfg config.Config, fallback *Fallback) *External {
	return &External{
		endpoint: defaultEndpoint,
		apiKey:   cfg.AnthropicAPIKey,
		model:    cfg.Model,
		timeout:  cfg.IntentTimeout,
		client:   &http.Client{Timeout: cfg.IntentTimeout},
		fallback: fallback,
	}
}

// Extract queries the external service under a bounded timeout. An empty
// query never goes out on the wire: it already means "no topical filter".
func (e *External) Extract(ctx context.Context, query string) models.QueryIntent {
	if strings.TrimSpace(query) == "" {
		return e.fallback.Extract(ctx, query)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	concepts, err := e.requestConcepts(ctx, query)
	if err != nil || len(concepts) == 0 {
		log.Debug().Err(err).Msg("External intent extraction unavailable, using fallback")
		return e.fallback.Extract(ctx, query)
	}

	return models.QueryIntent{
		RawQuery: query,
		Concepts: normalizeConcepts(concepts),
		Source:   models.IntentSourceExternal,
	}
}

type messageRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type conceptPayload struct {
	Concepts []string `json:"concepts"`
}

func (e *External) requestConcepts(ctx context.Context, query string) ([]string, error) {
	body, err := json.Marshal(messageRequest{
		Model:     e.model,
		MaxTokens: 256,
		Messages:  []chatMessage{{Role: "user", Content: fmt.Sprintf(conceptPrompt, query)}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp messageResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	var text strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	var payload conceptPayload
	if err := json.Unmarshal([]byte(stripFences(text.String())), &payload); err != nil {
		return nil, fmt.Errorf("parse concepts: %w", err)
	}
	return payload.Concepts, nil
}

// stripFences removes surrounding markdown code fences, which models emit
// despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

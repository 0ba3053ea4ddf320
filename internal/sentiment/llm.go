package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"tradebot/internal/api"
	"tradebot/internal/interfaces"
	"tradebot/internal/policy"
)

const (
	ProviderOpenAI = "OPENAI"
	ProviderClaude = "CLAUDE"

	OpenAIBaseURL = "https://api.openai.com"
	ClaudeBaseURL = "https://api.anthropic.com"

	defaultSystemPrompt = "You are a financial analyst who rates the market sentiment of political news. Respond ONLY with valid JSON."
)

var ErrMissingAPIKey = errors.New("llm api key not set")

// LLM asks a chat model for the polarity of a headline.
type LLM struct {
	client      *api.Client
	provider    string
	model       string
	apiKey      string
	maxTokens   int
	system      string
	temperature float32
}

var _ interfaces.Scorer = (*LLM)(nil)

type LLMOptions struct {
	Provider    string
	Model       string
	APIKey      string
	MaxTokens   int
	System      string
	Temperature float32
}

// NewLLM expects client to carry the provider base URL.
func NewLLM(client *api.Client, opts LLMOptions) (*LLM, error) {
	provider := strings.ToUpper(opts.Provider)
	if provider != ProviderOpenAI && provider != ProviderClaude {
		return nil, fmt.Errorf("unsupported LLM provider: %s", opts.Provider)
	}
	if opts.Model == "" {
		return nil, errors.New("llm model is required")
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 60
	}
	if opts.System == "" {
		opts.System = defaultSystemPrompt
	}
	return &LLM{
		client:      client,
		provider:    provider,
		model:       opts.Model,
		apiKey:      opts.APIKey,
		maxTokens:   opts.MaxTokens,
		system:      opts.System,
		temperature: opts.Temperature,
	}, nil
}

func (l *LLM) Name() string { return strings.ToLower(l.provider) }

func (l *LLM) Score(ctx context.Context, text string) (float64, error) {
	if l.apiKey == "" {
		return 0, ErrMissingAPIKey
	}

	prompt := buildPrompt(text)

	var content string
	var err error
	switch l.provider {
	case ProviderOpenAI:
		content, err = l.completeOpenAI(ctx, prompt)
	case ProviderClaude:
		content, err = l.completeClaude(ctx, prompt)
	}
	if err != nil {
		return 0, err
	}
	return parseScore(content)
}

func buildPrompt(headline string) string {
	return fmt.Sprintf(`Rate the sentiment of this political news headline for US equity markets.

Headline: %s

Use a score from -1.0 (very negative) to 1.0 (very positive); 0 is neutral.
Respond ONLY with valid JSON matching this schema:
{"score": <float>}`, headline)
}

func (l *LLM) completeOpenAI(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model": l.model,
		"messages": []map[string]string{
			{"role": "system", "content": l.system},
			{"role": "user", "content": prompt},
		},
		"temperature": l.temperature,
		"max_tokens":  l.maxTokens,
	}
	resp, err := l.client.POST(ctx, "/v1/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + l.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("openai: no choices")
	}
	return r.Choices[0].Message.Content, nil
}

func (l *LLM) completeClaude(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":       l.model,
		"max_tokens":  l.maxTokens,
		"system":      l.system,
		"temperature": l.temperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	resp, err := l.client.POST(ctx, "/v1/messages", body, map[string]string{
		"x-api-key":         l.apiKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", fmt.Errorf("claude request: %w", err)
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	for _, c := range r.Content {
		if c.Text != "" {
			return c.Text, nil
		}
	}
	return "", errors.New("claude: no content")
}

// parseScore extracts {"score": x} from model output, tolerating prose or
// code fences around the object. The score is clamped to [-1, 1].
func parseScore(content string) (float64, error) {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return 0, fmt.Errorf("invalid JSON response: %q", content)
	}

	var out struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &out); err != nil {
		return 0, fmt.Errorf("invalid JSON response: %w", err)
	}
	if out.Score == nil {
		return 0, errors.New("response has no score")
	}
	if math.IsNaN(*out.Score) {
		return 0, errors.New("score is NaN")
	}
	return policy.Clamp(*out.Score), nil
}

package sentiment

import (
	"fmt"
	"os"

	"tradebot/internal/api"
	"tradebot/internal/interfaces"
	"tradebot/internal/store"
)

// NewScorer builds the scorer selected by sentiment.provider.
func NewScorer(cfg *store.Config) (interfaces.Scorer, error) {
	s := cfg.Sentiment
	switch s.Provider {
	case "", "LEXICON":
		return NewLexicon(), nil
	case ProviderOpenAI, ProviderClaude:
		base := s.Endpoint
		if base == "" {
			base = OpenAIBaseURL
			if s.Provider == ProviderClaude {
				base = ClaudeBaseURL
			}
		}
		client := api.NewFromConfig(cfg, "llm-"+s.Provider, api.WithBaseURL(base))
		return NewLLM(client, LLMOptions{
			Provider:    s.Provider,
			Model:       s.Model,
			APIKey:      os.Getenv(s.APIKeyEnv),
			MaxTokens:   s.MaxTokens,
			System:      s.System,
			Temperature: s.Temp,
		})
	default:
		return nil, fmt.Errorf("unsupported sentiment provider: %s", s.Provider)
	}
}

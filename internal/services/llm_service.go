package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ratemygit/ratemygit/pkg/config"
	"github.com/ratemygit/ratemygit/pkg/logger"
)

// CompletionRequest is a single-turn prompt for a chat model
type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Completion is the text a provider produced and who produced it
type Completion struct {
	Text     string
	Model    string
	Provider string
}

// ChatProvider is a chat completion capability backed by one vendor
type ChatProvider interface {
	Name() string
	DefaultModel() string
	// Supports reports whether model belongs to this provider
	Supports(model string) bool
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// LLMService picks a provider for each request and falls back once on failure.
// Providers are listed in order of preference.
type LLMService struct {
	providers []ChatProvider
}

func NewLLMService(providers ...ChatProvider) *LLMService {
	return &LLMService{providers: providers}
}

// NewLLMServiceFromConfig registers Claude before OpenAI, skipping providers without a key
func NewLLMServiceFromConfig(cfg config.LLMConfig) *LLMService {
	var providers []ChatProvider
	if cfg.AnthropicAPIKey != "" {
		providers = append(providers, NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL))
	}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL))
	}
	return NewLLMService(providers...)
}

// HasProvider reports whether at least one provider is configured
func (s *LLMService) HasProvider() bool {
	return len(s.providers) > 0
}

// Generate runs req against the provider owning requestedModel, or the preferred
// provider when the model is empty or unavailable. A failed call is retried once on
// another provider with that provider's default model.
func (s *LLMService) Generate(ctx context.Context, requestedModel string, req CompletionRequest) (*Completion, error) {
	primary, model := s.selectProvider(requestedModel)
	if primary == nil {
		return nil, ErrNoProvider
	}

	completion, err := s.call(ctx, primary, model, req)
	if err == nil {
		return completion, nil
	}

	fallback := s.fallbackFor(primary)
	if fallback == nil {
		return nil, err
	}

	logger.Component("llm").WithError(err).WithField("fallback", fallback.Name()).
		Warnf("%s call failed, falling back", primary.Name())

	return s.call(ctx, fallback, fallback.DefaultModel(), req)
}

func (s *LLMService) selectProvider(requestedModel string) (ChatProvider, string) {
	if requestedModel != "" {
		for _, provider := range s.providers {
			if provider.Supports(requestedModel) {
				return provider, requestedModel
			}
		}
	}
	if len(s.providers) == 0 {
		return nil, ""
	}
	return s.providers[0], s.providers[0].DefaultModel()
}

func (s *LLMService) fallbackFor(primary ChatProvider) ChatProvider {
	for _, provider := range s.providers {
		if provider.Name() != primary.Name() {
			return provider
		}
	}
	return nil
}

func (s *LLMService) call(ctx context.Context, provider ChatProvider, model string, req CompletionRequest) (*Completion, error) {
	req.Model = model

	text, err := provider.Complete(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			return nil, err
		}
		return nil, &UpstreamError{Service: provider.Name(), Message: err.Error(), Err: err}
	}

	return &Completion{Text: text, Model: model, Provider: provider.Name()}, nil
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	s = strings.ToLower(s)
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

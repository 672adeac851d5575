package services

import (
	"context"
	"strings"
)

type SummaryService struct {
	llm  *LLMService
	pick func(n int) int
}

func NewSummaryService(llm *LLMService) *SummaryService {
	return &SummaryService{
		llm:  llm,
		pick: randomPick,
	}
}

// Summarize turns commit messages into a short bullet-point changelog
func (s *SummaryService) Summarize(ctx context.Context, commitHistory string) (string, error) {
	completion, err := s.llm.Generate(ctx, "", CompletionRequest{
		Prompt:      renderSummaryPrompt(commitHistory, s.pick),
		MaxTokens:   500,
		Temperature: 0.8,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion.Text), nil
}

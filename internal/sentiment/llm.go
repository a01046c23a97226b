package sentiment

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// LLMScorer asks an ADK model for a polarity score.
type LLMScorer struct {
	model model.LLM
}

// NewLLMScorer returns an LLMScorer.
func NewLLMScorer(m model.LLM) *LLMScorer {
	return &LLMScorer{model: m}
}

// Polarity implements Scorer.
func (s *LLMScorer) Polarity(ctx context.Context, text string) (float64, error) {
	if s == nil || s.model == nil {
		return 0, fmt.Errorf("sentiment model not configured")
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	var temperature float32
	req := &model.LLMRequest{
		Contents: []*genai.Content{
			genai.NewContentFromText(text, genai.RoleUser),
		},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(polarityInstruction, genai.RoleUser),
			Temperature:       &temperature,
			MaxOutputTokens:   16,
		},
	}

	var resp *model.LLMResponse
	var err error
	s.model.GenerateContent(ctx, req, false)(func(r *model.LLMResponse, e error) bool {
		resp = r
		err = e
		return false
	})
	if err != nil {
		return 0, fmt.Errorf("failed to score sentiment: %w", err)
	}

	reply := contentText(resp)
	if reply == "" {
		return 0, fmt.Errorf("empty sentiment reply")
	}
	return parsePolarity(reply)
}

func contentText(resp *model.LLMResponse) string {
	if resp == nil || resp.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

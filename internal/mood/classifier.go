package mood

import (
	"context"
	"log/slog"
	"math"
	"strings"
)

const (
	keywordWeight     = 0.3
	polarityThreshold = 0.3
	neutralConfidence = 0.5
)

// PolarityScorer scores text sentiment in [-1, 1].
type PolarityScorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// IsCrisis reports whether text contains any crisis phrase, ignoring case.
func IsCrisis(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range crisisPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Classifier maps text to a mood label and confidence.
type Classifier struct {
	scorer PolarityScorer
	logger *slog.Logger
}

// NewClassifier returns a Classifier. A nil scorer treats every polarity as 0.
func NewClassifier(scorer PolarityScorer, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{scorer: scorer, logger: logger}
}

// DetectMood returns the mood for text. Crisis phrases win over everything,
// then lexicon keywords, then the polarity fallback.
func (c *Classifier) DetectMood(ctx context.Context, text string) (Label, float64) {
	if IsCrisis(text) {
		return Crisis, 1.0
	}

	if label, score := keywordMood(strings.ToLower(text)); score > 0 {
		return label, math.Min(float64(score)*keywordWeight, 1.0)
	}

	polarity := c.polarity(ctx, text)
	switch {
	case polarity > polarityThreshold:
		return Happy, math.Abs(polarity)
	case polarity < -polarityThreshold:
		return Sad, math.Abs(polarity)
	default:
		return Neutral, neutralConfidence
	}
}

// keywordMood returns the best lexicon match; first declared wins on ties.
func keywordMood(lower string) (Label, int) {
	best, bestScore := Neutral, 0
	for _, entry := range lexicon {
		score := 0
		for _, phrase := range entry.phrases {
			if strings.Contains(lower, phrase) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = entry.label, score
		}
	}
	return best, bestScore
}

func (c *Classifier) polarity(ctx context.Context, text string) float64 {
	if c == nil || c.scorer == nil || strings.TrimSpace(text) == "" {
		return 0
	}

	value, err := c.scorer.Polarity(ctx, text)
	if err != nil {
		c.logger.Warn("polarity scorer failed, using neutral polarity", "error", err.Error())
		return 0
	}
	if math.IsNaN(value) {
		return 0
	}
	return math.Max(-1, math.Min(1, value))
}

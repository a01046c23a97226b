// Package sentiment provides polarity scorers used when no mood keyword matches.
package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Scorer returns a polarity in [-1, 1]; positive means a favorable tone.
type Scorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// Fallback tries primary first and uses secondary when primary fails.
type Fallback struct {
	primary   Scorer
	secondary Scorer
}

// NewFallback returns a Fallback scorer.
func NewFallback(primary, secondary Scorer) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

// Polarity implements Scorer.
func (f *Fallback) Polarity(ctx context.Context, text string) (float64, error) {
	if f.primary != nil {
		value, err := f.primary.Polarity(ctx, text)
		if err == nil {
			return value, nil
		}
		slog.Warn("primary sentiment scorer failed, falling back", "error", err.Error())
	}
	if f.secondary == nil {
		return 0, fmt.Errorf("no sentiment scorer available")
	}
	return f.secondary.Polarity(ctx, text)
}

// Clamp bounds a polarity to -1..1 and maps NaN to 0.
func Clamp(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return math.Max(-1, math.Min(1, value))
}

var numberPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// parsePolarity extracts the first number from a model reply.
func parsePolarity(raw string) (float64, error) {
	match := numberPattern.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, fmt.Errorf("no polarity in reply: %q", raw)
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse polarity: %w", err)
	}
	return Clamp(value), nil
}

const polarityInstruction = `You are a sentiment scorer. Rate the overall emotional tone of the user's message ` +
	`as a single number between -1 (very negative) and 1 (very positive), where 0 is neutral. ` +
	`Reply with the number only.`

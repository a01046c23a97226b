// Package mood classifies the mood of a chat message and builds an empathetic reply.
package mood

import (
	"context"
	"log/slog"
)

// Engine is the analysis entry point used by the chat service.
type Engine struct {
	classifier *Classifier
	responder  *Responder
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	scorer PolarityScorer
	rand   RandomSource
	logger *slog.Logger
}

// WithScorer sets the polarity fallback used when no keyword matches.
func WithScorer(scorer PolarityScorer) Option {
	return func(o *engineOptions) { o.scorer = scorer }
}

// WithRandomSource sets the source used to pick responses.
func WithRandomSource(src RandomSource) Option {
	return func(o *engineOptions) { o.rand = src }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = logger }
}

// NewEngine returns an Engine.
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Engine{
		classifier: NewClassifier(o.scorer, o.logger),
		responder:  NewResponder(o.rand),
		logger:     o.logger,
	}
}

// DetectMood classifies text without generating a response.
func (e *Engine) DetectMood(ctx context.Context, text string) (Label, float64) {
	return e.classifier.DetectMood(ctx, text)
}

// GenerateResponse returns a reply for label.
func (e *Engine) GenerateResponse(label Label, includeCoping bool) string {
	return e.responder.Generate(label, includeCoping)
}

// Analyze classifies text and builds the reply.
func (e *Engine) Analyze(ctx context.Context, text string) Result {
	label, confidence := e.classifier.DetectMood(ctx, text)
	result := Result{
		Mood:       label,
		Confidence: ClampConfidence(confidence),
		Response:   e.responder.Generate(label, true),
		IsCrisis:   label == Crisis,
	}
	e.logger.Debug("message analyzed", "mood", string(result.Mood), "confidence", result.Confidence, "crisis", result.IsCrisis)
	return result
}

package sentiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

const (
	ProviderLexicon = "lexicon"
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
)

// Options selects and configures a scorer.
type Options struct {
	Provider      string
	Model         string
	GoogleAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Timeout       time.Duration
}

// New builds the configured scorer. Remote providers are wrapped so that a
// failed call falls back to the lexicon scorer.
func New(ctx context.Context, opts Options) (Scorer, error) {
	lexicon := NewLexiconScorer()

	var remote Scorer
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderLexicon:
		return lexicon, nil
	case ProviderGemini:
		m, err := gemini.NewModel(ctx, opts.Model, &genai.ClientConfig{
			APIKey:  opts.GoogleAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini model: %w", err)
		}
		remote = NewLLMScorer(m)
	case ProviderOpenAI:
		s, err := NewOpenAIScorer(opts.OpenAIAPIKey, opts.OpenAIBaseURL, opts.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai scorer: %w", err)
		}
		remote = s
	default:
		return nil, fmt.Errorf("unknown sentiment provider: %s", opts.Provider)
	}

	if opts.Timeout > 0 {
		remote = WithTimeout(remote, opts.Timeout)
	}
	return NewFallback(remote, lexicon), nil
}

type timeoutScorer struct {
	next    Scorer
	timeout time.Duration
}

// WithTimeout bounds each call to next by timeout.
func WithTimeout(next Scorer, timeout time.Duration) Scorer {
	return &timeoutScorer{next: next, timeout: timeout}
}

func (s *timeoutScorer) Polarity(ctx context.Context, text string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Polarity(ctx, text)
}

package mood

import "math/rand/v2"

// RandomSource picks an index in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type defaultSource struct{}

func (defaultSource) IntN(n int) int {
	return rand.IntN(n)
}

// Responder builds reply text for a mood.
type Responder struct {
	rand RandomSource
}

// NewResponder returns a Responder. A nil source uses math/rand/v2.
func NewResponder(src RandomSource) *Responder {
	if src == nil {
		src = defaultSource{}
	}
	return &Responder{rand: src}
}

// Generate picks a response for label and, when includeCoping is set and the
// label has strategies, appends one coping snippet. Unknown labels use the
// neutral bank.
func (r *Responder) Generate(label Label, includeCoping bool) string {
	candidates, ok := responses[label]
	if !ok || len(candidates) == 0 {
		candidates = responses[Neutral]
	}
	reply := r.pick(candidates)

	if includeCoping {
		if strategies := copingStrategies[label]; len(strategies) > 0 {
			reply += r.pick(strategies)
		}
	}
	return reply
}

func (r *Responder) pick(options []string) string {
	src := RandomSource(defaultSource{})
	if r != nil && r.rand != nil {
		src = r.rand
	}
	i := src.IntN(len(options)) % len(options)
	if i < 0 {
		i += len(options)
	}
	return options[i]
}

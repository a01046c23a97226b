package sentiment

import (
	"context"
	"math"
	"strings"
)

// LexiconScorer is an offline word-list polarity scorer.
type LexiconScorer struct {
	positive     map[string]float64
	negative     map[string]float64
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// NewLexiconScorer returns a LexiconScorer with the built-in English word lists.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{
		positive:     defaultPositiveWords(),
		negative:     defaultNegativeWords(),
		intensifiers: defaultIntensifiers(),
		negations:    defaultNegations(),
	}
}

// Polarity returns the mean weight of sentiment words in text, in [-1, 1].
// It never fails.
func (s *LexiconScorer) Polarity(ctx context.Context, text string) (float64, error) {
	return s.score(text), nil
}

func (s *LexiconScorer) score(text string) float64 {
	words := strings.Fields(strings.ToLower(text))

	var total float64
	var matches int
	for i, word := range words {
		cleaned := trimWord(word)
		if cleaned == "" {
			continue
		}

		weight, positive := s.positive[cleaned]
		if !positive {
			w, negative := s.negative[cleaned]
			if !negative {
				continue
			}
			weight = -w
		}

		if i > 0 {
			prev := trimWord(words[i-1])
			if mult, ok := s.intensifiers[prev]; ok {
				weight *= mult
			}
			if s.negated(words, i) {
				weight = -weight * 0.5
			}
		}

		total += weight
		matches++
	}

	if matches == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, total/float64(matches)))
}

// negated reports whether one of the two words before i is a negation.
func (s *LexiconScorer) negated(words []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if _, ok := s.negations[trimWord(words[j])]; ok {
			return true
		}
	}
	return false
}

func trimWord(word string) string {
	return strings.Trim(word, ".,!?;:'\"()[]{}*-…")
}

func defaultPositiveWords() map[string]float64 {
	return map[string]float64{
		"love": 0.6, "loved": 0.6, "lovely": 0.6, "nice": 0.5, "fine": 0.3,
		"calm": 0.4, "peaceful": 0.5, "relaxed": 0.5, "hopeful": 0.5, "grateful": 0.6,
		"thankful": 0.6, "thanks": 0.4, "proud": 0.5, "beautiful": 0.6, "fun": 0.4,
		"enjoy": 0.5, "enjoyed": 0.5, "awesome": 0.7, "perfect": 0.7, "best": 0.6,
		"pleased": 0.5, "content": 0.4, "positive": 0.5, "safe": 0.4, "smile": 0.5,
		"laugh": 0.5, "brilliant": 0.7, "fortunate": 0.5, "lucky": 0.5, "optimistic": 0.5,
		"confident": 0.5, "kind": 0.4, "win": 0.5, "won": 0.5, "success": 0.6,
	}
}

func defaultNegativeWords() map[string]float64 {
	return map[string]float64{
		"bad": 0.6, "terrible": 0.8, "awful": 0.8, "horrible": 0.8, "hate": 0.8,
		"hated": 0.8, "worse": 0.6, "worst": 0.8, "pain": 0.6, "painful": 0.6,
		"hurt": 0.6, "hurts": 0.6, "lost": 0.4, "lose": 0.4, "alone": 0.5,
		"failed": 0.6, "failure": 0.7, "fail": 0.6, "sick": 0.5, "ill": 0.4,
		"ugly": 0.6, "stupid": 0.6, "useless": 0.7, "disappointed": 0.6, "sorry": 0.3,
		"upset": 0.6, "grief": 0.7, "cry": 0.5, "regret": 0.5, "wrong": 0.4,
		"poor": 0.4, "problem": 0.3, "problems": 0.3, "difficult": 0.4, "hard": 0.3,
		"dreadful": 0.8, "gloomy": 0.6, "heartbroken": 0.8, "sucks": 0.6, "nightmare": 0.7,
	}
}

func defaultIntensifiers() map[string]float64 {
	return map[string]float64{
		"very": 1.5, "really": 1.4, "so": 1.3, "extremely": 1.8, "incredibly": 1.7,
		"super": 1.4, "totally": 1.3, "quite": 1.2, "slightly": 0.6, "somewhat": 0.7,
	}
}

func defaultNegations() map[string]struct{} {
	words := []string{"not", "no", "never", "dont", "don't", "isnt", "isn't", "wasnt", "wasn't",
		"cant", "can't", "cannot", "wont", "won't", "hardly", "nothing", "neither", "nor"}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

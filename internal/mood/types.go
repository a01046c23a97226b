package mood

import "math"

// Label is a detected mood.
type Label string

const (
	Happy    Label = "happy"
	Sad      Label = "sad"
	Anxious  Label = "anxious"
	Stressed Label = "stressed"
	Angry    Label = "angry"
	Neutral  Label = "neutral"
	Crisis   Label = "crisis"
)

// Labels lists every label the classifier can emit.
var Labels = []Label{Happy, Sad, Anxious, Stressed, Angry, Neutral, Crisis}

// Valid reports whether l is a known label.
func (l Label) Valid() bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

// Result is the outcome of analyzing one message.
type Result struct {
	Mood       Label   `json:"mood"`
	Confidence float64 `json:"confidence"`
	Response   string  `json:"response"`
	IsCrisis   bool    `json:"is_crisis"`
}

// ClampConfidence bounds a confidence to 0-1.
func ClampConfidence(score float64) float64 {
	switch {
	case math.IsNaN(score):
		return 0
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

package tools

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"strings"
)

// Emotion is the dominant mood read from a block of text.
type Emotion string

const (
	StrongExcitement Emotion = "Strong Excitement"
	DeepAnxiety      Emotion = "Deep Anxiety"
	MixedFeelings    Emotion = "Mixed Feelings"
)

// Intensity is how strongly the reaction is felt. It is not derived from
// the text.
type Intensity string

const (
	IntensityHigh   Intensity = "High"
	IntensityMedium Intensity = "Medium"
	IntensityLow    Intensity = "Low"
)

// Intensities lists every intensity the classifier can report.
var Intensities = []Intensity{IntensityHigh, IntensityMedium, IntensityLow}

// ToneSourceLabel is attached to every verdict.
const ToneSourceLabel = "Derived from collective online sentiment, not fact-based."

var reactions = map[Emotion]string{
	StrongExcitement: "The collective mood is highly positive; my intuition is to proceed with great confidence.",
	DeepAnxiety:      "A major undercurrent of worry is present; my gut is signaling significant hidden risk.",
	MixedFeelings:    "The conflicting information creates a sense of hesitation and lack of clear direction.",
}

var (
	positiveKeywords = []string{"excitement", "enthusiasm", "optimism", "success", "breakthrough", "promising", "growth"}
	negativeKeywords = []string{"concern", "anxiety", "worries", "struggle", "controversy", "risky", "fear", "downside"}
)

// toneDominance is how far one side must outscore the other to win.
const toneDominance = 1.5

// ToneVerdict is the Red Hat's reading of the collective mood.
type ToneVerdict struct {
	DominantEmotion      Emotion   `json:"dominant_emotion"`
	ReactionStatement    string    `json:"reaction_statement"`
	Intensity            Intensity `json:"intensity"`
	SourceLabel          string    `json:"source_label"`
	IsLogicallyJustified bool      `json:"is_logically_justified"`
}

// ToneClassifier scores text against fixed positive and negative keyword
// sets. The zero value is ready to use and safe for concurrent callers.
type ToneClassifier struct {
	// Intn returns a uniform int in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
}

var defaultClassifier = &ToneClassifier{}

// ClassifyTone classifies text with the default classifier.
func ClassifyTone(text string) ToneVerdict {
	return defaultClassifier.Classify(text)
}

// ToneScores counts keyword hits. Matching is by substring, so "concern"
// also counts inside "concerns".
func ToneScores(text string) (pos, neg int) {
	lower := strings.ToLower(text)
	for _, kw := range positiveKeywords {
		pos += strings.Count(lower, kw)
	}
	for _, kw := range negativeKeywords {
		neg += strings.Count(lower, kw)
	}
	return pos, neg
}

// DominantEmotion applies the asymmetric threshold to a pair of scores.
// Ties, including 0/0, are MixedFeelings.
func DominantEmotion(pos, neg int) Emotion {
	switch {
	case float64(pos) > float64(neg)*toneDominance:
		return StrongExcitement
	case float64(neg) > float64(pos)*toneDominance:
		return DeepAnxiety
	default:
		return MixedFeelings
	}
}

// Classify returns a fresh verdict for text. It never fails.
func (c *ToneClassifier) Classify(text string) ToneVerdict {
	emotion := DominantEmotion(ToneScores(text))
	return ToneVerdict{
		DominantEmotion:      emotion,
		ReactionStatement:    reactions[emotion],
		Intensity:            Intensities[c.intn(len(Intensities))],
		SourceLabel:          ToneSourceLabel,
		IsLogicallyJustified: false,
	}
}

func (c *ToneClassifier) intn(n int) int {
	if c.Intn != nil {
		return c.Intn(n)
	}
	return rand.IntN(n)
}

// ToneTool exposes the classifier to agents.
type ToneTool struct {
	Classifier *ToneClassifier
}

func init() {
	Register(&ToneTool{})
}

func (t *ToneTool) Name() string {
	return "interpret_emotional_tone"
}

func (t *ToneTool) Description() string {
	return "Read the collective emotional tone of search results or other text. Input is the raw text. Returns JSON with dominant_emotion, reaction_statement, intensity, source_label and is_logically_justified."
}

func (t *ToneTool) Execute(ctx context.Context, input string) (string, error) {
	c := t.Classifier
	if c == nil {
		c = defaultClassifier
	}
	out, err := json.MarshalIndent(c.Classify(input), "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

package tools

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

func TestClassifyTone(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		emotion Emotion
	}{
		{"empty", "", MixedFeelings},
		{"excited", "This is pure excitement and promising success, no concerns at all", StrongExcitement},
		{"anxious", "anxiety and fear dominate, with risky downside", DeepAnxiety},
		{"tie", "growth and concern", MixedFeelings},
		{"uppercase", "OPTIMISM! BREAKTHROUGH!", StrongExcitement},
		{"no keywords", "the meeting is on tuesday", MixedFeelings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ClassifyTone(tt.text)
			if v.DominantEmotion != tt.emotion {
				t.Errorf("ClassifyTone(%q).DominantEmotion = %q, want %q", tt.text, v.DominantEmotion, tt.emotion)
			}
			if v.ReactionStatement != reactions[tt.emotion] {
				t.Errorf("reaction = %q, want %q", v.ReactionStatement, reactions[tt.emotion])
			}
			if v.SourceLabel != ToneSourceLabel {
				t.Errorf("source label = %q", v.SourceLabel)
			}
			if v.IsLogicallyJustified {
				t.Error("verdict should never be logically justified")
			}
		})
	}
}

func TestToneScores(t *testing.T) {
	tests := []struct {
		text     string
		pos, neg int
	}{
		{"", 0, 0},
		{"This is pure excitement and promising success, no concerns at all", 3, 1},
		{"anxiety and fear dominate, with risky downside", 0, 4},
		{"growth growth growth", 3, 0},
		{"Worries, WORRIES", 0, 2},
	}

	for _, tt := range tests {
		pos, neg := ToneScores(tt.text)
		if pos != tt.pos || neg != tt.neg {
			t.Errorf("ToneScores(%q) = (%d, %d), want (%d, %d)", tt.text, pos, neg, tt.pos, tt.neg)
		}
	}
}

func TestDominantEmotionThreshold(t *testing.T) {
	tests := []struct {
		pos, neg int
		want     Emotion
	}{
		{0, 0, MixedFeelings},
		{1, 0, StrongExcitement},
		{0, 1, DeepAnxiety},
		{3, 2, MixedFeelings}, // 3 > 3.0 is false
		{4, 2, StrongExcitement},
		{2, 3, MixedFeelings},
		{2, 4, DeepAnxiety},
		{5, 5, MixedFeelings},
	}

	for _, tt := range tests {
		if got := DominantEmotion(tt.pos, tt.neg); got != tt.want {
			t.Errorf("DominantEmotion(%d, %d) = %q, want %q", tt.pos, tt.neg, got, tt.want)
		}
	}
}

func TestIntensityIsUniform(t *testing.T) {
	const draws = 3000
	counts := make(map[Intensity]int)
	for i := 0; i < draws; i++ {
		counts[ClassifyTone("same input every time").Intensity]++
	}

	if len(counts) != len(Intensities) {
		t.Fatalf("saw intensities %v, want exactly %v", counts, Intensities)
	}
	for _, in := range Intensities {
		// expected 1000 each; allow +/-150
		if c := counts[in]; c < 850 || c > 1150 {
			t.Errorf("intensity %q drawn %d times out of %d", in, c, draws)
		}
	}
}

func TestClassifierInjectedSource(t *testing.T) {
	for i, want := range Intensities {
		c := &ToneClassifier{Intn: func(n int) int { return i }}
		if got := c.Classify("x").Intensity; got != want {
			t.Errorf("Intn=%d: intensity = %q, want %q", i, got, want)
		}
	}
}

func TestClassifyConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v := ClassifyTone("fear and anxiety"); v.DominantEmotion != DeepAnxiety {
				t.Errorf("got %q", v.DominantEmotion)
			}
		}()
	}
	wg.Wait()
}

func TestToneToolJSON(t *testing.T) {
	tool := &ToneTool{Classifier: &ToneClassifier{Intn: func(int) int { return 0 }}}

	out, err := tool.Execute(context.Background(), "breakthrough")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(out), &fields); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	for _, key := range []string{"dominant_emotion", "reaction_statement", "intensity", "source_label", "is_logically_justified"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field %q in %s", key, out)
		}
	}
	if fields["dominant_emotion"] != string(StrongExcitement) {
		t.Errorf("dominant_emotion = %v", fields["dominant_emotion"])
	}
	if fields["intensity"] != string(IntensityHigh) {
		t.Errorf("intensity = %v", fields["intensity"])
	}
	if fields["is_logically_justified"] != false {
		t.Errorf("is_logically_justified = %v", fields["is_logically_justified"])
	}
}

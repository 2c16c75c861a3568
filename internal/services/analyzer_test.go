package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/moodcare-backend/internal/repos/testutil"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type stubAI struct {
	response map[string]any
	err      error
}

func (s *stubAI) ChatJSON(ctx context.Context, system, user string) (map[string]any, error) {
	return s.response, s.err
}

func (s *stubAI) ChatText(ctx context.Context, system, user string) (string, error) {
	return "", s.err
}

func TestAnalyzeParsesModelResponse(t *testing.T) {
	ai := &stubAI{response: map[string]any{
		"emotion_type":    "sadness",
		"intensity":       float64(7),
		"sentiment_score": float64(0.9), // ignored, sign comes from the emotion
		"keywords":        []any{"rain", "alone", ""},
	}}
	analyzer := NewEmotionAnalyzer(testutil.Logger(t), ai)

	got := analyzer.Analyze(context.Background(), "it rained all day")
	if got.Fallback {
		t.Fatalf("Analyze: unexpected fallback: %+v", got)
	}
	if got.EmotionType != types.EmotionSadness || got.Intensity != 7 {
		t.Fatalf("Analyze: unexpected result: %+v", got)
	}
	if got.SentimentScore != -0.7 {
		t.Fatalf("Analyze: sentiment should follow emotion polarity, got %v", got.SentimentScore)
	}
	if len(got.Keywords) != 2 {
		t.Fatalf("Analyze: expected 2 keywords, got %v", got.Keywords)
	}
}

func TestAnalyzeClampsIntensity(t *testing.T) {
	ai := &stubAI{response: map[string]any{
		"emotion_type": "joy",
		"intensity":    float64(42),
	}}
	analyzer := NewEmotionAnalyzer(testutil.Logger(t), ai)

	got := analyzer.Analyze(context.Background(), "best day ever")
	if got.Intensity != 10 {
		t.Fatalf("Analyze: expected clamped intensity 10, got %d", got.Intensity)
	}
	if got.SentimentScore != 1.0 {
		t.Fatalf("Analyze: expected sentiment 1.0, got %v", got.SentimentScore)
	}
}

func TestAnalyzeFallsBack(t *testing.T) {
	log := testutil.Logger(t)
	cases := map[string]struct {
		ai   *stubAI
		text string
	}{
		"nil client":      {ai: nil, text: "hello"},
		"empty text":      {ai: &stubAI{}, text: "   "},
		"client error":    {ai: &stubAI{err: errors.New("boom")}, text: "hello"},
		"unknown emotion": {ai: &stubAI{response: map[string]any{"emotion_type": "melancholy", "intensity": float64(5)}}, text: "hello"},
		"neutral emotion": {ai: &stubAI{response: map[string]any{"emotion_type": "neutral", "intensity": float64(5)}}, text: "hello"},
		"missing fields":  {ai: &stubAI{response: map[string]any{"emotion_type": "joy"}}, text: "hello"},
	}
	for name, tc := range cases {
		var analyzer EmotionAnalyzer
		if tc.ai == nil {
			analyzer = NewEmotionAnalyzer(log, nil)
		} else {
			analyzer = NewEmotionAnalyzer(log, tc.ai)
		}
		got := analyzer.Analyze(context.Background(), tc.text)
		if !got.Fallback {
			t.Fatalf("%s: expected fallback, got %+v", name, got)
		}
		if got.EmotionType != types.EmotionNeutral || got.Intensity != 5 || got.SentimentScore != 0 {
			t.Fatalf("%s: unexpected fallback values: %+v", name, got)
		}
	}
}

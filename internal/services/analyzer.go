package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/platform/openai"
	"github.com/yungbote/moodcare-backend/internal/types"
)

// Analysis is the normalized output of emotion analysis. Fields always
// satisfy: intensity in 1..10, sentiment = polarity * intensity / 10.
type Analysis struct {
	EmotionType    types.EmotionType `json:"emotion_type"`
	Intensity      int               `json:"intensity"`
	SentimentScore float64           `json:"sentiment_score"`
	Keywords       []string          `json:"keywords,omitempty"`
	Fallback       bool              `json:"fallback,omitempty"`
}

func (a Analysis) JSON() []byte {
	raw, err := json.Marshal(a)
	if err != nil {
		return []byte("{}")
	}
	return raw
}

// FallbackAnalysis is what every failure path produces: neutral, middle
// intensity, zero sentiment.
func FallbackAnalysis() Analysis {
	return Analysis{
		EmotionType:    types.EmotionNeutral,
		Intensity:      5,
		SentimentScore: 0,
		Fallback:       true,
	}
}

type EmotionAnalyzer interface {
	Analyze(ctx context.Context, text string) Analysis
}

type emotionAnalyzer struct {
	log *logger.Logger
	ai  openai.Client
}

func NewEmotionAnalyzer(log *logger.Logger, ai openai.Client) EmotionAnalyzer {
	serviceLog := log.With("service", "EmotionAnalyzer")
	return &emotionAnalyzer{log: serviceLog, ai: ai}
}

const analyzerSystemPrompt = `You are an emotion analysis engine for a mood journal.
Given a journal entry, respond with strict JSON:
{"emotion_type": one of [joy, sadness, anger, fear, surprise, disgust, trust, anticipation],
 "intensity": integer 1-10,
 "sentiment_score": number between -1 and 1,
 "keywords": up to 5 short strings}`

// Analyze never returns an error: any failure, malformed response, or
// out-of-range value collapses to the fallback or is corrected locally.
func (a *emotionAnalyzer) Analyze(ctx context.Context, text string) Analysis {
	text = strings.TrimSpace(text)
	if text == "" || a.ai == nil {
		return FallbackAnalysis()
	}

	raw, err := a.ai.ChatJSON(ctx, analyzerSystemPrompt, text)
	if err != nil {
		a.log.Warn("emotion analysis failed, using fallback", "error", err)
		return FallbackAnalysis()
	}

	parsed, err := parseAnalysis(raw)
	if err != nil {
		a.log.Warn("emotion analysis response rejected, using fallback", "error", err)
		return FallbackAnalysis()
	}
	return parsed
}

func parseAnalysis(raw map[string]any) (Analysis, error) {
	emotionStr, _ := raw["emotion_type"].(string)
	emotion := types.EmotionType(strings.ToLower(strings.TrimSpace(emotionStr)))
	if !types.ValidEmotionType(emotion) || emotion == types.EmotionNeutral {
		return Analysis{}, fmt.Errorf("unknown emotion type %q", emotionStr)
	}

	intensity, err := numberField(raw, "intensity")
	if err != nil {
		return Analysis{}, err
	}
	out := Analysis{
		EmotionType: emotion,
		Intensity:   ClampIntensity(int(math.Round(intensity))),
	}

	out.SentimentScore = SentimentFor(out.EmotionType, out.Intensity)

	if kws, ok := raw["keywords"].([]any); ok {
		for _, kw := range kws {
			if s, ok := kw.(string); ok && strings.TrimSpace(s) != "" {
				out.Keywords = append(out.Keywords, strings.TrimSpace(s))
			}
		}
	}
	return out, nil
}

func numberField(raw map[string]any, key string) (float64, error) {
	v, ok := raw[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("non-numeric %s: %w", key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("non-numeric %s", key)
	}
}

// ClampIntensity forces a value into the 1..10 journal scale.
func ClampIntensity(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// SentimentFor derives the sentiment score from the emotion polarity and
// intensity. The model's own sentiment_score is ignored when it
// disagrees with the sign of the emotion.
func SentimentFor(emotion types.EmotionType, intensity int) float64 {
	return emotion.Polarity() * float64(ClampIntensity(intensity)) / 10.0
}

package services

import (
	"testing"
	"time"

	"github.com/yungbote/moodcare-backend/internal/types"
)

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil)
	if stats.Count != 0 || stats.MeanIntensity != 0 || stats.DominantEmotion != "" {
		t.Fatalf("ComputeStatistics(nil): unexpected result: %+v", stats)
	}
	if stats.Distribution == nil || stats.DailyTrend == nil {
		t.Fatalf("ComputeStatistics(nil): maps and slices must be non-nil")
	}
}

func TestComputeStatistics(t *testing.T) {
	day1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 21, 30, 0, 0, time.UTC)
	recs := []*types.EmotionRecord{
		{EmotionType: types.EmotionJoy, Intensity: 8, CreatedAt: day1},
		{EmotionType: types.EmotionJoy, Intensity: 6, CreatedAt: day1},
		{EmotionType: types.EmotionSadness, Intensity: 3, CreatedAt: day2},
	}

	stats := ComputeStatistics(recs)
	if stats.Count != 3 {
		t.Fatalf("Count: expected 3, got %d", stats.Count)
	}
	if stats.MeanIntensity != 5.67 {
		t.Fatalf("MeanIntensity: expected 5.67, got %v", stats.MeanIntensity)
	}
	if stats.Distribution["joy"] != 2 || stats.Distribution["sadness"] != 1 {
		t.Fatalf("Distribution: unexpected: %v", stats.Distribution)
	}
	if stats.DominantEmotion != "joy" {
		t.Fatalf("DominantEmotion: expected joy, got %q", stats.DominantEmotion)
	}
	if len(stats.DailyTrend) != 2 {
		t.Fatalf("DailyTrend: expected 2 days, got %+v", stats.DailyTrend)
	}
	if stats.DailyTrend[0].Date != "2026-08-01" || stats.DailyTrend[0].MeanIntensity != 7 {
		t.Fatalf("DailyTrend[0]: unexpected: %+v", stats.DailyTrend[0])
	}
	if stats.DailyTrend[1].Date != "2026-08-02" || stats.DailyTrend[1].MeanIntensity != 3 {
		t.Fatalf("DailyTrend[1]: unexpected: %+v", stats.DailyTrend[1])
	}
}

func TestComputeStatisticsDominantTieBreak(t *testing.T) {
	now := time.Now()
	recs := []*types.EmotionRecord{
		{EmotionType: types.EmotionJoy, Intensity: 5, CreatedAt: now},
		{EmotionType: types.EmotionAnger, Intensity: 5, CreatedAt: now},
	}
	stats := ComputeStatistics(recs)
	// Ties resolve alphabetically so the answer is stable.
	if stats.DominantEmotion != "anger" {
		t.Fatalf("DominantEmotion: expected anger on tie, got %q", stats.DominantEmotion)
	}
}

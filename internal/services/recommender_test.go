package services

import (
	"math"
	"testing"

	"github.com/yungbote/moodcare-backend/internal/types"
)

func TestScoreTrackPerfectMatch(t *testing.T) {
	target := AudioTarget{Valence: 0.8, Energy: 0.6, Tempo: 120, Genres: []string{"pop"}}
	track := types.Track{Title: "Match", Valence: 0.8, Energy: 0.6, Tempo: 120, Genre: "pop"}

	score := ScoreTrack(track, target)
	if math.Abs(score-1.0) > 1e-9 {
		t.Fatalf("ScoreTrack: expected 1.0 for perfect match, got %v", score)
	}

	track.Genre = "metal"
	score = ScoreTrack(track, target)
	if math.Abs(score-0.9) > 1e-9 {
		t.Fatalf("ScoreTrack: expected 0.9 without genre bonus, got %v", score)
	}
}

func TestScoreTrackTempoClamped(t *testing.T) {
	target := AudioTarget{Valence: 0.5, Energy: 0.5, Tempo: 60}
	slow := types.Track{Valence: 0.5, Energy: 0.5, Tempo: 40}
	slower := types.Track{Valence: 0.5, Energy: 0.5, Tempo: 10}

	// Everything at or below 60 BPM normalizes to the same value.
	if ScoreTrack(slow, target) != ScoreTrack(slower, target) {
		t.Fatalf("ScoreTrack: tempo below range should clamp")
	}
}

func TestRankTracksOrdersAndTruncates(t *testing.T) {
	target := TargetFor(types.RecCalmDown)
	candidates := []types.Track{
		{Title: "Far", Valence: 0.95, Energy: 0.95, Tempo: 170},
		{Title: "Close", Valence: target.Valence, Energy: target.Energy, Tempo: target.Tempo, Genre: target.Genres[0]},
		{Title: "Middle", Valence: 0.5, Energy: 0.4, Tempo: 90},
	}

	ranked := RankTracks(candidates, target, 2)
	if len(ranked) != 2 {
		t.Fatalf("RankTracks: expected 2 tracks, got %d", len(ranked))
	}
	if ranked[0].Title != "Close" {
		t.Fatalf("RankTracks: expected Close first, got %q", ranked[0].Title)
	}
	if ranked[0].Score < ranked[1].Score {
		t.Fatalf("RankTracks: scores out of order: %v", ranked)
	}
	for _, tr := range ranked {
		if tr.Score == 0 {
			t.Fatalf("RankTracks: score not set on %q", tr.Title)
		}
	}

	// Input must not be mutated.
	if candidates[0].Score != 0 {
		t.Fatalf("RankTracks: candidates mutated: %+v", candidates[0])
	}
}

func TestRecTypeForEmotion(t *testing.T) {
	cases := []struct {
		emotion   types.EmotionType
		intensity int
		want      types.RecommendationType
	}{
		{types.EmotionSadness, 8, types.RecCathartic},
		{types.EmotionSadness, 4, types.RecHealing},
		{types.EmotionAnger, 5, types.RecCalmDown},
		{types.EmotionFear, 5, types.RecCalmDown},
		{types.EmotionDisgust, 5, types.RecHealing},
		{types.EmotionJoy, 5, types.RecMoodBoost},
		{types.EmotionTrust, 5, types.RecEnergize},
		{types.EmotionAnticipation, 5, types.RecEnergize},
		{types.EmotionSurprise, 5, types.RecFocus},
		{types.EmotionNeutral, 5, types.RecHealing},
	}
	for _, tc := range cases {
		if got := RecTypeForEmotion(tc.emotion, tc.intensity); got != tc.want {
			t.Fatalf("RecTypeForEmotion(%s, %d): expected %s, got %s", tc.emotion, tc.intensity, tc.want, got)
		}
	}
}

func TestTargetForCoversAllTypes(t *testing.T) {
	all := []types.RecommendationType{
		types.RecMoodBoost, types.RecCalmDown, types.RecEnergize,
		types.RecFocus, types.RecSleep, types.RecHealing, types.RecCathartic,
	}
	for _, rt := range all {
		target := TargetFor(rt)
		if target.Valence < 0 || target.Valence > 1 || target.Energy < 0 || target.Energy > 1 {
			t.Fatalf("TargetFor(%s): features out of range: %+v", rt, target)
		}
		if target.Tempo < tempoMin || target.Tempo > tempoMax {
			t.Fatalf("TargetFor(%s): tempo out of range: %+v", rt, target)
		}
	}

	// Unknown types resolve to the healing profile.
	fallback, healing := TargetFor("unknown"), TargetFor(types.RecHealing)
	if fallback.Valence != healing.Valence || fallback.Energy != healing.Energy || fallback.Tempo != healing.Tempo {
		t.Fatalf("TargetFor: unknown type should fall back to healing")
	}
}

func TestBuiltinCatalogIsCopied(t *testing.T) {
	first := BuiltinCatalog()
	if len(first) == 0 {
		t.Fatalf("BuiltinCatalog: expected tracks")
	}
	first[0].Title = "mutated"
	if BuiltinCatalog()[0].Title == "mutated" {
		t.Fatalf("BuiltinCatalog: callers must not share the backing array")
	}
}

package services

import (
	"math"
	"sort"

	"github.com/yungbote/moodcare-backend/internal/types"
)

const (
	tempoMin = 60.0
	tempoMax = 180.0
)

// normTempo maps BPM onto 0..1 over the 60-180 range.
func normTempo(bpm float64) float64 {
	if bpm <= tempoMin {
		return 0
	}
	if bpm >= tempoMax {
		return 1
	}
	return (bpm - tempoMin) / (tempoMax - tempoMin)
}

// ScoreTrack measures how closely a track matches the target profile:
// 0.4 valence closeness + 0.3 energy closeness + 0.2 tempo closeness +
// 0.1 genre bonus.
func ScoreTrack(track types.Track, target AudioTarget) float64 {
	valence := 1 - math.Abs(track.Valence-target.Valence)
	energy := 1 - math.Abs(track.Energy-target.Energy)
	tempo := 1 - math.Abs(normTempo(track.Tempo)-normTempo(target.Tempo))

	genreBonus := 0.0
	for _, g := range target.Genres {
		if g == track.Genre {
			genreBonus = 1.0
			break
		}
	}

	return 0.4*valence + 0.3*energy + 0.2*tempo + 0.1*genreBonus
}

// RankTracks scores candidates against the target and returns the top K
// with their scores set, best first. Ties break on title for stability.
func RankTracks(candidates []types.Track, target AudioTarget, k int) []types.Track {
	if k <= 0 {
		k = 10
	}
	scored := make([]types.Track, len(candidates))
	copy(scored, candidates)
	for i := range scored {
		scored[i].Score = Round2(ScoreTrack(scored[i], target))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Title < scored[j].Title
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

package services

import "github.com/yungbote/moodcare-backend/internal/types"

// AudioTarget is the audio-feature profile a recommendation type aims
// for. Valence and energy are 0..1, tempo is BPM.
type AudioTarget struct {
	Valence float64
	Energy  float64
	Tempo   float64
	Genres  []string
}

var recommendationTargets = map[types.RecommendationType]AudioTarget{
	types.RecMoodBoost: {Valence: 0.85, Energy: 0.75, Tempo: 125, Genres: []string{"pop", "funk", "dance"}},
	types.RecCalmDown:  {Valence: 0.55, Energy: 0.25, Tempo: 75, Genres: []string{"ambient", "acoustic", "classical"}},
	types.RecEnergize:  {Valence: 0.70, Energy: 0.90, Tempo: 140, Genres: []string{"rock", "electronic", "dance"}},
	types.RecFocus:     {Valence: 0.50, Energy: 0.40, Tempo: 100, Genres: []string{"instrumental", "lo-fi", "classical"}},
	types.RecSleep:     {Valence: 0.45, Energy: 0.10, Tempo: 65, Genres: []string{"ambient", "piano"}},
	types.RecHealing:   {Valence: 0.60, Energy: 0.35, Tempo: 85, Genres: []string{"acoustic", "folk", "soul"}},
	types.RecCathartic: {Valence: 0.30, Energy: 0.65, Tempo: 110, Genres: []string{"alternative", "indie", "rock"}},
}

// TargetFor resolves a recommendation type to its audio profile.
func TargetFor(recType types.RecommendationType) AudioTarget {
	if t, ok := recommendationTargets[recType]; ok {
		return t
	}
	return recommendationTargets[types.RecHealing]
}

// RecTypeForEmotion picks a default recommendation type when the caller
// doesn't name one: regulate negative emotions, amplify positive ones.
func RecTypeForEmotion(emotion types.EmotionType, intensity int) types.RecommendationType {
	switch emotion {
	case types.EmotionSadness:
		if intensity >= 7 {
			return types.RecCathartic
		}
		return types.RecHealing
	case types.EmotionAnger:
		return types.RecCalmDown
	case types.EmotionFear:
		return types.RecCalmDown
	case types.EmotionDisgust:
		return types.RecHealing
	case types.EmotionJoy:
		return types.RecMoodBoost
	case types.EmotionTrust, types.EmotionAnticipation:
		return types.RecEnergize
	case types.EmotionSurprise:
		return types.RecFocus
	default:
		return types.RecHealing
	}
}

// Built-in candidates used when Spotify search is not configured. The
// audio features are hand-assigned, not fetched.
var builtinCatalog = []types.Track{
	{Title: "Weightless", Artist: "Marconi Union", Genre: "ambient", Valence: 0.30, Energy: 0.10, Tempo: 60},
	{Title: "Clair de Lune", Artist: "Claude Debussy", Genre: "classical", Valence: 0.45, Energy: 0.15, Tempo: 66},
	{Title: "Holocene", Artist: "Bon Iver", Genre: "folk", Valence: 0.40, Energy: 0.35, Tempo: 73},
	{Title: "River Flows in You", Artist: "Yiruma", Genre: "piano", Valence: 0.55, Energy: 0.20, Tempo: 70},
	{Title: "Breathe Me", Artist: "Sia", Genre: "alternative", Valence: 0.25, Energy: 0.45, Tempo: 80},
	{Title: "Fix You", Artist: "Coldplay", Genre: "alternative", Valence: 0.35, Energy: 0.55, Tempo: 138},
	{Title: "Here Comes the Sun", Artist: "The Beatles", Genre: "pop", Valence: 0.90, Energy: 0.55, Tempo: 129},
	{Title: "Walking on Sunshine", Artist: "Katrina and the Waves", Genre: "pop", Valence: 0.95, Energy: 0.85, Tempo: 109},
	{Title: "Happy", Artist: "Pharrell Williams", Genre: "funk", Valence: 0.96, Energy: 0.82, Tempo: 160},
	{Title: "Uptown Funk", Artist: "Mark Ronson", Genre: "funk", Valence: 0.90, Energy: 0.88, Tempo: 115},
	{Title: "Don't Stop Me Now", Artist: "Queen", Genre: "rock", Valence: 0.92, Energy: 0.93, Tempo: 156},
	{Title: "Eye of the Tiger", Artist: "Survivor", Genre: "rock", Valence: 0.75, Energy: 0.90, Tempo: 109},
	{Title: "Strobe", Artist: "deadmau5", Genre: "electronic", Valence: 0.50, Energy: 0.70, Tempo: 128},
	{Title: "Midnight City", Artist: "M83", Genre: "electronic", Valence: 0.65, Energy: 0.80, Tempo: 105},
	{Title: "Experience", Artist: "Ludovico Einaudi", Genre: "instrumental", Valence: 0.50, Energy: 0.45, Tempo: 84},
	{Title: "Snowfall", Artist: "Oneheart", Genre: "lo-fi", Valence: 0.40, Energy: 0.20, Tempo: 72},
	{Title: "Gymnopedie No. 1", Artist: "Erik Satie", Genre: "classical", Valence: 0.48, Energy: 0.12, Tempo: 60},
	{Title: "Landslide", Artist: "Fleetwood Mac", Genre: "folk", Valence: 0.45, Energy: 0.30, Tempo: 80},
	{Title: "Ain't No Mountain High Enough", Artist: "Marvin Gaye", Genre: "soul", Valence: 0.88, Energy: 0.70, Tempo: 130},
	{Title: "Lovely Day", Artist: "Bill Withers", Genre: "soul", Valence: 0.86, Energy: 0.60, Tempo: 98},
	{Title: "Everybody Hurts", Artist: "R.E.M.", Genre: "alternative", Valence: 0.20, Energy: 0.40, Tempo: 70},
	{Title: "The Night We Met", Artist: "Lord Huron", Genre: "indie", Valence: 0.25, Energy: 0.35, Tempo: 87},
	{Title: "Motion Picture Soundtrack", Artist: "Radiohead", Genre: "alternative", Valence: 0.15, Energy: 0.30, Tempo: 63},
	{Title: "Intro", Artist: "The xx", Genre: "indie", Valence: 0.45, Energy: 0.60, Tempo: 100},
	{Title: "Sunflower", Artist: "Post Malone", Genre: "pop", Valence: 0.76, Energy: 0.50, Tempo: 90},
	{Title: "Banana Pancakes", Artist: "Jack Johnson", Genre: "acoustic", Valence: 0.70, Energy: 0.40, Tempo: 114},
	{Title: "Better Together", Artist: "Jack Johnson", Genre: "acoustic", Valence: 0.78, Energy: 0.45, Tempo: 104},
	{Title: "Night Owl", Artist: "Galimatias", Genre: "lo-fi", Valence: 0.55, Energy: 0.35, Tempo: 91},
	{Title: "Saturn", Artist: "Sleeping at Last", Genre: "ambient", Valence: 0.40, Energy: 0.25, Tempo: 118},
	{Title: "First Breath After Coma", Artist: "Explosions in the Sky", Genre: "instrumental", Valence: 0.45, Energy: 0.55, Tempo: 88},
}

// BuiltinCatalog returns a copy so callers can annotate scores freely.
func BuiltinCatalog() []types.Track {
	out := make([]types.Track, len(builtinCatalog))
	copy(out, builtinCatalog)
	return out
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/repos/testutil"
	"github.com/yungbote/moodcare-backend/internal/types"
)

func newMusicService(t *testing.T) (MusicService, *gorm.DB, uuid.UUID) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	user, err := repos.NewUserRepo(db, log).Create(ctx, nil, &types.User{
		ID:       uuid.New(),
		Email:    "music@example.com",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := NewMusicService(
		db, log,
		repos.NewMusicRecommendationRepo(db, log),
		repos.NewMusicProfileRepo(db, log),
		repos.NewListeningEntryRepo(db, log),
		repos.NewEmotionRepo(db, log),
		nil, // no spotify, built-in catalog only
		nil, nil,
	)
	return svc, db, user.ID
}

func decodeTracks(t *testing.T, raw datatypes.JSON) []types.Track {
	t.Helper()
	var tracks []types.Track
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tracks); err != nil {
			t.Fatalf("decode tracks: %v", err)
		}
	}
	return tracks
}

func TestRecommendUsesLatestEmotion(t *testing.T) {
	svc, db, userID := newMusicService(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	if _, err := repos.NewEmotionRepo(db, log).Create(ctx, nil, &types.EmotionRecord{
		ID:          uuid.New(),
		UserID:      userID,
		Text:        "furious about work",
		EmotionType: types.EmotionAnger,
		Intensity:   7,
		Source:      types.EmotionSourceText,
	}); err != nil {
		t.Fatalf("seed emotion: %v", err)
	}

	rec, err := svc.Recommend(ctx, userID, MusicRecommendInput{})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.RecType != types.RecCalmDown {
		t.Fatalf("Recommend: expected calm_down for anger, got %s", rec.RecType)
	}

	tracks := decodeTracks(t, rec.Tracks)
	if len(tracks) == 0 || len(tracks) > recommendationSize {
		t.Fatalf("Recommend: unexpected track count %d", len(tracks))
	}
	for i := 1; i < len(tracks); i++ {
		if tracks[i-1].Score < tracks[i].Score {
			t.Fatalf("Recommend: tracks not sorted by score: %v > %v", tracks[i].Score, tracks[i-1].Score)
		}
	}

	var emotionContext map[string]any
	if err := json.Unmarshal(rec.EmotionContext, &emotionContext); err != nil {
		t.Fatalf("decode emotion context: %v", err)
	}
	if emotionContext["emotion_type"] != "anger" {
		t.Fatalf("Recommend: unexpected emotion context: %v", emotionContext)
	}
}

func TestRecommendWithoutHistoryDefaultsToNeutral(t *testing.T) {
	svc, _, userID := newMusicService(t)

	rec, err := svc.Recommend(context.Background(), userID, MusicRecommendInput{})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.RecType != types.RecHealing {
		t.Fatalf("Recommend: expected healing for neutral, got %s", rec.RecType)
	}
}

func TestRecommendRejectsUnknownInputs(t *testing.T) {
	svc, _, userID := newMusicService(t)
	ctx := context.Background()

	if _, err := svc.Recommend(ctx, userID, MusicRecommendInput{RecType: "shred"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("Recommend: expected validation error for rec type, got %v", err)
	}
	if _, err := svc.Recommend(ctx, userID, MusicRecommendInput{Emotion: "melancholy"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("Recommend: expected validation error for emotion, got %v", err)
	}
}

func TestFeedbackUpdatesProfile(t *testing.T) {
	svc, _, userID := newMusicService(t)
	ctx := context.Background()

	rec, err := svc.Recommend(ctx, userID, MusicRecommendInput{RecType: types.RecHealing, Emotion: types.EmotionSadness})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if _, err := svc.Feedback(ctx, userID, rec.ID, MusicFeedbackInput{Feedback: "meh"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("Feedback: expected validation error, got %v", err)
	}
	if _, err := svc.Feedback(ctx, userID, uuid.New(), MusicFeedbackInput{Feedback: types.FeedbackLiked}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Feedback: expected not found, got %v", err)
	}

	updated, err := svc.Feedback(ctx, userID, rec.ID, MusicFeedbackInput{Feedback: types.FeedbackLiked})
	if err != nil {
		t.Fatalf("Feedback: %v", err)
	}
	if updated.Feedback == nil || *updated.Feedback != types.FeedbackLiked {
		t.Fatalf("Feedback: not recorded on recommendation: %+v", updated)
	}
	if updated.PlayedAt == nil {
		t.Fatalf("Feedback: played_at not set")
	}

	// Liking the same track again must not duplicate the playlist entry,
	// but the per-emotion history keeps every reaction.
	if _, err := svc.Feedback(ctx, userID, rec.ID, MusicFeedbackInput{Feedback: types.FeedbackLiked}); err != nil {
		t.Fatalf("Feedback (repeat): %v", err)
	}
	idx := 1
	if _, err := svc.Feedback(ctx, userID, rec.ID, MusicFeedbackInput{Feedback: types.FeedbackDisliked, TrackIndex: &idx}); err != nil {
		t.Fatalf("Feedback (disliked): %v", err)
	}

	profile, err := svc.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got := decodeTracks(t, profile.HealingPlaylist); len(got) != 1 {
		t.Fatalf("HealingPlaylist: expected 1 track, got %d", len(got))
	}
	if got := decodeTracks(t, profile.TriggerSongs); len(got) != 1 {
		t.Fatalf("TriggerSongs: expected 1 track, got %d", len(got))
	}
	var history []map[string]any
	if err := json.Unmarshal(profile.MusicForEmotions, &history); err != nil {
		t.Fatalf("decode music_for_emotions: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("MusicForEmotions: expected 3 entries, got %d", len(history))
	}
	if history[0]["emotion"] != "sadness" || history[0]["feedback"] != "liked" {
		t.Fatalf("MusicForEmotions: unexpected first entry: %v", history[0])
	}

	badIdx := 99
	if _, err := svc.Feedback(ctx, userID, rec.ID, MusicFeedbackInput{Feedback: types.FeedbackLiked, TrackIndex: &badIdx}); !errors.Is(err, ErrValidation) {
		t.Fatalf("Feedback: expected validation error for track index, got %v", err)
	}
}

func TestDiaryValidationAndAnalytics(t *testing.T) {
	svc, _, userID := newMusicService(t)
	ctx := context.Background()

	if _, err := svc.AddDiaryEntry(ctx, userID, DiaryEntryInput{
		Track:           types.Track{Title: ""},
		EmotionBefore:   types.EmotionSadness,
		EmotionAfter:    types.EmotionJoy,
		IntensityBefore: 5,
		IntensityAfter:  5,
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("AddDiaryEntry: expected validation error for missing title, got %v", err)
	}
	if _, err := svc.AddDiaryEntry(ctx, userID, DiaryEntryInput{
		Track:           types.Track{Title: "Song"},
		EmotionBefore:   types.EmotionSadness,
		EmotionAfter:    types.EmotionJoy,
		IntensityBefore: 0,
		IntensityAfter:  5,
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("AddDiaryEntry: expected validation error for intensity, got %v", err)
	}

	song := types.Track{Title: "Weightless", Artist: "Marconi Union"}
	for _, relief := range []struct{ before, after int }{{8, 4}, {7, 5}} {
		if _, err := svc.AddDiaryEntry(ctx, userID, DiaryEntryInput{
			Track:           song,
			EmotionBefore:   types.EmotionFear,
			EmotionAfter:    types.EmotionTrust,
			IntensityBefore: relief.before,
			IntensityAfter:  relief.after,
		}); err != nil {
			t.Fatalf("AddDiaryEntry: %v", err)
		}
	}
	// A single listen must not reach the effectiveness list.
	if _, err := svc.AddDiaryEntry(ctx, userID, DiaryEntryInput{
		Track:           types.Track{Title: "One Off", Artist: "Someone"},
		EmotionBefore:   types.EmotionSadness,
		EmotionAfter:    types.EmotionSadness,
		IntensityBefore: 6,
		IntensityAfter:  6,
	}); err != nil {
		t.Fatalf("AddDiaryEntry: %v", err)
	}

	analytics, err := svc.Analytics(ctx, userID, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if analytics.Entries != 3 {
		t.Fatalf("Analytics: expected 3 entries, got %d", analytics.Entries)
	}
	if analytics.MeanRelief != 2 {
		t.Fatalf("Analytics: expected mean relief 2, got %v", analytics.MeanRelief)
	}
	if analytics.CountsByEmotion["fear"] != 2 || analytics.CountsByEmotion["sadness"] != 1 {
		t.Fatalf("Analytics: unexpected emotion counts: %v", analytics.CountsByEmotion)
	}
	if len(analytics.MostEffective) != 1 {
		t.Fatalf("Analytics: expected 1 effective track, got %+v", analytics.MostEffective)
	}
	top := analytics.MostEffective[0]
	if top.Title != "Weightless" || top.Listens != 2 || top.MeanRelief != 3 {
		t.Fatalf("Analytics: unexpected top track: %+v", top)
	}
}

func TestComputeMusicAnalyticsEmpty(t *testing.T) {
	out := ComputeMusicAnalytics(nil)
	if out.Entries != 0 || out.MeanRelief != 0 {
		t.Fatalf("ComputeMusicAnalytics(nil): unexpected: %+v", out)
	}
	if out.CountsByEmotion == nil || out.MostEffective == nil {
		t.Fatalf("ComputeMusicAnalytics(nil): maps and slices must be non-nil")
	}
}

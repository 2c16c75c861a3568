package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/platform/spotify"
	"github.com/yungbote/moodcare-backend/internal/realtime"
	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/types"
)

const recommendationSize = 10

type MusicRecommendInput struct {
	RecType types.RecommendationType // optional, derived from latest emotion when empty
	Emotion types.EmotionType        // optional override for the emotion context
}

type MusicFeedbackInput struct {
	Feedback   string
	TrackIndex *int // which track the feedback is about, defaults to the first
}

type DiaryEntryInput struct {
	Track           types.Track
	EmotionBefore   types.EmotionType
	EmotionAfter    types.EmotionType
	IntensityBefore int
	IntensityAfter  int
	Note            string
	ListenedAt      *time.Time
}

type TrackEffect struct {
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Listens    int     `json:"listens"`
	MeanRelief float64 `json:"mean_relief"`
}

type MusicAnalytics struct {
	Entries         int            `json:"entries"`
	MeanRelief      float64        `json:"mean_relief"`
	CountsByEmotion map[string]int `json:"counts_by_emotion"`
	MostEffective   []TrackEffect  `json:"most_effective"`
}

type MusicService interface {
	Recommend(ctx context.Context, userID uuid.UUID, in MusicRecommendInput) (*types.MusicRecommendation, error)
	ListRecommendations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.MusicRecommendation, error)
	Feedback(ctx context.Context, userID, recID uuid.UUID, in MusicFeedbackInput) (*types.MusicRecommendation, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.MusicProfile, error)
	AddDiaryEntry(ctx context.Context, userID uuid.UUID, in DiaryEntryInput) (*types.ListeningEntry, error)
	ListDiary(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.ListeningEntry, error)
	Analytics(ctx context.Context, userID uuid.UUID, window time.Duration) (*MusicAnalytics, error)
}

type musicService struct {
	db          *gorm.DB
	log         *logger.Logger
	recRepo     repos.MusicRecommendationRepo
	profileRepo repos.MusicProfileRepo
	diaryRepo   repos.ListeningEntryRepo
	emotionRepo repos.EmotionRepo
	spotify     spotify.Client
	notifier    NotificationService
	publish     Publisher
}

func NewMusicService(
	db *gorm.DB,
	log *logger.Logger,
	recRepo repos.MusicRecommendationRepo,
	profileRepo repos.MusicProfileRepo,
	diaryRepo repos.ListeningEntryRepo,
	emotionRepo repos.EmotionRepo,
	spotifyClient spotify.Client,
	notifier NotificationService,
	publish Publisher,
) MusicService {
	serviceLog := log.With("service", "MusicService")
	return &musicService{
		db:          db,
		log:         serviceLog,
		recRepo:     recRepo,
		profileRepo: profileRepo,
		diaryRepo:   diaryRepo,
		emotionRepo: emotionRepo,
		spotify:     spotifyClient,
		notifier:    notifier,
		publish:     publish,
	}
}

// Recommend ranks candidates against the audio profile for the chosen
// recommendation type. The emotion context comes from the latest journal
// entry unless the caller overrides it.
func (ms *musicService) Recommend(ctx context.Context, userID uuid.UUID, in MusicRecommendInput) (*types.MusicRecommendation, error) {
	emotion := in.Emotion
	intensity := 5
	if emotion == "" {
		recent, err := ms.emotionRepo.ListRecent(ctx, nil, userID, 1)
		if err != nil {
			return nil, fmt.Errorf("load latest emotion: %w", err)
		}
		if len(recent) > 0 {
			emotion = recent[0].EmotionType
			intensity = recent[0].Intensity
		} else {
			emotion = types.EmotionNeutral
		}
	} else if !types.ValidEmotionType(emotion) && emotion != types.EmotionNeutral {
		return nil, fmt.Errorf("%w: unknown emotion type %q", ErrValidation, emotion)
	}

	recType := in.RecType
	if recType == "" {
		recType = RecTypeForEmotion(emotion, intensity)
	} else if !types.ValidRecommendationType(recType) {
		return nil, fmt.Errorf("%w: unknown recommendation type %q", ErrValidation, recType)
	}

	target := TargetFor(recType)
	candidates := ms.candidates(ctx, recType, target)
	tracks := RankTracks(candidates, target, recommendationSize)

	contextRaw, _ := json.Marshal(map[string]any{
		"emotion_type": emotion,
		"intensity":    intensity,
	})
	tracksRaw, _ := json.Marshal(tracks)
	rec := &types.MusicRecommendation{
		ID:             uuid.New(),
		UserID:         userID,
		RecType:        recType,
		EmotionContext: datatypes.JSON(contextRaw),
		Tracks:         datatypes.JSON(tracksRaw),
	}
	if _, err := ms.recRepo.Create(ctx, nil, rec); err != nil {
		return nil, fmt.Errorf("create recommendation: %w", err)
	}

	if ms.publish != nil {
		ms.publish(realtime.Message{
			Group: realtime.NotificationGroup(userID.String()),
			Event: realtime.EventMusicRecommended,
			Data: map[string]any{
				"recommendation_id": rec.ID.String(),
				"rec_type":          recType,
			},
		})
	}
	if ms.notifier != nil {
		if nErr := ms.notifier.Send(ctx, userID, types.NotifyMusicReady,
			"New music for you",
			fmt.Sprintf("A %s playlist is ready.", strings.ReplaceAll(string(recType), "_", " ")),
			map[string]string{"recommendation_id": rec.ID.String()},
		); nErr != nil {
			ms.log.Warn("music ready notification failed", "error", nErr, "recommendation_id", rec.ID)
		}
	}
	return rec, nil
}

// candidates starts from the built-in catalog and, when Spotify search
// is configured, adds live results. Spotify does not return audio
// features on search, so those candidates are annotated with the target
// profile and marked as estimated.
func (ms *musicService) candidates(ctx context.Context, recType types.RecommendationType, target AudioTarget) []types.Track {
	out := BuiltinCatalog()
	if ms.spotify == nil {
		return out
	}

	query := strings.ReplaceAll(string(recType), "_", " ") + " " + strings.Join(target.Genres, " ")
	found, err := ms.spotify.SearchTracks(ctx, query, recommendationSize)
	if err != nil {
		ms.log.Warn("spotify search failed, using built-in catalog only", "error", err)
		return out
	}
	genre := ""
	if len(target.Genres) > 0 {
		genre = target.Genres[0]
	}
	for _, t := range found {
		out = append(out, types.Track{
			Title:     t.Name,
			Artist:    t.Artist,
			SpotifyID: t.ID,
			Genre:     genre,
			Valence:   target.Valence,
			Energy:    target.Energy,
			Tempo:     target.Tempo,
			Extra:     map[string]any{"features_estimated": true},
		})
	}
	return out
}

func (ms *musicService) ListRecommendations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.MusicRecommendation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return ms.recRepo.ListByUser(ctx, nil, userID, limit, offset)
}

// Feedback records the reaction on the recommendation row and folds the
// track into the user's music profile: liked and saved tracks join the
// healing playlist, disliked tracks join the trigger list, and every
// reaction is appended to the per-emotion history.
func (ms *musicService) Feedback(ctx context.Context, userID, recID uuid.UUID, in MusicFeedbackInput) (*types.MusicRecommendation, error) {
	if !types.ValidFeedback(in.Feedback) {
		return nil, fmt.Errorf("%w: feedback must be liked, disliked or saved", ErrValidation)
	}

	rec, err := ms.recRepo.GetByID(ctx, nil, userID, recID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var tracks []types.Track
	if len(rec.Tracks) > 0 {
		if err := json.Unmarshal(rec.Tracks, &tracks); err != nil {
			return nil, fmt.Errorf("decode recommendation tracks: %w", err)
		}
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: recommendation has no tracks", ErrValidation)
	}
	idx := 0
	if in.TrackIndex != nil {
		idx = *in.TrackIndex
	}
	if idx < 0 || idx >= len(tracks) {
		return nil, fmt.Errorf("%w: track index out of range", ErrValidation)
	}
	track := tracks[idx]

	var emotionContext map[string]any
	if len(rec.EmotionContext) > 0 {
		_ = json.Unmarshal(rec.EmotionContext, &emotionContext)
	}

	err = ms.db.Transaction(func(tx *gorm.DB) error {
		feedback := in.Feedback
		now := time.Now()
		rec.Feedback = &feedback
		rec.PlayedAt = &now
		if err := ms.recRepo.Update(ctx, tx, rec); err != nil {
			return err
		}

		profile, err := ms.profileRepo.GetByUser(ctx, tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile, err = ms.profileRepo.Create(ctx, tx, &types.MusicProfile{ID: uuid.New(), UserID: userID})
		}
		if err != nil {
			return err
		}

		switch in.Feedback {
		case types.FeedbackLiked, types.FeedbackSaved:
			profile.HealingPlaylist = appendTrackUnique(profile.HealingPlaylist, track)
		case types.FeedbackDisliked:
			profile.TriggerSongs = appendTrackUnique(profile.TriggerSongs, track)
		}
		profile.MusicForEmotions = appendEmotionEntry(profile.MusicForEmotions, emotionContext, in.Feedback, track)
		return ms.profileRepo.Update(ctx, tx, profile)
	})
	if err != nil {
		return nil, fmt.Errorf("record feedback: %w", err)
	}
	return rec, nil
}

func (ms *musicService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.MusicProfile, error) {
	profile, err := ms.profileRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ms.profileRepo.Create(ctx, nil, &types.MusicProfile{ID: uuid.New(), UserID: userID})
		}
		return nil, err
	}
	return profile, nil
}

func (ms *musicService) AddDiaryEntry(ctx context.Context, userID uuid.UUID, in DiaryEntryInput) (*types.ListeningEntry, error) {
	if strings.TrimSpace(in.Track.Title) == "" {
		return nil, fmt.Errorf("%w: track title is required", ErrValidation)
	}
	for _, e := range []types.EmotionType{in.EmotionBefore, in.EmotionAfter} {
		if !types.ValidEmotionType(e) && e != types.EmotionNeutral {
			return nil, fmt.Errorf("%w: unknown emotion type %q", ErrValidation, e)
		}
	}
	for _, v := range []int{in.IntensityBefore, in.IntensityAfter} {
		if v < 1 || v > 10 {
			return nil, fmt.Errorf("%w: intensity must be between 1 and 10", ErrValidation)
		}
	}

	listenedAt := time.Now()
	if in.ListenedAt != nil {
		listenedAt = *in.ListenedAt
	}
	trackRaw, _ := json.Marshal(in.Track)
	entry := &types.ListeningEntry{
		ID:              uuid.New(),
		UserID:          userID,
		Track:           datatypes.JSON(trackRaw),
		EmotionBefore:   in.EmotionBefore,
		EmotionAfter:    in.EmotionAfter,
		IntensityBefore: in.IntensityBefore,
		IntensityAfter:  in.IntensityAfter,
		Note:            strings.TrimSpace(in.Note),
		ListenedAt:      listenedAt,
	}
	if _, err := ms.diaryRepo.Create(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("create diary entry: %w", err)
	}
	return entry, nil
}

func (ms *musicService) ListDiary(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.ListeningEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return ms.diaryRepo.ListByUser(ctx, nil, userID, limit, offset)
}

func (ms *musicService) Analytics(ctx context.Context, userID uuid.UUID, window time.Duration) (*MusicAnalytics, error) {
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	since := time.Now().Add(-window)
	entries, err := ms.diaryRepo.ListByUserSince(ctx, nil, userID, since)
	if err != nil {
		return nil, err
	}
	return ComputeMusicAnalytics(entries), nil
}

// ComputeMusicAnalytics aggregates the diary window. Relief is the drop
// in intensity across a listen, so positive means the music helped.
// Tracks need at least two listens to appear in the effectiveness list.
func ComputeMusicAnalytics(entries []*types.ListeningEntry) *MusicAnalytics {
	out := &MusicAnalytics{
		CountsByEmotion: map[string]int{},
		MostEffective:   []TrackEffect{},
	}
	if len(entries) == 0 {
		return out
	}

	out.Entries = len(entries)
	reliefSum := 0
	type agg struct {
		title, artist string
		listens       int
		relief        int
	}
	byTrack := map[string]*agg{}
	for _, e := range entries {
		relief := e.IntensityBefore - e.IntensityAfter
		reliefSum += relief
		out.CountsByEmotion[string(e.EmotionBefore)]++

		var track types.Track
		if len(e.Track) > 0 {
			_ = json.Unmarshal(e.Track, &track)
		}
		if track.Title == "" {
			continue
		}
		key := trackKey(track)
		a, ok := byTrack[key]
		if !ok {
			a = &agg{title: track.Title, artist: track.Artist}
			byTrack[key] = a
		}
		a.listens++
		a.relief += relief
	}
	out.MeanRelief = Round2(float64(reliefSum) / float64(len(entries)))

	for _, a := range byTrack {
		if a.listens < 2 {
			continue
		}
		out.MostEffective = append(out.MostEffective, TrackEffect{
			Title:      a.title,
			Artist:     a.artist,
			Listens:    a.listens,
			MeanRelief: Round2(float64(a.relief) / float64(a.listens)),
		})
	}
	sort.SliceStable(out.MostEffective, func(i, j int) bool {
		a, b := out.MostEffective[i], out.MostEffective[j]
		if a.MeanRelief != b.MeanRelief {
			return a.MeanRelief > b.MeanRelief
		}
		return a.Title < b.Title
	})
	return out
}

func trackKey(t types.Track) string {
	if t.SpotifyID != "" {
		return "spotify:" + t.SpotifyID
	}
	return strings.ToLower(t.Title) + "|" + strings.ToLower(t.Artist)
}

// appendTrackUnique adds the track to a JSON list unless an equivalent
// track is already present.
func appendTrackUnique(raw datatypes.JSON, track types.Track) datatypes.JSON {
	var list []types.Track
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &list)
	}
	key := trackKey(track)
	for _, t := range list {
		if trackKey(t) == key {
			out, _ := json.Marshal(list)
			return datatypes.JSON(out)
		}
	}
	list = append(list, track)
	out, _ := json.Marshal(list)
	return datatypes.JSON(out)
}

// appendEmotionEntry always appends, duplicates included, so the
// history reflects every reaction.
func appendEmotionEntry(raw datatypes.JSON, emotionContext map[string]any, feedback string, track types.Track) datatypes.JSON {
	var list []map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &list)
	}
	emotion := ""
	if emotionContext != nil {
		if v, ok := emotionContext["emotion_type"].(string); ok {
			emotion = v
		}
	}
	list = append(list, map[string]any{
		"emotion":     emotion,
		"feedback":    feedback,
		"track":       track,
		"recorded_at": time.Now().UTC().Format(time.RFC3339),
	})
	out, _ := json.Marshal(list)
	return datatypes.JSON(out)
}

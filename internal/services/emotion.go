package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/platform/gcp"
	"github.com/yungbote/moodcare-backend/internal/realtime"
	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/types"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Publisher pushes a realtime message to the hub (and, when configured,
// across the Redis bus).
type Publisher func(msg realtime.Message)

// alertThreshold: a negative emotion at or above this intensity triggers
// an emotion_alert notification.
const alertThreshold = 8

type EmotionCreate struct {
	Text      string
	Intensity *int // optional client override, validated 1..10
}

type EmotionUpdate struct {
	Text *string
}

type DailyPoint struct {
	Date          string  `json:"date"`
	MeanIntensity float64 `json:"mean_intensity"`
}

type EmotionStatistics struct {
	Count           int            `json:"count"`
	MeanIntensity   float64        `json:"mean_intensity"`
	Distribution    map[string]int `json:"distribution"`
	DominantEmotion string         `json:"dominant_emotion,omitempty"`
	DailyTrend      []DailyPoint   `json:"daily_trend"`
}

type EmotionService interface {
	Create(ctx context.Context, userID uuid.UUID, in EmotionCreate) (*types.EmotionRecord, error)
	CreateFromVoice(ctx context.Context, userID uuid.UUID, audio []byte, mimeType string) (*types.EmotionRecord, error)
	Get(ctx context.Context, userID, recID uuid.UUID) (*types.EmotionRecord, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.EmotionRecord, int64, error)
	Update(ctx context.Context, userID, recID uuid.UUID, in EmotionUpdate) (*types.EmotionRecord, error)
	Delete(ctx context.Context, userID, recID uuid.UUID) error
	Statistics(ctx context.Context, userID uuid.UUID, window time.Duration) (*EmotionStatistics, error)
}

type emotionService struct {
	db          *gorm.DB
	log         *logger.Logger
	emotionRepo repos.EmotionRepo
	analyzer    EmotionAnalyzer
	speech      gcp.Speech
	bucket      gcp.BucketService
	notifier    NotificationService
	publish     Publisher
}

func NewEmotionService(
	db *gorm.DB,
	log *logger.Logger,
	emotionRepo repos.EmotionRepo,
	analyzer EmotionAnalyzer,
	speech gcp.Speech,
	bucket gcp.BucketService,
	notifier NotificationService,
	publish Publisher,
) EmotionService {
	serviceLog := log.With("service", "EmotionService")
	return &emotionService{
		db:          db,
		log:         serviceLog,
		emotionRepo: emotionRepo,
		analyzer:    analyzer,
		speech:      speech,
		bucket:      bucket,
		notifier:    notifier,
		publish:     publish,
	}
}

func (es *emotionService) Create(ctx context.Context, userID uuid.UUID, in EmotionCreate) (*types.EmotionRecord, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}
	if in.Intensity != nil && (*in.Intensity < 1 || *in.Intensity > 10) {
		return nil, fmt.Errorf("%w: intensity must be between 1 and 10", ErrValidation)
	}
	return es.createRecord(ctx, userID, text, types.EmotionSourceText, "", "", in.Intensity)
}

func (es *emotionService) createRecord(ctx context.Context, userID uuid.UUID, text, source, transcript, audioKey string, intensityOverride *int) (*types.EmotionRecord, error) {
	analysis := es.analyzer.Analyze(ctx, text)
	if intensityOverride != nil {
		analysis.Intensity = ClampIntensity(*intensityOverride)
		analysis.SentimentScore = SentimentFor(analysis.EmotionType, analysis.Intensity)
	}

	rec := &types.EmotionRecord{
		ID:             uuid.New(),
		UserID:         userID,
		Text:           text,
		EmotionType:    analysis.EmotionType,
		Intensity:      analysis.Intensity,
		SentimentScore: analysis.SentimentScore,
		AIAnalysis:     datatypes.JSON(analysis.JSON()),
		Source:         source,
		Transcript:     transcript,
		AudioKey:       audioKey,
	}
	if _, err := es.emotionRepo.Create(ctx, nil, rec); err != nil {
		return nil, fmt.Errorf("create emotion record: %w", err)
	}

	if es.publish != nil {
		es.publish(realtime.Message{
			Group: realtime.NotificationGroup(userID.String()),
			Event: realtime.EventEmotionCreated,
			Data: map[string]any{
				"record_id":    rec.ID.String(),
				"emotion_type": rec.EmotionType,
				"intensity":    rec.Intensity,
			},
		})
	}

	if es.notifier != nil && rec.Intensity >= alertThreshold && rec.EmotionType.Polarity() < 0 {
		if err := es.notifier.Send(ctx, userID, types.NotifyEmotionAlert,
			"Checking in on you",
			"You logged a strong difficult emotion. A calming exercise might help.",
			map[string]string{"record_id": rec.ID.String()},
		); err != nil {
			es.log.Warn("emotion alert notification failed", "error", err, "record_id", rec.ID)
		}
	}

	return rec, nil
}

// CreateFromVoice stores the audio, transcribes it, then journals the
// transcript like a text entry.
func (es *emotionService) CreateFromVoice(ctx context.Context, userID uuid.UUID, audio []byte, mimeType string) (*types.EmotionRecord, error) {
	if es.speech == nil {
		return nil, fmt.Errorf("%w: voice analysis not configured", ErrServiceUnavailable)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: audio is required", ErrValidation)
	}

	audioKey := ""
	if es.bucket != nil {
		audioKey = path.Join("voice", userID.String(), uuid.New().String()+extForMime(mimeType))
		if err := es.bucket.UploadFile(ctx, audioKey, bytes.NewReader(audio), mimeType); err != nil {
			es.log.Warn("voice note upload failed, continuing without stored audio", "error", err)
			audioKey = ""
		}
	}

	result, err := es.speech.TranscribeAudioBytes(ctx, audio, mimeType)
	if err != nil {
		return nil, fmt.Errorf("transcribe voice note: %w", err)
	}
	transcript := strings.TrimSpace(result.PrimaryText)
	if transcript == "" {
		return nil, fmt.Errorf("%w: no speech detected", ErrValidation)
	}

	return es.createRecord(ctx, userID, transcript, types.EmotionSourceVoice, transcript, audioKey, nil)
}

func extForMime(mimeType string) string {
	m := strings.ToLower(mimeType)
	switch {
	case strings.Contains(m, "wav"):
		return ".wav"
	case strings.Contains(m, "flac"):
		return ".flac"
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg"):
		return ".mp3"
	case strings.Contains(m, "ogg"), strings.Contains(m, "opus"):
		return ".ogg"
	default:
		return ".bin"
	}
}

func (es *emotionService) Get(ctx context.Context, userID, recID uuid.UUID) (*types.EmotionRecord, error) {
	rec, err := es.emotionRepo.GetByID(ctx, nil, userID, recID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (es *emotionService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.EmotionRecord, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	recs, err := es.emotionRepo.ListByUser(ctx, nil, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := es.emotionRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// Update re-runs analysis when the text changes.
func (es *emotionService) Update(ctx context.Context, userID, recID uuid.UUID, in EmotionUpdate) (*types.EmotionRecord, error) {
	rec, err := es.Get(ctx, userID, recID)
	if err != nil {
		return nil, err
	}
	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: text is required", ErrValidation)
		}
		rec.Text = text
		analysis := es.analyzer.Analyze(ctx, text)
		rec.EmotionType = analysis.EmotionType
		rec.Intensity = analysis.Intensity
		rec.SentimentScore = analysis.SentimentScore
		rec.AIAnalysis = datatypes.JSON(analysis.JSON())
	}
	if err := es.emotionRepo.Update(ctx, nil, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (es *emotionService) Delete(ctx context.Context, userID, recID uuid.UUID) error {
	affected, err := es.emotionRepo.Delete(ctx, nil, userID, recID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (es *emotionService) Statistics(ctx context.Context, userID uuid.UUID, window time.Duration) (*EmotionStatistics, error) {
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	since := time.Now().Add(-window)
	recs, err := es.emotionRepo.ListByUserSince(ctx, nil, userID, since)
	if err != nil {
		return nil, err
	}
	return ComputeStatistics(recs), nil
}

// ComputeStatistics aggregates a window of records. The distribution
// counts always sum to len(recs); the mean is rounded to 2 decimals.
func ComputeStatistics(recs []*types.EmotionRecord) *EmotionStatistics {
	stats := &EmotionStatistics{
		Distribution: map[string]int{},
		DailyTrend:   []DailyPoint{},
	}
	if len(recs) == 0 {
		return stats
	}

	stats.Count = len(recs)
	sum := 0
	daySum := map[string]int{}
	dayCount := map[string]int{}
	for _, r := range recs {
		sum += r.Intensity
		stats.Distribution[string(r.EmotionType)]++
		day := r.CreatedAt.Format("2006-01-02")
		daySum[day] += r.Intensity
		dayCount[day]++
	}
	stats.MeanIntensity = Round2(float64(sum) / float64(len(recs)))

	best := ""
	bestCount := 0
	for emotion, count := range stats.Distribution {
		if count > bestCount || (count == bestCount && emotion < best) {
			best = emotion
			bestCount = count
		}
	}
	stats.DominantEmotion = best

	days := make([]string, 0, len(daySum))
	for day := range daySum {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		stats.DailyTrend = append(stats.DailyTrend, DailyPoint{
			Date:          day,
			MeanIntensity: Round2(float64(daySum[day]) / float64(dayCount[day])),
		})
	}
	return stats
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

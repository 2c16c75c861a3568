package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/realtime"
	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/repos/testutil"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type fixedAnalyzer struct {
	result Analysis
}

func (f *fixedAnalyzer) Analyze(ctx context.Context, text string) Analysis {
	return f.result
}

func newEmotionService(t *testing.T, analyzer EmotionAnalyzer, published *[]realtime.Message) (EmotionService, NotificationService, uuid.UUID) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	user, err := repos.NewUserRepo(db, log).Create(context.Background(), nil, &types.User{
		ID:       uuid.New(),
		Email:    "journal@example.com",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	notifier := NewNotificationService(
		db, log,
		repos.NewDeviceTokenRepo(db, log),
		repos.NewNotificationPrefRepo(db, log),
		repos.NewNotificationLogRepo(db, log),
		nil, nil,
	)
	var publish Publisher
	if published != nil {
		publish = func(msg realtime.Message) { *published = append(*published, msg) }
	}
	svc := NewEmotionService(
		db, log,
		repos.NewEmotionRepo(db, log),
		analyzer,
		nil, nil,
		notifier,
		publish,
	)
	return svc, notifier, user.ID
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _, userID := newEmotionService(t, &fixedAnalyzer{result: FallbackAnalysis()}, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, userID, EmotionCreate{Text: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("Create: expected validation error for empty text, got %v", err)
	}
	bad := 11
	if _, err := svc.Create(ctx, userID, EmotionCreate{Text: "fine", Intensity: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("Create: expected validation error for intensity 11, got %v", err)
	}
	zero := 0
	if _, err := svc.Create(ctx, userID, EmotionCreate{Text: "fine", Intensity: &zero}); !errors.Is(err, ErrValidation) {
		t.Fatalf("Create: expected validation error for intensity 0, got %v", err)
	}
}

func TestCreateOverrideRecomputesSentiment(t *testing.T) {
	analyzer := &fixedAnalyzer{result: Analysis{EmotionType: types.EmotionSadness, Intensity: 4, SentimentScore: -0.4}}
	var published []realtime.Message
	svc, _, userID := newEmotionService(t, analyzer, &published)

	override := 9
	rec, err := svc.Create(context.Background(), userID, EmotionCreate{Text: "rough night", Intensity: &override})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Intensity != 9 {
		t.Fatalf("Create: override not applied, got %d", rec.Intensity)
	}
	if rec.SentimentScore != -0.9 {
		t.Fatalf("Create: sentiment not recomputed for override, got %v", rec.SentimentScore)
	}
	if rec.Source != types.EmotionSourceText {
		t.Fatalf("Create: unexpected source %q", rec.Source)
	}

	if len(published) != 1 {
		t.Fatalf("Create: expected 1 realtime message, got %d", len(published))
	}
	msg := published[0]
	if msg.Group != realtime.NotificationGroup(userID.String()) || msg.Event != realtime.EventEmotionCreated {
		t.Fatalf("Create: unexpected realtime message: %+v", msg)
	}
}

func TestCreateTriggersAlertOnlyForStrongNegative(t *testing.T) {
	ctx := context.Background()

	// Intensity 9 sadness crosses the alert threshold. Push is not
	// configured, so the attempt is visible as a failed emotion_alert row.
	analyzer := &fixedAnalyzer{result: Analysis{EmotionType: types.EmotionSadness, Intensity: 9, SentimentScore: -0.9}}
	svc, notifier, userID := newEmotionService(t, analyzer, nil)
	if _, err := svc.Create(ctx, userID, EmotionCreate{Text: "everything fell apart"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	logs, err := notifier.ListLogs(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Category != types.NotifyEmotionAlert {
		t.Fatalf("expected one emotion alert attempt, got %+v", logs)
	}

	// Equally intense joy must not alert.
	analyzer2 := &fixedAnalyzer{result: Analysis{EmotionType: types.EmotionJoy, Intensity: 9, SentimentScore: 0.9}}
	svc2, notifier2, userID2 := newEmotionService(t, analyzer2, nil)
	if _, err := svc2.Create(ctx, userID2, EmotionCreate{Text: "got the job"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	logs, err = notifier2.ListLogs(ctx, userID2, 10, 0)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("positive emotion must not alert, got %+v", logs)
	}
}

func TestEmotionOwnerScoping(t *testing.T) {
	svc, _, userID := newEmotionService(t, &fixedAnalyzer{result: FallbackAnalysis()}, nil)
	ctx := context.Background()

	rec, err := svc.Create(ctx, userID, EmotionCreate{Text: "an ordinary day"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stranger := uuid.New()
	if _, err := svc.Get(ctx, stranger, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get: expected not found for foreign user, got %v", err)
	}
	if err := svc.Delete(ctx, stranger, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete: expected not found for foreign user, got %v", err)
	}
	newText := "an ordinary day, on reflection a good one"
	if _, err := svc.Update(ctx, stranger, rec.ID, EmotionUpdate{Text: &newText}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update: expected not found for foreign user, got %v", err)
	}

	if err := svc.Delete(ctx, userID, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, userID, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get: expected not found after delete, got %v", err)
	}
}

func TestCreateFromVoiceRequiresSpeech(t *testing.T) {
	svc, _, userID := newEmotionService(t, &fixedAnalyzer{result: FallbackAnalysis()}, nil)

	_, err := svc.CreateFromVoice(context.Background(), userID, []byte("audio"), "audio/wav")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("CreateFromVoice: expected service unavailable without speech, got %v", err)
	}
}

func TestStatisticsEmptyWindow(t *testing.T) {
	svc, _, userID := newEmotionService(t, &fixedAnalyzer{result: FallbackAnalysis()}, nil)

	stats, err := svc.Statistics(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.Count != 0 || stats.MeanIntensity != 0 || len(stats.Distribution) != 0 {
		t.Fatalf("Statistics: expected zeros on empty window, got %+v", stats)
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/platform/fcm"
	"github.com/yungbote/moodcare-backend/internal/realtime"
	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/types"
)

// FCM caps registration_ids at 500 per request.
const fcmBatchSize = 500

type PreferenceUpdate struct {
	Enabled         *bool
	DailyReminder   *bool
	StoryReady      *bool
	MusicReady      *bool
	EmotionAlert    *bool
	QuietHoursStart *string
	QuietHoursEnd   *string
}

type NotificationService interface {
	Send(ctx context.Context, userID uuid.UUID, category types.NotificationCategory, title, body string, data map[string]string) error
	RegisterDevice(ctx context.Context, userID uuid.UUID, token, platform string) (*types.DeviceToken, error)
	UnregisterDevice(ctx context.Context, userID uuid.UUID, token string) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (*types.NotificationPreference, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, in PreferenceUpdate) (*types.NotificationPreference, error)
	ListLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.NotificationLog, error)
	SendTest(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	db        *gorm.DB
	log       *logger.Logger
	tokenRepo repos.DeviceTokenRepo
	prefRepo  repos.NotificationPrefRepo
	logRepo   repos.NotificationLogRepo
	push      fcm.Client
	publish   Publisher
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	tokenRepo repos.DeviceTokenRepo,
	prefRepo repos.NotificationPrefRepo,
	logRepo repos.NotificationLogRepo,
	push fcm.Client,
	publish Publisher,
) NotificationService {
	serviceLog := log.With("service", "NotificationService")
	return &notificationService{
		db:        db,
		log:       serviceLog,
		tokenRepo: tokenRepo,
		prefRepo:  prefRepo,
		logRepo:   logRepo,
		push:      push,
		publish:   publish,
	}
}

// Send delivers one notification. Disabled categories and quiet hours
// skip silently with no log row; emotion alerts ignore quiet hours.
// Allowed notifications get a log row that ends up sent or failed.
func (ns *notificationService) Send(ctx context.Context, userID uuid.UUID, category types.NotificationCategory, title, body string, data map[string]string) error {
	pref, err := ns.GetPreferences(ctx, userID)
	if err != nil {
		return fmt.Errorf("load notification preferences: %w", err)
	}
	if !categoryAllowed(pref, category) {
		ns.log.Debug("notification skipped, category disabled", "user_id", userID, "category", category)
		return nil
	}
	if category != types.NotifyEmotionAlert && InQuietHours(time.Now(), pref.QuietHoursStart, pref.QuietHoursEnd) {
		ns.log.Debug("notification skipped, quiet hours", "user_id", userID, "category", category)
		return nil
	}

	var dataRaw datatypes.JSON
	if len(data) > 0 {
		raw, _ := json.Marshal(data)
		dataRaw = datatypes.JSON(raw)
	}
	logRow := &types.NotificationLog{
		ID:       uuid.New(),
		UserID:   userID,
		Category: category,
		Title:    title,
		Body:     body,
		Data:     dataRaw,
		Status:   types.NotifyStatusPending,
	}
	if _, err := ns.logRepo.Create(ctx, nil, logRow); err != nil {
		return fmt.Errorf("create notification log: %w", err)
	}

	if ns.publish != nil {
		ns.publish(realtime.Message{
			Group: realtime.NotificationGroup(userID.String()),
			Event: realtime.EventNotification,
			Data: map[string]any{
				"notification_id": logRow.ID.String(),
				"category":        category,
				"title":           title,
				"body":            body,
			},
		})
	}

	sendErr := ns.deliver(ctx, userID, title, body, data)
	now := time.Now()
	if sendErr != nil {
		logRow.Status = types.NotifyStatusFailed
		logRow.Error = sendErr.Error()
	} else {
		logRow.Status = types.NotifyStatusSent
		logRow.SentAt = &now
	}
	if uerr := ns.logRepo.Update(ctx, nil, logRow); uerr != nil {
		ns.log.Warn("notification log update failed", "error", uerr, "notification_id", logRow.ID)
	}
	return sendErr
}

// deliver pushes to every active device token in batches of 500, each
// batch one FCM call, batches dispatched concurrently. Tokens FCM
// reports as dead are deactivated.
func (ns *notificationService) deliver(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) error {
	if ns.push == nil {
		return fmt.Errorf("push delivery not configured")
	}
	devices, err := ns.tokenRepo.ListActiveByUser(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("list device tokens: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("no active device tokens")
	}
	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.Token)
	}

	var (
		mu      sync.Mutex
		success int
		invalid []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(tokens); start += fcmBatchSize {
		end := start + fcmBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]
		g.Go(func() error {
			res, err := ns.push.SendMulticast(gctx, batch, fcm.Notification{Title: title, Body: body}, data)
			if err != nil {
				return err
			}
			mu.Lock()
			success += res.Success
			invalid = append(invalid, res.InvalidTokens...)
			mu.Unlock()
			return nil
		})
	}
	batchErr := g.Wait()

	for _, token := range invalid {
		if derr := ns.tokenRepo.DeactivateByToken(ctx, nil, token); derr != nil {
			ns.log.Warn("device token deactivation failed", "error", derr)
		} else {
			ns.log.Info("deactivated dead device token", "user_id", userID)
		}
	}

	if batchErr != nil {
		return fmt.Errorf("fcm multicast: %w", batchErr)
	}
	if success == 0 {
		return fmt.Errorf("no device accepted the notification")
	}
	return nil
}

func categoryAllowed(pref *types.NotificationPreference, category types.NotificationCategory) bool {
	if !pref.Enabled {
		return false
	}
	switch category {
	case types.NotifyDailyReminder:
		return pref.DailyReminder
	case types.NotifyStoryReady:
		return pref.StoryReady
	case types.NotifyMusicReady:
		return pref.MusicReady
	case types.NotifyEmotionAlert:
		return pref.EmotionAlert
	case types.NotifyTest:
		return true
	}
	return false
}

// InQuietHours reports whether now falls inside the HH:MM window. The
// window may wrap midnight. Unset or malformed bounds disable it.
func InQuietHours(now time.Time, start, end string) bool {
	startMin, okStart := parseClock(start)
	endMin, okEnd := parseClock(end)
	if !okStart || !okEnd || startMin == endMin {
		return false
	}
	nowMin := now.Hour()*60 + now.Minute()
	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	return nowMin >= startMin || nowMin < endMin
}

func parseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func (ns *notificationService) RegisterDevice(ctx context.Context, userID uuid.UUID, token, platform string) (*types.DeviceToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrValidation)
	}
	if !types.ValidPlatform(platform) {
		return nil, fmt.Errorf("%w: platform must be ios, android or web", ErrValidation)
	}
	return ns.tokenRepo.Upsert(ctx, nil, &types.DeviceToken{
		ID:       uuid.New(),
		UserID:   userID,
		Token:    token,
		Platform: platform,
		IsActive: true,
	})
}

func (ns *notificationService) UnregisterDevice(ctx context.Context, userID uuid.UUID, token string) error {
	affected, err := ns.tokenRepo.Deactivate(ctx, nil, userID, strings.TrimSpace(token))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPreferences creates the default row on first access so older
// accounts behave like new ones.
func (ns *notificationService) GetPreferences(ctx context.Context, userID uuid.UUID) (*types.NotificationPreference, error) {
	pref, err := ns.prefRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ns.prefRepo.Create(ctx, nil, &types.NotificationPreference{
				ID:            uuid.New(),
				UserID:        userID,
				Enabled:       true,
				DailyReminder: true,
				StoryReady:    true,
				MusicReady:    true,
				EmotionAlert:  true,
			})
		}
		return nil, err
	}
	return pref, nil
}

func (ns *notificationService) UpdatePreferences(ctx context.Context, userID uuid.UUID, in PreferenceUpdate) (*types.NotificationPreference, error) {
	for _, v := range []*string{in.QuietHoursStart, in.QuietHoursEnd} {
		if v != nil && *v != "" {
			if _, ok := parseClock(*v); !ok {
				return nil, fmt.Errorf("%w: quiet hours must be HH:MM", ErrValidation)
			}
		}
	}

	pref, err := ns.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Enabled != nil {
		pref.Enabled = *in.Enabled
	}
	if in.DailyReminder != nil {
		pref.DailyReminder = *in.DailyReminder
	}
	if in.StoryReady != nil {
		pref.StoryReady = *in.StoryReady
	}
	if in.MusicReady != nil {
		pref.MusicReady = *in.MusicReady
	}
	if in.EmotionAlert != nil {
		pref.EmotionAlert = *in.EmotionAlert
	}
	if in.QuietHoursStart != nil {
		pref.QuietHoursStart = *in.QuietHoursStart
	}
	if in.QuietHoursEnd != nil {
		pref.QuietHoursEnd = *in.QuietHoursEnd
	}
	if err := ns.prefRepo.Update(ctx, nil, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func (ns *notificationService) ListLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.NotificationLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return ns.logRepo.ListByUser(ctx, nil, userID, limit, offset)
}

func (ns *notificationService) SendTest(ctx context.Context, userID uuid.UUID) error {
	return ns.Send(ctx, userID, types.NotifyTest,
		"Test notification",
		"Push notifications are working.",
		map[string]string{"kind": "test"})
}

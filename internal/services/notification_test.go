package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/repos/testutil"
	"github.com/yungbote/moodcare-backend/internal/types"
)

func newNotificationService(t *testing.T) (NotificationService, *gorm.DB, uuid.UUID) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	user, err := repos.NewUserRepo(db, log).Create(context.Background(), nil, &types.User{
		ID:       uuid.New(),
		Email:    "notify@example.com",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := NewNotificationService(
		db, log,
		repos.NewDeviceTokenRepo(db, log),
		repos.NewNotificationPrefRepo(db, log),
		repos.NewNotificationLogRepo(db, log),
		nil, // push not configured
		nil,
	)
	return svc, db, user.ID
}

func TestInQuietHours(t *testing.T) {
	at := func(hour, min int) time.Time {
		return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
	}
	cases := []struct {
		name       string
		now        time.Time
		start, end string
		want       bool
	}{
		{"inside same-day window", at(23, 0), "22:00", "07:00", true},
		{"after midnight in wrapped window", at(3, 30), "22:00", "07:00", true},
		{"outside wrapped window", at(12, 0), "22:00", "07:00", false},
		{"inside plain window", at(14, 0), "13:00", "15:00", true},
		{"at window end", at(15, 0), "13:00", "15:00", false},
		{"at window start", at(13, 0), "13:00", "15:00", true},
		{"unset bounds", at(3, 0), "", "", false},
		{"malformed start", at(3, 0), "late", "07:00", false},
		{"equal bounds disable", at(3, 0), "07:00", "07:00", false},
	}
	for _, tc := range cases {
		if got := InQuietHours(tc.now, tc.start, tc.end); got != tc.want {
			t.Fatalf("%s: InQuietHours(%v, %q, %q) = %v, want %v", tc.name, tc.now, tc.start, tc.end, got, tc.want)
		}
	}
}

func TestCategoryAllowed(t *testing.T) {
	pref := &types.NotificationPreference{
		Enabled:       true,
		DailyReminder: false,
		StoryReady:    true,
		MusicReady:    true,
		EmotionAlert:  true,
	}
	if categoryAllowed(pref, types.NotifyDailyReminder) {
		t.Fatalf("categoryAllowed: disabled category should not pass")
	}
	if !categoryAllowed(pref, types.NotifyStoryReady) {
		t.Fatalf("categoryAllowed: enabled category should pass")
	}
	if !categoryAllowed(pref, types.NotifyTest) {
		t.Fatalf("categoryAllowed: test should always pass while enabled")
	}
	pref.Enabled = false
	if categoryAllowed(pref, types.NotifyStoryReady) || categoryAllowed(pref, types.NotifyTest) {
		t.Fatalf("categoryAllowed: master switch off should block everything")
	}
}

func TestSendCreatesLogRowAndRecordsFailure(t *testing.T) {
	svc, _, userID := newNotificationService(t)
	ctx := context.Background()

	// Push is not configured, so an allowed send attempts delivery and
	// the log row ends up failed.
	err := svc.Send(ctx, userID, types.NotifyStoryReady, "Your story is ready", "Come read it.", map[string]string{"story_id": "x"})
	if err == nil {
		t.Fatalf("Send: expected delivery error with no push client")
	}

	logs, lerr := svc.ListLogs(ctx, userID, 10, 0)
	if lerr != nil {
		t.Fatalf("ListLogs: %v", lerr)
	}
	if len(logs) != 1 {
		t.Fatalf("ListLogs: expected 1 row, got %d", len(logs))
	}
	if logs[0].Status != types.NotifyStatusFailed || logs[0].Error == "" {
		t.Fatalf("ListLogs: expected failed row with error, got %+v", logs[0])
	}
}

func TestSendSkipsDisabledCategoryWithoutLogRow(t *testing.T) {
	svc, _, userID := newNotificationService(t)
	ctx := context.Background()

	off := false
	if _, err := svc.UpdatePreferences(ctx, userID, PreferenceUpdate{StoryReady: &off}); err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}

	if err := svc.Send(ctx, userID, types.NotifyStoryReady, "Your story is ready", "", nil); err != nil {
		t.Fatalf("Send: disabled category should skip silently, got %v", err)
	}
	logs, err := svc.ListLogs(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("ListLogs: skip must not leave a log row, got %d", len(logs))
	}
}

func TestSendQuietHoursSkipExceptEmotionAlert(t *testing.T) {
	svc, _, userID := newNotificationService(t)
	ctx := context.Background()

	// A window around the current time, so the test is stable whenever it runs.
	start := time.Now().Add(-time.Hour).Format("15:04")
	end := time.Now().Add(time.Hour).Format("15:04")
	if _, err := svc.UpdatePreferences(ctx, userID, PreferenceUpdate{QuietHoursStart: &start, QuietHoursEnd: &end}); err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}

	if err := svc.Send(ctx, userID, types.NotifyDailyReminder, "How are you feeling?", "", nil); err != nil {
		t.Fatalf("Send: quiet hours should skip silently, got %v", err)
	}
	logs, err := svc.ListLogs(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("ListLogs: quiet hours skip must not leave a log row, got %d", len(logs))
	}

	// Emotion alerts cut through quiet hours and reach delivery.
	if err := svc.Send(ctx, userID, types.NotifyEmotionAlert, "Checking in on you", "", nil); err == nil {
		t.Fatalf("Send: emotion alert should attempt delivery and fail without push")
	}
	logs, err = svc.ListLogs(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Category != types.NotifyEmotionAlert {
		t.Fatalf("ListLogs: expected one emotion alert row, got %+v", logs)
	}
}

func TestUpdatePreferencesValidatesQuietHours(t *testing.T) {
	svc, _, userID := newNotificationService(t)
	ctx := context.Background()

	bad := "25:99"
	if _, err := svc.UpdatePreferences(ctx, userID, PreferenceUpdate{QuietHoursStart: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("UpdatePreferences: expected validation error, got %v", err)
	}

	// Clearing quiet hours with empty strings is allowed.
	empty := ""
	pref, err := svc.UpdatePreferences(ctx, userID, PreferenceUpdate{QuietHoursStart: &empty, QuietHoursEnd: &empty})
	if err != nil {
		t.Fatalf("UpdatePreferences (clear): %v", err)
	}
	if pref.QuietHoursStart != "" || pref.QuietHoursEnd != "" {
		t.Fatalf("UpdatePreferences: quiet hours not cleared: %+v", pref)
	}
}

func TestDeviceRegistration(t *testing.T) {
	svc, _, userID := newNotificationService(t)
	ctx := context.Background()

	if _, err := svc.RegisterDevice(ctx, userID, "", types.PlatformIOS); !errors.Is(err, ErrValidation) {
		t.Fatalf("RegisterDevice: expected validation error for empty token, got %v", err)
	}
	if _, err := svc.RegisterDevice(ctx, userID, "tok-1", "blackberry"); !errors.Is(err, ErrValidation) {
		t.Fatalf("RegisterDevice: expected validation error for platform, got %v", err)
	}

	dt, err := svc.RegisterDevice(ctx, userID, "tok-1", types.PlatformIOS)
	if err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}
	if !dt.IsActive {
		t.Fatalf("RegisterDevice: token should be active")
	}

	if err := svc.UnregisterDevice(ctx, userID, "tok-1"); err != nil {
		t.Fatalf("UnregisterDevice: %v", err)
	}
	if err := svc.UnregisterDevice(ctx, userID, "tok-unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UnregisterDevice: expected not found for unknown token, got %v", err)
	}
}

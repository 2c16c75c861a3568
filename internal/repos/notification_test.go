package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/repos/testutil"
	"github.com/yungbote/moodcare-backend/internal/types"
)

func TestDeviceTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	userRepo := NewUserRepo(db, log)
	repo := NewDeviceTokenRepo(db, log)
	user := seedUser(t, userRepo, "devices@example.com")

	first, err := repo.Upsert(ctx, nil, &types.DeviceToken{
		ID:       uuid.New(),
		UserID:   user.ID,
		Token:    "fcm-token-1",
		Platform: types.PlatformIOS,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Re-registering the same token must update in place, not duplicate.
	second, err := repo.Upsert(ctx, nil, &types.DeviceToken{
		ID:       uuid.New(),
		UserID:   user.ID,
		Token:    "fcm-token-1",
		Platform: types.PlatformAndroid,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("Upsert (again): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("Upsert: expected same row, got %s and %s", first.ID, second.ID)
	}
	if second.Platform != types.PlatformAndroid {
		t.Fatalf("Upsert: platform not updated: %+v", second)
	}

	active, err := repo.ListActiveByUser(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("ListActiveByUser: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("ListActiveByUser: expected 1 token, got %d", len(active))
	}

	if err := repo.DeactivateByToken(ctx, nil, "fcm-token-1"); err != nil {
		t.Fatalf("DeactivateByToken: %v", err)
	}
	active, err = repo.ListActiveByUser(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("ListActiveByUser (after deactivate): %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("ListActiveByUser: expected no active tokens, got %d", len(active))
	}

	// Upsert reactivates a previously deactivated token.
	if _, err := repo.Upsert(ctx, nil, &types.DeviceToken{
		ID:       uuid.New(),
		UserID:   user.ID,
		Token:    "fcm-token-1",
		Platform: types.PlatformAndroid,
	}); err != nil {
		t.Fatalf("Upsert (reactivate): %v", err)
	}
	active, err = repo.ListActiveByUser(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("ListActiveByUser (after reactivate): %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("ListActiveByUser: expected reactivated token, got %d", len(active))
	}

	affected, err := repo.Deactivate(ctx, nil, user.ID, "unknown-token")
	if err != nil {
		t.Fatalf("Deactivate (unknown): %v", err)
	}
	if affected != 0 {
		t.Fatalf("Deactivate (unknown): expected 0 rows, got %d", affected)
	}
}

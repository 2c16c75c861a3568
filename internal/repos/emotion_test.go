package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/repos/testutil"
	"github.com/yungbote/moodcare-backend/internal/types"
)

func seedUser(t *testing.T, repo UserRepo, email string) *types.User {
	t.Helper()
	user, err := repo.Create(context.Background(), nil, &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Name:     "Test User",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestEmotionRepoScopedToUser(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	userRepo := NewUserRepo(db, log)
	repo := NewEmotionRepo(db, log)

	alice := seedUser(t, userRepo, "alice@example.com")
	bob := seedUser(t, userRepo, "bob@example.com")

	mine, err := repo.Create(ctx, nil, &types.EmotionRecord{
		ID:          uuid.New(),
		UserID:      alice.ID,
		Text:        "long day but a good walk",
		EmotionType: types.EmotionJoy,
		Intensity:   6,
		Source:      types.EmotionSourceText,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, nil, &types.EmotionRecord{
		ID:          uuid.New(),
		UserID:      bob.ID,
		Text:        "missed the train again",
		EmotionType: types.EmotionAnger,
		Intensity:   4,
		Source:      types.EmotionSourceText,
	}); err != nil {
		t.Fatalf("Create (bob): %v", err)
	}

	got, err := repo.GetByID(ctx, nil, alice.ID, mine.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Text != mine.Text {
		t.Fatalf("GetByID: unexpected record: %+v", got)
	}

	// Another user must not be able to read the record by its id.
	if _, err := repo.GetByID(ctx, nil, bob.ID, mine.ID); err == nil {
		t.Fatalf("GetByID: expected error for foreign record")
	}

	listed, err := repo.ListByUser(ctx, nil, alice.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != mine.ID {
		t.Fatalf("ListByUser: unexpected result: %+v", listed)
	}

	count, err := repo.CountByUser(ctx, nil, alice.ID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountByUser: expected 1, got %d", count)
	}

	since, err := repo.ListByUserSince(ctx, nil, alice.ID, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListByUserSince: %v", err)
	}
	if len(since) != 1 {
		t.Fatalf("ListByUserSince: expected 1 record, got %d", len(since))
	}

	// Deleting with the wrong user id must be a no-op.
	affected, err := repo.Delete(ctx, nil, bob.ID, mine.ID)
	if err != nil {
		t.Fatalf("Delete (foreign): %v", err)
	}
	if affected != 0 {
		t.Fatalf("Delete (foreign): expected 0 rows, got %d", affected)
	}

	affected, err = repo.Delete(ctx, nil, alice.ID, mine.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("Delete: expected 1 row, got %d", affected)
	}
}

func TestEmotionRepoListRecentOrder(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	userRepo := NewUserRepo(db, log)
	repo := NewEmotionRepo(db, log)
	user := seedUser(t, userRepo, "recent@example.com")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		rec := &types.EmotionRecord{
			ID:          uuid.New(),
			UserID:      user.ID,
			Text:        "entry",
			EmotionType: types.EmotionTrust,
			Intensity:   i + 1,
			Source:      types.EmotionSourceText,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := repo.Create(ctx, nil, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	recent, err := repo.ListRecent(ctx, nil, user.ID, 1)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 1 || recent[0].Intensity != 3 {
		t.Fatalf("ListRecent: expected newest record, got %+v", recent)
	}
}

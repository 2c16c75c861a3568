package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/repos/testutil"
	"github.com/yungbote/moodcare-backend/internal/types"
)

func newStoryService(t *testing.T, ai *stubAI) (StoryService, uuid.UUID) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	user, err := repos.NewUserRepo(db, log).Create(context.Background(), nil, &types.User{
		ID:       uuid.New(),
		Email:    "stories@example.com",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	var svc StoryService
	if ai == nil {
		svc = NewStoryService(db, log, repos.NewStoryRepo(db, log), repos.NewEmotionRepo(db, log), nil, nil)
	} else {
		svc = NewStoryService(db, log, repos.NewStoryRepo(db, log), repos.NewEmotionRepo(db, log), ai, nil)
	}
	return svc, user.ID
}

func TestGenerateFallsBackWithoutAI(t *testing.T) {
	svc, userID := newStoryService(t, nil)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, userID, "horror"); !errors.Is(err, ErrValidation) {
		t.Fatalf("Generate: expected validation error for unknown type, got %v", err)
	}

	story, err := svc.Generate(ctx, userID, types.StoryHealing)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !story.IsFallback {
		t.Fatalf("Generate: expected fallback story without AI")
	}
	if story.Title == "" || story.Content == "" {
		t.Fatalf("Generate: fallback story incomplete: %+v", story)
	}
	if story.IsCompleted {
		t.Fatalf("Generate: new story must not start completed")
	}
}

func TestGenerateFallsBackOnBadAIResponse(t *testing.T) {
	svc, userID := newStoryService(t, &stubAI{response: map[string]any{"title": "   ", "content": ""}})

	story, err := svc.Generate(context.Background(), userID, types.StoryAdventure)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !story.IsFallback {
		t.Fatalf("Generate: incomplete AI JSON should fall back")
	}
}

func TestGenerateUsesAIStory(t *testing.T) {
	ai := &stubAI{response: map[string]any{
		"title":   "The Patient River",
		"content": "The river knew the way, even when you did not.",
		"choices": []any{"Follow the current", "Rest on the bank"},
	}}
	svc, userID := newStoryService(t, ai)

	story, err := svc.Generate(context.Background(), userID, types.StoryMeditation)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if story.IsFallback {
		t.Fatalf("Generate: should not fall back on a good response")
	}
	if story.Title != "The Patient River" {
		t.Fatalf("Generate: unexpected title %q", story.Title)
	}
}

func TestContinueValidatesChoiceAndCompletes(t *testing.T) {
	svc, userID := newStoryService(t, nil)
	ctx := context.Background()

	story, err := svc.Generate(ctx, userID, types.StoryFantasy)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := svc.Continue(ctx, userID, story.ID, "do something impossible"); !errors.Is(err, ErrValidation) {
		t.Fatalf("Continue: expected validation error for unknown choice, got %v", err)
	}
	if _, err := svc.Continue(ctx, uuid.New(), story.ID, "anything"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Continue: expected not found for foreign user, got %v", err)
	}

	// The fallback continuation closes the story.
	fb := fallbackStoryFor(types.StoryFantasy)
	continued, err := svc.Continue(ctx, userID, story.ID, fb.Choices[0])
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if !continued.IsCompleted {
		t.Fatalf("Continue: fallback continuation should complete the story")
	}
	if len(continued.Content) <= len(story.Content) {
		t.Fatalf("Continue: content not appended")
	}

	if _, err := svc.Continue(ctx, userID, story.ID, fb.Choices[0]); !errors.Is(err, ErrValidation) {
		t.Fatalf("Continue: expected validation error on completed story, got %v", err)
	}
}

func TestRateAndProgress(t *testing.T) {
	svc, userID := newStoryService(t, nil)
	ctx := context.Background()

	story, err := svc.Generate(ctx, userID, types.StoryPersonal)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Generate(ctx, userID, types.StoryHealing); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := svc.Rate(ctx, userID, story.ID, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("Rate: expected validation error for 0, got %v", err)
	}
	rated, err := svc.Rate(ctx, userID, story.ID, 5)
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if rated.Rating == nil || *rated.Rating != 5 {
		t.Fatalf("Rate: rating not stored: %+v", rated)
	}

	progress, err := svc.Progress(ctx, userID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.Total != 2 || progress.InProgress != 2 || progress.Completed != 0 {
		t.Fatalf("Progress: unexpected counts: %+v", progress)
	}
	if progress.ByType["personal"] != 1 || progress.ByType["healing"] != 1 {
		t.Fatalf("Progress: unexpected by-type counts: %v", progress.ByType)
	}
}

func TestLibraryIsStable(t *testing.T) {
	lib := StoryLibrary()
	if len(lib) != 5 {
		t.Fatalf("StoryLibrary: expected 5 stories, got %d", len(lib))
	}
	for i, fb := range StoryLibrary() {
		if lib[i].StoryType != fb.StoryType {
			t.Fatalf("StoryLibrary: order not stable at %d", i)
		}
	}
}

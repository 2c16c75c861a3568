package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/platform/openai"
	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/types"
)

const storyContextRecords = 5

type StoryProgress struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	InProgress int            `json:"in_progress"`
	ByType     map[string]int `json:"by_type"`
}

type StoryService interface {
	Generate(ctx context.Context, userID uuid.UUID, storyType types.StoryType) (*types.Story, error)
	Continue(ctx context.Context, userID, storyID uuid.UUID, choice string) (*types.Story, error)
	Get(ctx context.Context, userID, storyID uuid.UUID) (*types.Story, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Story, error)
	Delete(ctx context.Context, userID, storyID uuid.UUID) error
	Rate(ctx context.Context, userID, storyID uuid.UUID, rating int) (*types.Story, error)
	Library() []FallbackStory
	Progress(ctx context.Context, userID uuid.UUID) (*StoryProgress, error)
}

type storyService struct {
	db          *gorm.DB
	log         *logger.Logger
	storyRepo   repos.StoryRepo
	emotionRepo repos.EmotionRepo
	ai          openai.Client
	notifier    NotificationService
}

func NewStoryService(
	db *gorm.DB,
	log *logger.Logger,
	storyRepo repos.StoryRepo,
	emotionRepo repos.EmotionRepo,
	ai openai.Client,
	notifier NotificationService,
) StoryService {
	serviceLog := log.With("service", "StoryService")
	return &storyService{
		db:          db,
		log:         serviceLog,
		storyRepo:   storyRepo,
		emotionRepo: emotionRepo,
		ai:          ai,
		notifier:    notifier,
	}
}

const storySystemPrompt = `You are a therapeutic storyteller for a mood journal app.
Write a short interactive story tailored to the reader's recent emotional state.
Respond with strict JSON: {"title": string, "content": 2-4 paragraphs, "choices": [2-3 short continuation options]}.`

// Generate builds a story from the user's recent emotions. Any failure
// on the AI path falls back to the built-in story for the type; the
// caller never sees the AI error.
func (ss *storyService) Generate(ctx context.Context, userID uuid.UUID, storyType types.StoryType) (*types.Story, error) {
	if !types.ValidStoryType(storyType) {
		return nil, fmt.Errorf("%w: unknown story type %q", ErrValidation, storyType)
	}

	recent, err := ss.emotionRepo.ListRecent(ctx, nil, userID, storyContextRecords)
	if err != nil {
		return nil, fmt.Errorf("load emotion context: %w", err)
	}
	emotionContext := buildEmotionContext(recent)

	title, content, choices, isFallback := ss.generateContent(ctx, storyType, emotionContext)

	contextRaw, _ := json.Marshal(emotionContext)
	choicesRaw, _ := json.Marshal(choices)
	story := &types.Story{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          title,
		Content:        content,
		StoryType:      storyType,
		EmotionContext: datatypes.JSON(contextRaw),
		Choices:        datatypes.JSON(choicesRaw),
		IsFallback:     isFallback,
	}
	if _, err := ss.storyRepo.Create(ctx, nil, story); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}

	if ss.notifier != nil {
		if nErr := ss.notifier.Send(ctx, userID, types.NotifyStoryReady,
			"Your story is ready",
			title,
			map[string]string{"story_id": story.ID.String()},
		); nErr != nil {
			ss.log.Warn("story ready notification failed", "error", nErr, "story_id", story.ID)
		}
	}
	return story, nil
}

func (ss *storyService) generateContent(ctx context.Context, storyType types.StoryType, emotionContext []map[string]any) (string, string, []string, bool) {
	if ss.ai == nil {
		fb := fallbackStoryFor(storyType)
		return fb.Title, fb.Content, fb.Choices, true
	}

	contextRaw, _ := json.Marshal(emotionContext)
	user := fmt.Sprintf("Story type: %s\nRecent emotions (newest first): %s", storyType, string(contextRaw))
	raw, err := ss.ai.ChatJSON(ctx, storySystemPrompt, user)
	if err != nil {
		ss.log.Warn("story generation failed, using fallback", "error", err, "story_type", storyType)
		fb := fallbackStoryFor(storyType)
		return fb.Title, fb.Content, fb.Choices, true
	}

	title, _ := raw["title"].(string)
	content, _ := raw["content"].(string)
	choices := stringSlice(raw["choices"])
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		ss.log.Warn("story generation returned incomplete JSON, using fallback", "story_type", storyType)
		fb := fallbackStoryFor(storyType)
		return fb.Title, fb.Content, fb.Choices, true
	}
	return strings.TrimSpace(title), strings.TrimSpace(content), choices, false
}

const continueSystemPrompt = `You are continuing an interactive therapeutic story.
Given the story so far and the reader's chosen option, respond with strict JSON:
{"content": 1-3 new paragraphs continuing the story, "choices": [0-3 short options, empty array if the story should end]}.`

// Continue appends the next chapter. The chosen option must be one of
// the stored choices; an empty next-choices list completes the story.
func (ss *storyService) Continue(ctx context.Context, userID, storyID uuid.UUID, choice string) (*types.Story, error) {
	story, err := ss.Get(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}
	if story.IsCompleted {
		return nil, fmt.Errorf("%w: story is already completed", ErrValidation)
	}

	var available []string
	if len(story.Choices) > 0 {
		if err := json.Unmarshal(story.Choices, &available); err != nil {
			return nil, fmt.Errorf("decode story choices: %w", err)
		}
	}
	choice = strings.TrimSpace(choice)
	if !containsString(available, choice) {
		return nil, fmt.Errorf("%w: choice is not one of the story's options", ErrValidation)
	}

	addition, nextChoices := ss.continueContent(ctx, story, choice)

	story.Content = story.Content + "\n\n" + addition
	choicesRaw, _ := json.Marshal(nextChoices)
	story.Choices = datatypes.JSON(choicesRaw)
	if len(nextChoices) == 0 {
		story.IsCompleted = true
	}
	if err := ss.storyRepo.Update(ctx, nil, story); err != nil {
		return nil, fmt.Errorf("update story: %w", err)
	}
	return story, nil
}

func (ss *storyService) continueContent(ctx context.Context, story *types.Story, choice string) (string, []string) {
	if ss.ai == nil {
		return fallbackClosing, []string{}
	}

	user := fmt.Sprintf("Story so far:\n%s\n\nChosen option: %s", story.Content, choice)
	raw, err := ss.ai.ChatJSON(ctx, continueSystemPrompt, user)
	if err != nil {
		ss.log.Warn("story continuation failed, closing with fallback", "error", err, "story_id", story.ID)
		return fallbackClosing, []string{}
	}
	content, _ := raw["content"].(string)
	if strings.TrimSpace(content) == "" {
		return fallbackClosing, []string{}
	}
	return strings.TrimSpace(content), stringSlice(raw["choices"])
}

func (ss *storyService) Get(ctx context.Context, userID, storyID uuid.UUID) (*types.Story, error) {
	story, err := ss.storyRepo.GetByID(ctx, nil, userID, storyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return story, nil
}

func (ss *storyService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Story, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return ss.storyRepo.ListByUser(ctx, nil, userID, limit, offset)
}

func (ss *storyService) Delete(ctx context.Context, userID, storyID uuid.UUID) error {
	affected, err := ss.storyRepo.Delete(ctx, nil, userID, storyID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (ss *storyService) Rate(ctx context.Context, userID, storyID uuid.UUID, rating int) (*types.Story, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	story, err := ss.Get(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}
	story.Rating = &rating
	if err := ss.storyRepo.Update(ctx, nil, story); err != nil {
		return nil, err
	}
	return story, nil
}

func (ss *storyService) Library() []FallbackStory {
	return StoryLibrary()
}

func (ss *storyService) Progress(ctx context.Context, userID uuid.UUID) (*StoryProgress, error) {
	stories, err := ss.storyRepo.ListAllByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	out := &StoryProgress{ByType: map[string]int{}}
	for _, s := range stories {
		out.Total++
		if s.IsCompleted {
			out.Completed++
		} else {
			out.InProgress++
		}
		out.ByType[string(s.StoryType)]++
	}
	return out, nil
}

func buildEmotionContext(recs []*types.EmotionRecord) []map[string]any {
	out := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		out = append(out, map[string]any{
			"emotion_type": r.EmotionType,
			"intensity":    r.Intensity,
			"text":         r.Text,
		})
	}
	return out
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

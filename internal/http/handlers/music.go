package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/http/response"
	"github.com/yungbote/moodcare-backend/internal/services"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type MusicHandler struct {
	musicService services.MusicService
}

func NewMusicHandler(musicService services.MusicService) *MusicHandler {
	return &MusicHandler{musicService: musicService}
}

func (mh *MusicHandler) Recommend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		RecType string `json:"rec_type"`
		Emotion string `json:"emotion"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	rec, err := mh.musicService.Recommend(c.Request.Context(), userID, services.MusicRecommendInput{
		RecType: types.RecommendationType(req.RecType),
		Emotion: types.EmotionType(req.Emotion),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, rec)
}

func (mh *MusicHandler) ListRecommendations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	recs, err := mh.musicService.ListRecommendations(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": recs})
}

func (mh *MusicHandler) Feedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid recommendation id"))
		return
	}
	var req struct {
		Feedback   string `json:"feedback"`
		TrackIndex *int   `json:"track_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	rec, err := mh.musicService.Feedback(c.Request.Context(), userID, recID, services.MusicFeedbackInput{
		Feedback:   req.Feedback,
		TrackIndex: req.TrackIndex,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

func (mh *MusicHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profile, err := mh.musicService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

func (mh *MusicHandler) AddDiaryEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Track           types.Track `json:"track"`
		EmotionBefore   string      `json:"emotion_before"`
		EmotionAfter    string      `json:"emotion_after"`
		IntensityBefore int         `json:"intensity_before"`
		IntensityAfter  int         `json:"intensity_after"`
		Note            string      `json:"note"`
		ListenedAt      *time.Time  `json:"listened_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	entry, err := mh.musicService.AddDiaryEntry(c.Request.Context(), userID, services.DiaryEntryInput{
		Track:           req.Track,
		EmotionBefore:   types.EmotionType(req.EmotionBefore),
		EmotionAfter:    types.EmotionType(req.EmotionAfter),
		IntensityBefore: req.IntensityBefore,
		IntensityAfter:  req.IntensityAfter,
		Note:            req.Note,
		ListenedAt:      req.ListenedAt,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

func (mh *MusicHandler) ListDiary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	entries, err := mh.musicService.ListDiary(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

func (mh *MusicHandler) Analytics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	days := 30
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 365 {
			response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("days must be between 1 and 365"))
			return
		}
		days = parsed
	}
	analytics, err := mh.musicService.Analytics(c.Request.Context(), userID, time.Duration(days)*24*time.Hour)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, analytics)
}

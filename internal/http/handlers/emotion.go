package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/http/response"
	"github.com/yungbote/moodcare-backend/internal/services"
)

// voice notes larger than this are rejected before transcription
const maxVoiceNoteBytes = 10 << 20

type EmotionHandler struct {
	emotionService services.EmotionService
}

func NewEmotionHandler(emotionService services.EmotionService) *EmotionHandler {
	return &EmotionHandler{emotionService: emotionService}
}

func (eh *EmotionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Text      string `json:"text"`
		Intensity *int   `json:"intensity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	rec, err := eh.emotionService.Create(c.Request.Context(), userID, services.EmotionCreate{
		Text:      req.Text,
		Intensity: req.Intensity,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, rec)
}

func (eh *EmotionHandler) CreateFromVoice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("audio file is required"))
		return
	}
	if fileHeader.Size > maxVoiceNoteBytes {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("audio file too large"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	defer file.Close()
	audio, err := io.ReadAll(io.LimitReader(file, maxVoiceNoteBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	mimeType := fileHeader.Header.Get("Content-Type")

	rec, err := eh.emotionService.CreateFromVoice(c.Request.Context(), userID, audio, mimeType)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, rec)
}

func (eh *EmotionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	recs, total, err := eh.emotionService.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"records": recs, "total": total})
}

func (eh *EmotionHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid record id"))
		return
	}
	rec, err := eh.emotionService.Get(c.Request.Context(), userID, recID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

func (eh *EmotionHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid record id"))
		return
	}
	var req struct {
		Text *string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	rec, err := eh.emotionService.Update(c.Request.Context(), userID, recID, services.EmotionUpdate{Text: req.Text})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

func (eh *EmotionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid record id"))
		return
	}
	if err := eh.emotionService.Delete(c.Request.Context(), userID, recID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (eh *EmotionHandler) Statistics(c *gin.Context) {
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
	stats, err := eh.emotionService.Statistics(c.Request.Context(), userID, time.Duration(days)*24*time.Hour)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

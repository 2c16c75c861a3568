package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/moodcare-backend/internal/http/response"
	"github.com/yungbote/moodcare-backend/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (nh *NotificationHandler) RegisterDevice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	device, err := nh.notificationService.RegisterDevice(c.Request.Context(), userID, req.Token, req.Platform)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, device)
}

func (nh *NotificationHandler) UnregisterDevice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := nh.notificationService.UnregisterDevice(c.Request.Context(), userID, req.Token); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (nh *NotificationHandler) GetPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	pref, err := nh.notificationService.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, pref)
}

func (nh *NotificationHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Enabled         *bool   `json:"enabled"`
		DailyReminder   *bool   `json:"daily_reminder"`
		StoryReady      *bool   `json:"story_ready"`
		MusicReady      *bool   `json:"music_ready"`
		EmotionAlert    *bool   `json:"emotion_alert"`
		QuietHoursStart *string `json:"quiet_hours_start"`
		QuietHoursEnd   *string `json:"quiet_hours_end"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	pref, err := nh.notificationService.UpdatePreferences(c.Request.Context(), userID, services.PreferenceUpdate{
		Enabled:         req.Enabled,
		DailyReminder:   req.DailyReminder,
		StoryReady:      req.StoryReady,
		MusicReady:      req.MusicReady,
		EmotionAlert:    req.EmotionAlert,
		QuietHoursStart: req.QuietHoursStart,
		QuietHoursEnd:   req.QuietHoursEnd,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, pref)
}

func (nh *NotificationHandler) ListLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	logs, err := nh.notificationService.ListLogs(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": logs})
}

func (nh *NotificationHandler) SendTest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := nh.notificationService.SendTest(c.Request.Context(), userID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

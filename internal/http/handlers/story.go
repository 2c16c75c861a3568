package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/http/response"
	"github.com/yungbote/moodcare-backend/internal/services"
	"github.com/yungbote/moodcare-backend/internal/types"
)

type StoryHandler struct {
	storyService services.StoryService
}

func NewStoryHandler(storyService services.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

func (sh *StoryHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		StoryType string `json:"story_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	story, err := sh.storyService.Generate(c.Request.Context(), userID, types.StoryType(req.StoryType))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, story)
}

func (sh *StoryHandler) Continue(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid story id"))
		return
	}
	var req struct {
		Choice string `json:"choice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	story, err := sh.storyService.Continue(c.Request.Context(), userID, storyID, req.Choice)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, story)
}

func (sh *StoryHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid story id"))
		return
	}
	story, err := sh.storyService.Get(c.Request.Context(), userID, storyID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, story)
}

func (sh *StoryHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	stories, err := sh.storyService.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stories": stories})
}

func (sh *StoryHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid story id"))
		return
	}
	if err := sh.storyService.Delete(c.Request.Context(), userID, storyID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (sh *StoryHandler) Rate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid story id"))
		return
	}
	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	story, err := sh.storyService.Rate(c.Request.Context(), userID, storyID, req.Rating)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, story)
}

func (sh *StoryHandler) Library(c *gin.Context) {
	response.RespondOK(c, gin.H{"stories": sh.storyService.Library()})
}

func (sh *StoryHandler) Progress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	progress, err := sh.storyService.Progress(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, progress)
}

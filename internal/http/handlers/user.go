package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/http/response"
	"github.com/yungbote/moodcare-backend/internal/pkg/ctxutil"
	"github.com/yungbote/moodcare-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// currentUserID assumes the auth middleware already ran; a nil user id
// here means the route is misconfigured.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
		})
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := uh.userService.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (uh *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	user, err := uh.userService.UpdateMe(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, user)
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yungbote/moodcare-backend/internal/http/response"
	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/realtime"
)

// RealtimeHandler upgrades authenticated requests to WebSocket sessions.
// Cross-instance fan-out happens through the publish function when a bus
// is configured; otherwise messages stay on the local hub.
type RealtimeHandler struct {
	hub     *realtime.Hub
	log     *logger.Logger
	publish func(realtime.Message)

	upgrader websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub, log *logger.Logger, publish func(realtime.Message)) *RealtimeHandler {
	return &RealtimeHandler{
		hub:     hub,
		log:     log.With("handler", "RealtimeHandler"),
		publish: publish,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser origins are already filtered by CORS on the
			// upgrade request; token auth gates the rest.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (rh *RealtimeHandler) upgrade(c *gin.Context) (*websocket.Conn, *realtime.Client, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, nil, false
	}
	conn, err := rh.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		rh.log.Warn("websocket upgrade failed", "error", err)
		return nil, nil, false
	}
	return conn, rh.hub.NewClient(userID), true
}

func (rh *RealtimeHandler) ChatWS(c *gin.Context) {
	room := strings.TrimSpace(c.Param("room"))
	if room == "" {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("room is required"))
		return
	}
	conn, client, ok := rh.upgrade(c)
	if !ok {
		return
	}
	realtime.NewChatSession(rh.hub, rh.log, client, conn, rh.publish, room).Run(c.Request.Context())
}

func (rh *RealtimeHandler) EmotionWS(c *gin.Context) {
	conn, client, ok := rh.upgrade(c)
	if !ok {
		return
	}
	realtime.NewEmotionSession(rh.hub, rh.log, client, conn, rh.publish).Run(c.Request.Context())
}

func (rh *RealtimeHandler) MusicWS(c *gin.Context) {
	conn, client, ok := rh.upgrade(c)
	if !ok {
		return
	}
	realtime.NewMusicSession(rh.hub, rh.log, client, conn, rh.publish).Run(c.Request.Context())
}

func (rh *RealtimeHandler) NotificationWS(c *gin.Context) {
	conn, client, ok := rh.upgrade(c)
	if !ok {
		return
	}
	realtime.NewNotificationSession(rh.hub, rh.log, client, conn, rh.publish).Run(c.Request.Context())
}

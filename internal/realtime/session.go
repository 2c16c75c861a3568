package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 16 * 1024
)

// Frame is the client-to-server envelope; the action picks the handler.
type Frame struct {
	Action string         `json:"action"`
	Data   map[string]any `json:"data,omitempty"`
}

type actionFunc func(s *Session, data map[string]any)

// Session is the shared connection lifecycle every endpoint composes:
// join groups, pump the hub outbound into the socket, dispatch inbound
// frames through the action table, and tear everything down exactly once.
type Session struct {
	hub     *Hub
	log     *logger.Logger
	client  *Client
	conn    *websocket.Conn
	groups  []string
	actions map[string]actionFunc
	publish func(Message)
}

func newSession(hub *Hub, log *logger.Logger, client *Client, conn *websocket.Conn, publish func(Message), groups []string, actions map[string]actionFunc) *Session {
	if publish == nil {
		publish = hub.Broadcast
	}
	return &Session{
		hub:     hub,
		log:     log,
		client:  client,
		conn:    conn,
		groups:  groups,
		actions: actions,
		publish: publish,
	}
}

func (s *Session) Client() *Client {
	return s.client
}

// Run blocks until the connection closes or ctx is done.
func (s *Session) Run(ctx context.Context) {
	for _, g := range s.groups {
		s.hub.JoinGroup(s.client, g)
	}
	defer func() {
		s.hub.CloseClient(s.client)
		_ = s.conn.Close()
	}()

	go s.writePump(ctx)
	s.readPump(ctx)
}

func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.client.Done():
			return
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = s.conn.Close()
				return
			}
		case msg, ok := <-s.client.Outbound:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(msg); err != nil {
				s.log.Debug("websocket write failed", "clientID", s.client.ID, "error", err)
				_ = s.conn.Close()
				return
			}
		}
	}
}

func (s *Session) readPump(ctx context.Context) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket closed unexpectedly", "clientID", s.client.ID, "error", err)
			}
			return
		}
		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.sendError("malformed frame")
			continue
		}
		handler, ok := s.actions[frame.Action]
		if !ok {
			s.sendError("unknown action: " + frame.Action)
			continue
		}
		handler(s, frame.Data)
	}
}

// sendError delivers an error frame to this client only; the session
// stays open.
func (s *Session) sendError(reason string) {
	s.hub.Send(s.client, Message{
		Group: "",
		Event: EventError,
		Data:  map[string]any{"message": reason},
	})
}

package realtime

import (
	"github.com/gorilla/websocket"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
)

// NewChatSession joins a single chat room. Rooms are isolated from each
// other; the room name is part of the group key.
func NewChatSession(hub *Hub, log *logger.Logger, client *Client, conn *websocket.Conn, publish func(Message), room string) *Session {
	group := ChatGroup(room)
	actions := map[string]actionFunc{
		"message": func(s *Session, data map[string]any) {
			s.publish(Message{
				Group: group,
				Event: EventChatMessage,
				Data: map[string]any{
					"user_id": s.client.UserID.String(),
					"room":    room,
					"message": data["message"],
				},
			})
		},
		"typing": func(s *Session, data map[string]any) {
			s.publish(Message{
				Group: group,
				Event: EventChatTyping,
				Data: map[string]any{
					"user_id": s.client.UserID.String(),
					"room":    room,
				},
			})
		},
	}
	return newSession(hub, log, client, conn, publish, []string{group}, actions)
}

// NewEmotionSession joins the shared emotion feed.
func NewEmotionSession(hub *Hub, log *logger.Logger, client *Client, conn *websocket.Conn, publish func(Message)) *Session {
	actions := map[string]actionFunc{
		"share": func(s *Session, data map[string]any) {
			s.publish(Message{
				Group: GroupEmotionSharing,
				Event: EventEmotionShared,
				Data: map[string]any{
					"user_id":      s.client.UserID.String(),
					"emotion_type": data["emotion_type"],
					"intensity":    data["intensity"],
					"message":      data["message"],
				},
			})
		},
		"support": func(s *Session, data map[string]any) {
			s.publish(Message{
				Group: GroupEmotionSharing,
				Event: EventEmotionSupport,
				Data: map[string]any{
					"user_id":   s.client.UserID.String(),
					"target_id": data["target_id"],
					"message":   data["message"],
				},
			})
		},
	}
	return newSession(hub, log, client, conn, publish, []string{GroupEmotionSharing}, actions)
}

// NewMusicSession joins the shared music feed.
func NewMusicSession(hub *Hub, log *logger.Logger, client *Client, conn *websocket.Conn, publish func(Message)) *Session {
	actions := map[string]actionFunc{
		"share": func(s *Session, data map[string]any) {
			s.publish(Message{
				Group: GroupMusicSharing,
				Event: EventMusicShared,
				Data: map[string]any{
					"user_id": s.client.UserID.String(),
					"track":   data["track"],
					"emotion": data["emotion"],
					"message": data["message"],
				},
			})
		},
		"react": func(s *Session, data map[string]any) {
			s.publish(Message{
				Group: GroupMusicSharing,
				Event: EventMusicReaction,
				Data: map[string]any{
					"user_id":   s.client.UserID.String(),
					"target_id": data["target_id"],
					"reaction":  data["reaction"],
				},
			})
		},
	}
	return newSession(hub, log, client, conn, publish, []string{GroupMusicSharing}, actions)
}

// NewNotificationSession joins the caller's private notification group.
// Server push only; the client may ack, which is accepted and dropped.
func NewNotificationSession(hub *Hub, log *logger.Logger, client *Client, conn *websocket.Conn, publish func(Message)) *Session {
	group := NotificationGroup(client.UserID.String())
	actions := map[string]actionFunc{
		"ack": func(s *Session, data map[string]any) {},
	}
	return newSession(hub, log, client, conn, publish, []string{group}, actions)
}

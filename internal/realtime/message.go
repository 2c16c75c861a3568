package realtime

import "time"

type Event string

const (
	EventChatMessage      Event = "chat.message"
	EventChatTyping       Event = "chat.typing"
	EventEmotionShared    Event = "emotion.shared"
	EventEmotionSupport   Event = "emotion.support"
	EventEmotionCreated   Event = "emotion.created"
	EventMusicShared      Event = "music.shared"
	EventMusicReaction    Event = "music.reaction"
	EventMusicRecommended Event = "music.recommended"
	EventNotification     Event = "notification"
	EventError            Event = "error"
)

// Message is the frame delivered to clients and carried across the Redis
// bus. TS is always stamped server-side.
type Message struct {
	Group string    `json:"group"`
	Event Event     `json:"event"`
	Data  any       `json:"data,omitempty"`
	TS    time.Time `json:"ts"`
}

// Group names. Chat rooms get their own group per room name.
const (
	GroupEmotionSharing = "emotion_sharing"
	GroupMusicSharing   = "music_sharing"
)

func ChatGroup(room string) string {
	return "chat_" + room
}

func NotificationGroup(userID string) string {
	return "notifications_" + userID
}

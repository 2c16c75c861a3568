package realtime

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/repos/testutil"
)

func TestHubBroadcastReachesGroupMembersOnly(t *testing.T) {
	hub := NewHub(testutil.Logger(t))

	member := hub.NewClient(uuid.New())
	other := hub.NewClient(uuid.New())
	hub.JoinGroup(member, GroupEmotionSharing)
	hub.JoinGroup(other, GroupMusicSharing)

	hub.Broadcast(Message{Group: GroupEmotionSharing, Event: EventEmotionShared, Data: "hi"})

	select {
	case msg := <-member.Outbound:
		if msg.Event != EventEmotionShared {
			t.Fatalf("Broadcast: unexpected event %q", msg.Event)
		}
		if msg.TS.IsZero() {
			t.Fatalf("Broadcast: timestamp not stamped")
		}
	default:
		t.Fatalf("Broadcast: member received nothing")
	}

	select {
	case msg := <-other.Outbound:
		t.Fatalf("Broadcast: leaked to another group: %+v", msg)
	default:
	}
}

func TestHubBroadcastEmptyOrUnknownGroup(t *testing.T) {
	hub := NewHub(testutil.Logger(t))
	// Neither call may panic or block.
	hub.Broadcast(Message{Group: "", Event: EventChatMessage})
	hub.Broadcast(Message{Group: "nobody_here", Event: EventChatMessage})
}

func TestHubLeaveGroupStopsDelivery(t *testing.T) {
	hub := NewHub(testutil.Logger(t))
	client := hub.NewClient(uuid.New())

	room := ChatGroup("lobby")
	hub.JoinGroup(client, room)
	if hub.GroupSize(room) != 1 {
		t.Fatalf("JoinGroup: expected group size 1, got %d", hub.GroupSize(room))
	}

	hub.LeaveGroup(client, room)
	if hub.GroupSize(room) != 0 {
		t.Fatalf("LeaveGroup: expected empty group, got %d", hub.GroupSize(room))
	}

	hub.Broadcast(Message{Group: room, Event: EventChatMessage})
	select {
	case msg := <-client.Outbound:
		t.Fatalf("Broadcast: delivered after leave: %+v", msg)
	default:
	}
}

func TestHubBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(testutil.Logger(t))
	client := hub.NewClient(uuid.New())
	hub.JoinGroup(client, GroupMusicSharing)

	// Nothing reads Outbound, so the buffer fills and later messages drop
	// instead of blocking the broadcaster.
	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(Message{Group: GroupMusicSharing, Event: EventMusicShared, Data: i})
	}
	if got := len(client.Outbound); got != outboundBuffer {
		t.Fatalf("Broadcast: expected full buffer of %d, got %d", outboundBuffer, got)
	}
}

func TestHubCloseClientIdempotent(t *testing.T) {
	hub := NewHub(testutil.Logger(t))
	client := hub.NewClient(uuid.New())
	hub.JoinGroup(client, GroupEmotionSharing)
	hub.JoinGroup(client, ChatGroup("lobby"))

	hub.CloseClient(client)
	hub.CloseClient(client) // second close must be a no-op

	select {
	case <-client.Done():
	default:
		t.Fatalf("CloseClient: done channel not closed")
	}
	if hub.GroupSize(GroupEmotionSharing) != 0 || hub.GroupSize(ChatGroup("lobby")) != 0 {
		t.Fatalf("CloseClient: client not removed from groups")
	}
	if _, open := <-client.Outbound; open {
		t.Fatalf("CloseClient: outbound channel still open")
	}
}

func TestNotificationGroupName(t *testing.T) {
	id := uuid.New()
	if got := NotificationGroup(id.String()); got != "notifications_"+id.String() {
		t.Fatalf("NotificationGroup: unexpected name %q", got)
	}
	if ChatGroup("lobby") != "chat_lobby" {
		t.Fatalf("ChatGroup: unexpected name %q", ChatGroup("lobby"))
	}
}

package realtime

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
)

const outboundBuffer = 32

type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Groups   map[string]bool
	Outbound chan Message
	done     chan struct{}
}

func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Hub is the in-process fan-out: group name to subscribed clients.
// Broadcast never blocks; a client with a full outbound buffer loses
// that message.
type Hub struct {
	mu      sync.RWMutex
	logger  *logger.Logger
	groups  map[string]map[*Client]bool
	dropped atomic.Uint64
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log.With("component", "RealtimeHub"),
		groups: make(map[string]map[*Client]bool),
	}
}

func (hub *Hub) NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Groups:   make(map[string]bool),
		Outbound: make(chan Message, outboundBuffer),
		done:     make(chan struct{}),
	}
}

func (hub *Hub) JoinGroup(client *Client, group string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	group = strings.TrimSpace(group)
	if group == "" {
		return
	}

	client.Groups[group] = true

	clients, exists := hub.groups[group]
	if !exists {
		clients = make(map[*Client]bool)
		hub.groups[group] = clients
	}
	clients[client] = true

	hub.logger.Debug("client joined group", "clientID", client.ID, "group", group)
}

func (hub *Hub) LeaveGroup(client *Client, group string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	group = strings.TrimSpace(group)
	if group == "" {
		return
	}
	delete(client.Groups, group)

	if members, ok := hub.groups[group]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(hub.groups, group)
		}
	}
	hub.logger.Debug("client left group", "clientID", client.ID, "group", group)
}

func (hub *Hub) RemoveClient(client *Client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for g := range client.Groups {
		if members, ok := hub.groups[g]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(hub.groups, g)
			}
		}
	}
	client.Groups = make(map[string]bool)
	hub.logger.Debug("client removed from all groups", "clientID", client.ID)
}

// Broadcast stamps the message with the server time when unset and
// delivers it to every member of its group.
func (hub *Hub) Broadcast(msg Message) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if msg.Group == "" {
		return
	}
	if msg.TS.IsZero() {
		msg.TS = time.Now().UTC()
	}
	members, ok := hub.groups[msg.Group]
	if !ok {
		return
	}
	for c := range members {
		select {
		case c.Outbound <- msg:
		default:
			hub.dropped.Add(1)
			hub.logger.Warn("dropping realtime message; outbound buffer full", "clientID", c.ID, "group", msg.Group)
		}
	}
}

// Send delivers a frame to a single client, bypassing group membership.
// Used for per-client error frames.
func (hub *Hub) Send(client *Client, msg Message) {
	if msg.TS.IsZero() {
		msg.TS = time.Now().UTC()
	}
	select {
	case client.Outbound <- msg:
	default:
		hub.dropped.Add(1)
		hub.logger.Warn("dropping direct realtime message; outbound buffer full", "clientID", client.ID)
	}
}

// CloseClient is idempotent: the first call wins, later calls return.
func (hub *Hub) CloseClient(client *Client) {
	hub.mu.Lock()
	select {
	case <-client.done:
		hub.mu.Unlock()
		return
	default:
	}
	close(client.done)
	for g := range client.Groups {
		if members, ok := hub.groups[g]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(hub.groups, g)
			}
		}
	}
	client.Groups = make(map[string]bool)
	close(client.Outbound)
	hub.mu.Unlock()
}

func (hub *Hub) GroupSize(group string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.groups[group])
}

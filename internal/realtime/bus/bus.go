package bus

import (
	"context"

	"github.com/yungbote/moodcare-backend/internal/realtime"
)

// Bus fans realtime messages out across instances. A single instance can
// run without one; the hub then broadcasts locally only.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}

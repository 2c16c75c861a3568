package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/platform/fcm"
	"github.com/yungbote/moodcare-backend/internal/platform/gcp"
	"github.com/yungbote/moodcare-backend/internal/platform/openai"
	"github.com/yungbote/moodcare-backend/internal/platform/spotify"
	"github.com/yungbote/moodcare-backend/internal/realtime/bus"
)

// Clients holds the external integrations. Every field except the
// database may be nil: the services degrade (fallback analysis, local
// catalog, no push) instead of refusing to start.
type Clients struct {
	Bus     bus.Bus
	OpenAI  openai.Client
	Speech  gcp.Speech
	Bucket  gcp.BucketService
	FCM     fcm.Client
	Spotify spotify.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	var c Clients

	// Redis is the only optional client whose misconfiguration is fatal:
	// a half-connected bus would silently split realtime traffic between
	// instances.
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		b, err := bus.NewRedisBus(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis bus: %w", err)
		}
		c.Bus = b
	}

	if ai, err := openai.New(log); err != nil {
		log.Warn("openai disabled, AI features fall back to defaults", "reason", err)
	} else {
		c.OpenAI = ai
	}

	if strings.TrimSpace(os.Getenv("VOICE_GCS_BUCKET_NAME")) != "" {
		bucket, err := gcp.NewBucketService(log)
		if err != nil {
			log.Warn("gcs bucket disabled, voice notes will not be stored", "reason", err)
		} else {
			c.Bucket = bucket
		}
	}

	if strings.TrimSpace(os.Getenv("SPEECH_ENABLED")) == "true" {
		speech, err := gcp.NewSpeech(log)
		if err != nil {
			log.Warn("speech disabled, voice journaling unavailable", "reason", err)
		} else {
			c.Speech = speech
		}
	}

	if push, err := fcm.New(log); err != nil {
		log.Warn("fcm disabled, push delivery unavailable", "reason", err)
	} else {
		c.FCM = push
	}

	if sp, err := spotify.New(log); err != nil {
		log.Warn("spotify disabled, recommendations use built-in catalog", "reason", err)
	} else {
		c.Spotify = sp
	}

	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Speech != nil {
		_ = c.Speech.Close()
	}
}

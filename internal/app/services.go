package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/realtime"
	"github.com/yungbote/moodcare-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Analyzer     services.EmotionAnalyzer
	Emotion      services.EmotionService
	Story        services.StoryService
	Music        services.MusicService
	Notification services.NotificationService

	// Publish is the realtime fan-out used by services and WebSocket
	// sessions alike: hub-local, or through the bus when configured.
	Publish services.Publisher
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, hub *realtime.Hub, clients Clients) Services {
	log.Info("Wiring services...")

	// With a bus every message goes through Redis and comes back via the
	// forwarder, so each instance (this one included) broadcasts exactly
	// once. Without a bus the hub is the whole world.
	publish := services.Publisher(hub.Broadcast)
	if clients.Bus != nil {
		b := clients.Bus
		busLog := log.With("component", "RealtimePublisher")
		publish = func(msg realtime.Message) {
			if err := b.Publish(context.Background(), msg); err != nil {
				busLog.Warn("bus publish failed, broadcasting locally", "error", err, "group", msg.Group)
				hub.Broadcast(msg)
			}
		}
	}

	authService := services.NewAuthService(
		db, log,
		repos.User,
		repos.UserToken,
		repos.NotificationPref,
		repos.MusicProfile,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(db, log, repos.User)

	notificationService := services.NewNotificationService(
		db, log,
		repos.DeviceToken,
		repos.NotificationPref,
		repos.NotificationLog,
		clients.FCM,
		publish,
	)

	analyzer := services.NewEmotionAnalyzer(log, clients.OpenAI)
	emotionService := services.NewEmotionService(
		db, log,
		repos.Emotion,
		analyzer,
		clients.Speech,
		clients.Bucket,
		notificationService,
		publish,
	)
	storyService := services.NewStoryService(
		db, log,
		repos.Story,
		repos.Emotion,
		clients.OpenAI,
		notificationService,
	)
	musicService := services.NewMusicService(
		db, log,
		repos.MusicRecommendation,
		repos.MusicProfile,
		repos.ListeningEntry,
		repos.Emotion,
		clients.Spotify,
		notificationService,
		publish,
	)

	return Services{
		Auth:         authService,
		User:         userService,
		Analyzer:     analyzer,
		Emotion:      emotionService,
		Story:        storyService,
		Music:        musicService,
		Notification: notificationService,
		Publish:      publish,
	}
}

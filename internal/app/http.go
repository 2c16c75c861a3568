package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/http"
	httpH "github.com/yungbote/moodcare-backend/internal/http/handlers"
	httpMW "github.com/yungbote/moodcare-backend/internal/http/middleware"
	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Emotion      *httpH.EmotionHandler
	Story        *httpH.StoryHandler
	Music        *httpH.MusicHandler
	Notification *httpH.NotificationHandler
	Realtime     *httpH.RealtimeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Auth:         httpH.NewAuthHandler(services.Auth),
		User:         httpH.NewUserHandler(services.User),
		Emotion:      httpH.NewEmotionHandler(services.Emotion),
		Story:        httpH.NewStoryHandler(services.Story),
		Music:        httpH.NewMusicHandler(services.Music),
		Notification: httpH.NewNotificationHandler(services.Notification),
		Realtime:     httpH.NewRealtimeHandler(hub, log, services.Publish),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:                 log,
		AuthMiddleware:      middleware.Auth,
		HealthHandler:       handlers.Health,
		AuthHandler:         handlers.Auth,
		UserHandler:         handlers.User,
		EmotionHandler:      handlers.Emotion,
		StoryHandler:        handlers.Story,
		MusicHandler:        handlers.Music,
		NotificationHandler: handlers.Notification,
		RealtimeHandler:     handlers.Realtime,
	})
}

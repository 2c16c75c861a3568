package http

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/moodcare-backend/internal/http/handlers"
	httpMW "github.com/yungbote/moodcare-backend/internal/http/middleware"
	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler         *httpH.AuthHandler
	UserHandler         *httpH.UserHandler
	EmotionHandler      *httpH.EmotionHandler
	StoryHandler        *httpH.StoryHandler
	MusicHandler        *httpH.MusicHandler
	NotificationHandler *httpH.NotificationHandler
	RealtimeHandler     *httpH.RealtimeHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if os.Getenv("OTEL_ENABLED") == "true" {
		r.Use(otelgin.Middleware("moodcare-backend"))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/users/me", cfg.UserHandler.GetMe)
			protected.PATCH("/users/me", cfg.UserHandler.UpdateMe)
		}

		if cfg.EmotionHandler != nil {
			protected.POST("/emotions", cfg.EmotionHandler.Create)
			protected.POST("/emotions/voice", cfg.EmotionHandler.CreateFromVoice)
			protected.GET("/emotions", cfg.EmotionHandler.List)
			protected.GET("/emotions/statistics", cfg.EmotionHandler.Statistics)
			protected.GET("/emotions/:id", cfg.EmotionHandler.Get)
			protected.PATCH("/emotions/:id", cfg.EmotionHandler.Update)
			protected.DELETE("/emotions/:id", cfg.EmotionHandler.Delete)
		}

		if cfg.StoryHandler != nil {
			protected.POST("/stories/generate", cfg.StoryHandler.Generate)
			protected.GET("/stories", cfg.StoryHandler.List)
			protected.GET("/stories/library", cfg.StoryHandler.Library)
			protected.GET("/stories/progress", cfg.StoryHandler.Progress)
			protected.GET("/stories/:id", cfg.StoryHandler.Get)
			protected.POST("/stories/:id/continue", cfg.StoryHandler.Continue)
			protected.POST("/stories/:id/rate", cfg.StoryHandler.Rate)
			protected.DELETE("/stories/:id", cfg.StoryHandler.Delete)
		}

		if cfg.MusicHandler != nil {
			protected.POST("/music/recommend", cfg.MusicHandler.Recommend)
			protected.GET("/music/recommendations", cfg.MusicHandler.ListRecommendations)
			protected.POST("/music/recommendations/:id/feedback", cfg.MusicHandler.Feedback)
			protected.GET("/music/profile", cfg.MusicHandler.GetProfile)
			protected.POST("/music/diary", cfg.MusicHandler.AddDiaryEntry)
			protected.GET("/music/diary", cfg.MusicHandler.ListDiary)
			protected.GET("/music/analytics", cfg.MusicHandler.Analytics)
		}

		if cfg.NotificationHandler != nil {
			protected.POST("/notifications/devices", cfg.NotificationHandler.RegisterDevice)
			protected.DELETE("/notifications/devices", cfg.NotificationHandler.UnregisterDevice)
			protected.GET("/notifications/preferences", cfg.NotificationHandler.GetPreferences)
			protected.PATCH("/notifications/preferences", cfg.NotificationHandler.UpdatePreferences)
			protected.GET("/notifications/logs", cfg.NotificationHandler.ListLogs)
			protected.POST("/notifications/test", cfg.NotificationHandler.SendTest)
		}
	}

	// WebSocket endpoints sit outside /api/v1 but behind the same auth.
	if cfg.RealtimeHandler != nil {
		ws := r.Group("/ws")
		if cfg.AuthMiddleware != nil {
			ws.Use(cfg.AuthMiddleware.RequireAuth())
		}
		ws.GET("/chat/:room", cfg.RealtimeHandler.ChatWS)
		ws.GET("/emotions", cfg.RealtimeHandler.EmotionWS)
		ws.GET("/music", cfg.RealtimeHandler.MusicWS)
		ws.GET("/notifications", cfg.RealtimeHandler.NotificationWS)
	}

	return r
}

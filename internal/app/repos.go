package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/repos"
)

type Repos struct {
	User                repos.UserRepo
	UserToken           repos.UserTokenRepo
	Emotion             repos.EmotionRepo
	Story               repos.StoryRepo
	MusicRecommendation repos.MusicRecommendationRepo
	MusicProfile        repos.MusicProfileRepo
	ListeningEntry      repos.ListeningEntryRepo
	DeviceToken         repos.DeviceTokenRepo
	NotificationPref    repos.NotificationPrefRepo
	NotificationLog     repos.NotificationLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:                repos.NewUserRepo(db, log),
		UserToken:           repos.NewUserTokenRepo(db, log),
		Emotion:             repos.NewEmotionRepo(db, log),
		Story:               repos.NewStoryRepo(db, log),
		MusicRecommendation: repos.NewMusicRecommendationRepo(db, log),
		MusicProfile:        repos.NewMusicProfileRepo(db, log),
		ListeningEntry:      repos.NewListeningEntryRepo(db, log),
		DeviceToken:         repos.NewDeviceTokenRepo(db, log),
		NotificationPref:    repos.NewNotificationPrefRepo(db, log),
		NotificationLog:     repos.NewNotificationLogRepo(db, log),
	}
}

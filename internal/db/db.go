package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/types"
	"github.com/yungbote/moodcare-backend/internal/utils"
)

type DBService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDBService opens the configured database. DB_DRIVER selects the
// backend: "postgres" (default) or "sqlite" for local development.
func NewDBService(log *logger.Logger) (*DBService, error) {
	serviceLog := log.With("service", "DBService")

	driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log))

	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "moodcare.db", log)
		serviceLog.Info("Connecting to SQLite...", "path", path)
		gdb, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	case "postgres":
		dsn := utils.GetEnv("POSTGRES_DSN", "", log)
		if dsn == "" {
			host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
			port := utils.GetEnv("POSTGRES_PORT", "5432", log)
			user := utils.GetEnv("POSTGRES_USER", "postgres", log)
			password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
			name := utils.GetEnv("POSTGRES_NAME", "moodcare", log)
			dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		}
		serviceLog.Info("Connecting to Postgres...")
		gdb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		serviceLog.Error("Failed to connect to database", "driver", driver, "error", err)
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	return &DBService{db: gdb, log: serviceLog}, nil
}

func (s *DBService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.EmotionRecord{},
		&types.Story{},
		&types.MusicRecommendation{},
		&types.MusicProfile{},
		&types.ListeningEntry{},
		&types.DeviceToken{},
		&types.NotificationPreference{},
		&types.NotificationLog{},
	)
}

func (s *DBService) DB() *gorm.DB {
	return s.db
}

func (s *DBService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

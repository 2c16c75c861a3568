package app

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/utils"
)

type Config struct {
	Port            string
	Environment     string
	Version         string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// fileConfig mirrors the optional CONFIG_FILE yaml. Environment
// variables always win over file values.
type fileConfig struct {
	Port                   string `yaml:"port"`
	Environment            string `yaml:"environment"`
	JWTSecretKey           string `yaml:"jwt_secret_key"`
	AccessTokenTTLSeconds  int    `yaml:"access_token_ttl_seconds"`
	RefreshTokenTTLSeconds int    `yaml:"refresh_token_ttl_seconds"`
}

func LoadConfig(log *logger.Logger) Config {
	var fc fileConfig
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("config file unreadable, using env only", "path", path, "error", err)
		} else if err := yaml.Unmarshal(raw, &fc); err != nil {
			log.Warn("config file malformed, using env only", "path", path, "error", err)
			fc = fileConfig{}
		}
	}

	port := utils.GetEnv("PORT", fallback(fc.Port, "8080"), log)
	environment := utils.GetEnv("ENVIRONMENT", fallback(fc.Environment, "development"), log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", fallback(fc.JWTSecretKey, "defaultsecret"), log)
	accessTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", fallbackInt(fc.AccessTokenTTLSeconds, 3600), log)
	refreshTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", fallbackInt(fc.RefreshTokenTTLSeconds, 30*86400), log)

	return Config{
		Port:            port,
		Environment:     environment,
		Version:         strings.TrimSpace(os.Getenv("APP_VERSION")),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTTLSeconds) * time.Second,
	}
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func fallbackInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

package app

import (
	"time"

	"github.com/coachprep/coachprep-backend/internal/pkg/envutil"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type Config struct {
	Port            string
	Environment     string
	Version         string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SeedOnEmpty     bool
}

func LoadConfig(log *logger.Logger) Config {
	port := envutil.GetEnv("PORT", "8080", log)
	environment := envutil.GetEnv("ENVIRONMENT", "development", log)
	version := envutil.GetEnv("SERVICE_VERSION", "dev", log)
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	seedOnEmpty := envutil.GetEnvAsBool("SEED_ON_EMPTY", false, log)
	return Config{
		Port:            port,
		Environment:     environment,
		Version:         version,
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		SeedOnEmpty:     seedOnEmpty,
	}
}

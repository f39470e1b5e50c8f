package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string

	SecondMeAPIBase       string
	SecondMeOAuthURL      string
	SecondMeTokenEndpoint string
	SecondMeClientID      string
	SecondMeClientSecret  string
	SecondMeRedirectURI   string

	AgentTimeoutSeconds int64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),

		SecondMeAPIBase:       getEnv("SECONDME_API_BASE_URL", ""),
		SecondMeOAuthURL:      getEnv("SECONDME_OAUTH_URL", ""),
		SecondMeTokenEndpoint: getEnv("SECONDME_TOKEN_ENDPOINT", ""),
		SecondMeClientID:      getEnv("SECONDME_CLIENT_ID", ""),
		SecondMeClientSecret:  getEnv("SECONDME_CLIENT_SECRET", ""),
		SecondMeRedirectURI:   getEnv("SECONDME_REDIRECT_URI", ""),

		AgentTimeoutSeconds: getEnvAsInt64("AGENT_TIMEOUT_SECONDS", 60),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	DatabaseURL   string
	HTTPAddr      string
	TelegramToken string
	ManagerChatID int64
	LogLevel      string
}

var instance *ServerConfig
var once sync.Once

func GetServerConfig() *ServerConfig {
	once.Do(func() {
		instance = &ServerConfig{}

		if err := godotenv.Load(); err != nil {
			logrus.Debugf("no .env file loaded: %s", err.Error())
		}

		instance.DatabaseURL = getEnv("DATABASE_URL", "")
		if instance.DatabaseURL == "" {
			logrus.Fatal("could not get db url")
		}

		instance.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
		instance.LogLevel = getEnv("LOG_LEVEL", "info")

		// Оповещения в Telegram опциональны, без токена используется
		// лог-нотификатор
		instance.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
		instance.ManagerChatID = getEnvAsInt("MANAGER_CHAT_ID", 0)
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}

// Package config holds process-wide configuration loaded from the
// environment once at startup.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	name    = "faceattend"
	version = "1.0.0"
)

type LogLevel string

const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

func GetVersion() string {
	return version
}

func GetName() string {
	return name
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("FA_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("FA_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("FA_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("FA_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

// Settings is the env-backed configuration injected into the web server
// and its services. Loaded once in main; never reloaded at runtime.
type Settings struct {
	Listen string `env:"FA_LISTEN" envDefault:""`
	Port   int    `env:"FA_PORT" envDefault:"5501"`

	// Primary upload area and the replica area owned by the
	// recognition service.
	UploadDir  string `env:"FA_UPLOAD_DIR" envDefault:"uploads"`
	ReplicaDir string `env:"FA_REPLICA_DIR" envDefault:"../face/students"`

	// Directory name recorded in the canonical relative image path.
	AssetDirName string `env:"FA_ASSET_DIR_NAME" envDefault:"students"`

	EncodeURL     string        `env:"FA_ENCODE_URL" envDefault:"http://127.0.0.1:5500/encode"`
	NotifyTimeout time.Duration `env:"FA_NOTIFY_TIMEOUT" envDefault:"5s"`

	// Cron schedule for the periodic re-encode sync job. Empty disables it.
	EncodeSyncCron string `env:"FA_ENCODE_SYNC_CRON" envDefault:""`

	JWTSecret string        `env:"FA_JWT_SECRET" envDefault:"change-me"`
	TokenTTL  time.Duration `env:"FA_TOKEN_TTL" envDefault:"10h"`

	AdminEmail    string `env:"FA_ADMIN_EMAIL" envDefault:"admin@faceattend.local"`
	AdminPassword string `env:"FA_ADMIN_PASSWORD" envDefault:"admin"`
}

// LoadSettings parses Settings from environment variables.
func LoadSettings() (*Settings, error) {
	s := &Settings{}
	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("parse settings env: %w", err)
	}
	return s, nil
}

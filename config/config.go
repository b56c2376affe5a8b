package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel          string `env:"LOG_LEVEL"`
	HTTP              HTTP
	Postgres          Postgres
	Redis             Redis
	API               API
	Cache             Cache
	Jobs              Jobs
	Rebalance         Rebalance
	GoogleDrive       GoogleDrive
	Telegram          Telegram
	SessionExpiration time.Duration `env:"SESSION_EXPIRATION"`
}

type HTTP struct {
	Port            int           `env:"HTTP_PORT"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string      `env:"HTTP_ALLOWED_ORIGINS"`
}

type Postgres struct {
	Host            string `env:"PG_HOST"`
	Port            int    `env:"PG_PORT"`
	DbName          string `env:"PG_DB_NAME"`
	Password        string `env:"PG_PASSWORD"`
	User            string `env:"PG_USER"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME"`
	MigrationDir    string `env:"PG_MIGRATION_DIR"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type API struct {
	Debug            bool          `env:"API_DEBUG"`
	Timeout          time.Duration `env:"API_TIMEOUT"`
	RebalanceCalcUrl string        `env:"REBALANCE_CALC_API_URL"`
	WalletDataUrl    string        `env:"WALLET_DATA_API_URL"`
	ExecutionUrl     string        `env:"EXECUTION_API_URL"`
}

type Cache struct {
	WalletAssetsExpiration time.Duration `env:"CACHE_WALLET_ASSETS_EXPIRATION"`
}

type Jobs struct {
	ClosingsScanCrontab  string        `env:"CLOSINGS_SCAN_JOB_CRONTAB"`
	OverdueScanInterval  time.Duration `env:"OVERDUE_SCAN_JOB_INTERVAL"`
	DriveCleanupInterval time.Duration `env:"DRIVE_CLEANUP_JOB_INTERVAL"`
}

type Rebalance struct {
	CadenceDays int `env:"REBALANCE_CADENCE_DAYS"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL"`
}

type Telegram struct {
	Token     string `env:"TELEGRAM_TOKEN"`
	OpsChatID int64  `env:"TELEGRAM_OPS_CHAT_ID"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

const (
	StorageModePostgres = "postgres"
	StorageModeMemory   = "memory"
)

type Config struct {
	App
	Transcoder
	Polling
	Backup
	PostgreSQL
	HTTP
	Auth
}

type App struct {
	UploadsDirectory  string
	TempDirectory     string
	SpoolMaxAge       time.Duration
	SpoolScanInterval time.Duration
	MaxFilesPerBatch  int
	SubmitConcurrency int
	DownloadWindow    time.Duration
	StorageMode       string
	AccountsFile      string
	DefaultVideoLimit int
}

type Transcoder struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxAttempts    int
	RetryDelay     time.Duration
	AllowFallback  bool
	SimulationStep int
}

type Polling struct {
	Interval    time.Duration
	MaxDuration time.Duration
	MaxFailures int
}

type Backup struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Concurrency  int
	DrainTimeout time.Duration
}

type PostgreSQL struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

type HTTP struct {
	Host         string
	Port         string
	IdleTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Auth struct {
	JWTSecret string
}

func Load(cmd *cli.Command) *Config {
	return &Config{
		App: App{
			UploadsDirectory:  cmd.String("uploads-dir"),
			TempDirectory:     cmd.String("temp-dir"),
			SpoolMaxAge:       cmd.Duration("spool-max-age"),
			SpoolScanInterval: cmd.Duration("spool-scan-interval"),
			MaxFilesPerBatch:  cmd.Int("max-files"),
			SubmitConcurrency: cmd.Int("submit-concurrency"),
			DownloadWindow:    cmd.Duration("download-window"),
			StorageMode:       cmd.String("storage"),
			AccountsFile:      cmd.String("accounts-file"),
			DefaultVideoLimit: cmd.Int("default-video-limit"),
		},
		Transcoder: Transcoder{
			BaseURL:        cmd.String("transcoder-url"),
			Token:          cmd.String("transcoder-token"),
			Timeout:        cmd.Duration("transcoder-timeout"),
			MaxAttempts:    cmd.Int("transcoder-max-attempts"),
			RetryDelay:     cmd.Duration("transcoder-retry-delay"),
			AllowFallback:  cmd.Bool("transcoder-allow-fallback"),
			SimulationStep: cmd.Int("simulation-step"),
		},
		Polling: Polling{
			Interval:    cmd.Duration("poll-interval"),
			MaxDuration: cmd.Duration("poll-max-duration"),
			MaxFailures: cmd.Int("poll-max-failures"),
		},
		Backup: Backup{
			Bucket:       cmd.String("backup-bucket"),
			Region:       cmd.String("backup-region"),
			Endpoint:     cmd.String("backup-endpoint"),
			AccessKey:    cmd.String("backup-access-key"),
			SecretKey:    cmd.String("backup-secret-key"),
			Concurrency:  cmd.Int("backup-concurrency"),
			DrainTimeout: cmd.Duration("backup-drain-timeout"),
		},
		PostgreSQL: PostgreSQL{
			Host:     cmd.String("pg-host"),
			Port:     cmd.String("pg-port"),
			Username: cmd.String("pg-username"),
			Password: cmd.String("pg-password"),
			DBName:   cmd.String("pg-dbname"),
		},
		HTTP: HTTP{
			Host:         cmd.String("http-host"),
			Port:         cmd.String("http-port"),
			IdleTimeout:  cmd.Duration("http-idle-timeout"),
			ReadTimeout:  cmd.Duration("http-read-timeout"),
			WriteTimeout: cmd.Duration("http-write-timeout"),
		},
		Auth: Auth{
			JWTSecret: cmd.String("jwt-secret"),
		},
	}
}

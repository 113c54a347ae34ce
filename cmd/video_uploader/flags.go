package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/kurochkinivan/video_uploader/internal/app"
	"github.com/kurochkinivan/video_uploader/internal/config"
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

var version = "dev"

func cmd() *cli.Command {
	return &cli.Command{
		Name:    "video_uploader",
		Usage:   "Video upload and transcoding service",
		Version: version,
		Flags:   flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, ok := ctx.Value(loggerKey{}).(*slog.Logger)
			if !ok {
				return errors.New("failed to get logger from context")
			}

			cfg := config.Load(cmd)

			return app.New(log, cfg).Run(ctx)
		},
	}
}

func flags() []cli.Flag {
	var configFile string

	src := func(key string) cli.ValueSourceChain {
		return cli.NewValueSourceChain(yaml.YAML(key, altsrc.NewStringPtrSourcer(&configFile)))
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Validator:   validateFile(".yml", ".yaml"),
			Usage:       "Load configuration from `FILE`",
			Destination: &configFile,
		},

		&cli.StringFlag{
			Name:    "uploads-dir",
			Aliases: []string{"u"},
			Usage:   "Set directory to keep uploaded originals in",
			Value:   "uploads",
			Sources: src("app.uploads_dir"),
		},
		&cli.StringFlag{
			Name:      "temp-dir",
			Usage:     "Set directory to spool incoming uploads to",
			Sources:   src("app.temp_dir"),
			Validator: validateDirectory,
		},
		&cli.DurationFlag{
			Name:    "spool-max-age",
			Usage:   "Set age after which leftover spool files are removed",
			Value:   6 * time.Hour,
			Sources: src("app.spool_max_age"),
		},
		&cli.DurationFlag{
			Name:    "spool-scan-interval",
			Usage:   "Set how often the spool directory is swept",
			Value:   30 * time.Minute,
			Sources: src("app.spool_scan_interval"),
		},
		&cli.IntFlag{
			Name:      "max-files",
			Usage:     "Set maximum number of files in one upload",
			Value:     10,
			Sources:   src("app.max_files"),
			Validator: validatePositive,
		},
		&cli.IntFlag{
			Name:      "submit-concurrency",
			Usage:     "Set how many files of one upload are submitted at once",
			Value:     4,
			Sources:   src("app.submit_concurrency"),
			Validator: validatePositive,
		},
		&cli.DurationFlag{
			Name:    "download-window",
			Usage:   "Set how long a processed file stays downloadable",
			Value:   24 * time.Hour,
			Sources: src("app.download_window"),
		},
		&cli.StringFlag{
			Name:      "storage",
			Usage:     "Set storage mode: postgres or memory",
			Value:     config.StorageModePostgres,
			Sources:   src("app.storage"),
			Validator: validateOneOf(config.StorageModePostgres, config.StorageModeMemory),
		},
		&cli.StringFlag{
			Name:      "accounts-file",
			Usage:     "Load account quotas from a TSV `FILE` on startup",
			Sources:   src("app.accounts_file"),
			Validator: validateFile(".tsv", ".txt"),
		},
		&cli.IntFlag{
			Name:    "default-video-limit",
			Usage:   "Set monthly video limit of unknown accounts in memory mode",
			Value:   0,
			Sources: src("app.default_video_limit"),
		},

		&cli.StringFlag{
			Name:    "transcoder-url",
			Usage:   "Set transcoding service base URL",
			Value:   "http://localhost:9000/v1",
			Sources: src("transcoder.url"),
		},
		&cli.StringFlag{
			Name:    "transcoder-token",
			Usage:   "Set transcoding service token, simulation is used when empty",
			Sources: src("transcoder.token"),
		},
		&cli.DurationFlag{
			Name:    "transcoder-timeout",
			Usage:   "Set transcoding service request timeout",
			Value:   30 * time.Second,
			Sources: src("transcoder.timeout"),
		},
		&cli.IntFlag{
			Name:      "transcoder-max-attempts",
			Usage:     "Set how many times one transcoding call is attempted",
			Value:     3,
			Sources:   src("transcoder.max_attempts"),
			Validator: validatePositive,
		},
		&cli.DurationFlag{
			Name:    "transcoder-retry-delay",
			Usage:   "Set initial delay between transcoding call attempts",
			Value:   2 * time.Second,
			Sources: src("transcoder.retry_delay"),
		},
		&cli.BoolFlag{
			Name:    "transcoder-allow-fallback",
			Usage:   "Submit to the simulation when the transcoding service is unavailable",
			Sources: src("transcoder.allow_fallback"),
		},
		&cli.IntFlag{
			Name:    "simulation-step",
			Usage:   "Set progress added by each simulated status poll",
			Value:   20,
			Sources: src("transcoder.simulation_step"),
		},

		&cli.DurationFlag{
			Name:    "poll-interval",
			Usage:   "Set job status poll interval",
			Value:   5 * time.Second,
			Sources: src("polling.interval"),
		},
		&cli.DurationFlag{
			Name:    "poll-max-duration",
			Usage:   "Set how long a job is polled before it is failed",
			Value:   24 * time.Hour,
			Sources: src("polling.max_duration"),
		},
		&cli.IntFlag{
			Name:      "poll-max-failures",
			Usage:     "Set how many failed polls in a row fail a job",
			Value:     10,
			Sources:   src("polling.max_failures"),
			Validator: validatePositive,
		},

		&cli.StringFlag{
			Name:    "backup-bucket",
			Usage:   "Set S3 bucket for original backups, backup is disabled when empty",
			Sources: src("backup.bucket"),
		},
		&cli.StringFlag{
			Name:    "backup-region",
			Usage:   "Set S3 region",
			Value:   "us-east-1",
			Sources: src("backup.region"),
		},
		&cli.StringFlag{
			Name:    "backup-endpoint",
			Usage:   "Set S3 compatible endpoint",
			Sources: src("backup.endpoint"),
		},
		&cli.StringFlag{
			Name:    "backup-access-key",
			Usage:   "Set S3 access key",
			Sources: src("backup.access_key"),
		},
		&cli.StringFlag{
			Name:    "backup-secret-key",
			Usage:   "Set S3 secret key",
			Sources: src("backup.secret_key"),
		},
		&cli.IntFlag{
			Name:      "backup-concurrency",
			Usage:     "Set how many backups run at once",
			Value:     4,
			Sources:   src("backup.concurrency"),
			Validator: validatePositive,
		},
		&cli.DurationFlag{
			Name:    "backup-drain-timeout",
			Usage:   "Set how long shutdown waits for running backups",
			Value:   30 * time.Second,
			Sources: src("backup.drain_timeout"),
		},

		&cli.StringFlag{
			Name:    "pg-host",
			Usage:   "Set PostgreSQL host",
			Value:   "localhost",
			Sources: src("postgresql.host"),
		},
		&cli.StringFlag{
			Name:    "pg-port",
			Usage:   "Set PostgreSQL port",
			Value:   "5432",
			Sources: src("postgresql.port"),
		},
		&cli.StringFlag{
			Name:    "pg-username",
			Usage:   "Set PostgreSQL username",
			Sources: src("postgresql.username"),
		},
		&cli.StringFlag{
			Name:    "pg-password",
			Usage:   "Set PostgreSQL password",
			Sources: src("postgresql.password"),
		},
		&cli.StringFlag{
			Name:    "pg-dbname",
			Usage:   "Set PostgreSQL database name",
			Value:   "video_uploader",
			Sources: src("postgresql.dbname"),
		},

		&cli.StringFlag{
			Name:    "http-host",
			Usage:   "Set HTTP server host",
			Value:   "localhost",
			Sources: src("http.host"),
		},
		&cli.StringFlag{
			Name:    "http-port",
			Usage:   "Set HTTP server port",
			Value:   "8080",
			Sources: src("http.port"),
		},
		&cli.DurationFlag{
			Name:    "http-idle-timeout",
			Usage:   "Set HTTP server idle timeout",
			Value:   1 * time.Minute,
			Sources: src("http.idle_timeout"),
		},
		&cli.DurationFlag{
			Name:    "http-read-timeout",
			Usage:   "Set HTTP server read timeout",
			Value:   10 * time.Minute,
			Sources: src("http.read_timeout"),
		},
		&cli.DurationFlag{
			Name:    "http-write-timeout",
			Usage:   "Set HTTP server write timeout",
			Value:   10 * time.Minute,
			Sources: src("http.write_timeout"),
		},

		&cli.StringFlag{
			Name:     "jwt-secret",
			Usage:    "Set HMAC secret of access tokens",
			Sources:  src("auth.jwt_secret"),
			Required: true,
		},
	}
}

func validateDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", dir)
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	return nil
}

func validateFile(extensions ...string) func(string) error {
	return func(file string) error {
		info, err := os.Stat(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%q does not exist", file)
			}
			return fmt.Errorf("failed to stat %q: %w", file, err)
		}

		if info.IsDir() {
			return fmt.Errorf("%q is a directory, not a file", file)
		}

		if ext := filepath.Ext(info.Name()); !slices.Contains(extensions, ext) {
			return fmt.Errorf("invalid extension %q", file)
		}

		return nil
	}
}

func validateOneOf(allowed ...string) func(string) error {
	return func(value string) error {
		if !slices.Contains(allowed, value) {
			return fmt.Errorf("%q must be one of %q", value, allowed)
		}
		return nil
	}
}

func validatePositive(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}

package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	commandUp      = "up"
	commandDown    = "down"
	commandSteps   = "steps"
	commandVersion = "version"
)

var commands = []string{commandUp, commandDown, commandSteps, commandVersion}

const (
	exitCodeOK = iota
	exitCodeInputErr
	exitCodeInternalErr
)

type flags struct {
	command  string
	steps    int
	username string
	password string
	host     string
	port     string
	db       string
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	exitCode, err := Run(ctx, log, parseFlags())
	if err != nil {
		log.ErrorContext(ctx, "migrator failed", slog.String("err", err.Error()))
	}

	stop()
	os.Exit(exitCode)
}

func Run(ctx context.Context, log *slog.Logger, f *flags) (exitCode int, err error) {
	if err := f.validate(); err != nil {
		return exitCodeInputErr, fmt.Errorf("invalid flags: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return exitCodeInternalErr, fmt.Errorf("failed to create migrations source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", src, f.databaseURL())
	if err != nil {
		return exitCodeInternalErr, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := migrator.Close()
		if closeErr := errors.Join(srcErr, dbErr); closeErr != nil {
			if err == nil {
				exitCode = exitCodeInternalErr
			}
			err = errors.Join(err, closeErr)
		}
	}()

	go func() {
		<-ctx.Done()
		migrator.GracefulStop <- true
	}()

	if f.command == commandVersion {
		version, dirty, err := migrator.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return exitCodeInternalErr, fmt.Errorf("failed to read schema version: %w", err)
		}

		log.InfoContext(ctx, "schema version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

		return exitCodeOK, nil
	}

	if err := f.apply(migrator); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.InfoContext(ctx, "no migrations to apply")
			return exitCodeOK, nil
		}

		return exitCodeInternalErr, fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.InfoContext(ctx, "migrations applied successfully", slog.String("command", f.command))

	return exitCodeOK, nil
}

func (f *flags) apply(migrator *migrate.Migrate) error {
	switch f.command {
	case commandUp:
		return migrator.Up()
	case commandDown:
		return migrator.Down()
	case commandSteps:
		return migrator.Steps(f.steps)
	default:
		return fmt.Errorf("unknown command %q", f.command)
	}
}

func parseFlags() *flags {
	f := &flags{}
	flag.StringVar(&f.command, "type", commandUp, "command: up/down/steps/version")
	flag.IntVar(&f.steps, "n", 0, "number of migrations for steps, negative rolls back")
	flag.StringVar(&f.username, "username", "", "database username")
	flag.StringVar(&f.password, "password", "", "database password")
	flag.StringVar(&f.host, "host", "127.0.0.1", "database host")
	flag.StringVar(&f.port, "port", "5432", "database port")
	flag.StringVar(&f.db, "db", "video_uploader", "database name")
	flag.Parse()
	return f
}

func (f *flags) validate() error {
	if !slices.Contains(commands, f.command) {
		return fmt.Errorf("type must be one of %q, got %q", commands, f.command)
	}

	if f.command == commandSteps && f.steps == 0 {
		return errors.New("n must not be zero for steps")
	}

	for _, req := range []struct{ name, value string }{
		{"username", f.username},
		{"password", f.password},
		{"db", f.db},
		{"port", f.port},
	} {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}

	return nil
}

func (f *flags) databaseURL() string {
	return (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(f.username, f.password),
		Host:     net.JoinHostPort(f.host, f.port),
		Path:     f.db,
		RawQuery: "sslmode=disable",
	}).String()
}

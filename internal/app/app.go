package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/backup"
	"github.com/kurochkinivan/video_uploader/internal/config"
	v1 "github.com/kurochkinivan/video_uploader/internal/controller/http/v1"
	"github.com/kurochkinivan/video_uploader/internal/domain"
	"github.com/kurochkinivan/video_uploader/internal/jobs"
	"github.com/kurochkinivan/video_uploader/internal/media"
	"github.com/kurochkinivan/video_uploader/internal/objectstore"
	"github.com/kurochkinivan/video_uploader/internal/quota"
	"github.com/kurochkinivan/video_uploader/internal/repository/memory"
	"github.com/kurochkinivan/video_uploader/internal/repository/postgresql"
	"github.com/kurochkinivan/video_uploader/internal/storage"
	"github.com/kurochkinivan/video_uploader/internal/transcode"
	"github.com/kurochkinivan/video_uploader/internal/upload"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type fileItems interface {
	CreateFileItem(ctx context.Context, item *domain.FileItem) error
	FileItem(ctx context.Context, id uuid.UUID) (*domain.FileItem, error)
	FileItemsByAccount(ctx context.Context, accountID string) ([]*domain.FileItem, error)
	FileItemsByStatus(ctx context.Context, status domain.Status) ([]*domain.FileItem, error)
	FileItemsPage(ctx context.Context, accountID string, limit, offset uint64) ([]*domain.FileItem, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, update domain.StatusUpdate) error
	SetBackupRef(ctx context.Context, id uuid.UUID, ref string) error
}

type accounts interface {
	quota.AccountRepository
	quota.AccountUpserter
}

type repositories struct {
	items      fileItems
	accounts   accounts
	transactor quota.Transactor
	close      func()
}

type App struct {
	log *slog.Logger
	cfg *config.Config
}

func New(log *slog.Logger, cfg *config.Config) *App {
	return &App{
		log: log,
		cfg: cfg,
	}
}

func (a *App) Run(ctx context.Context) error {
	a.log.InfoContext(ctx, "starting app",
		slog.String("uploads_dir", a.cfg.App.UploadsDirectory),
		slog.String("storage", a.cfg.App.StorageMode),
		slog.Bool("transcoder_configured", a.cfg.Transcoder.Token != ""),
		slog.Bool("backup_configured", a.cfg.Backup.Bucket != ""),
	)

	repos, err := a.repositories(ctx)
	if err != nil {
		return err
	}
	defer repos.close()

	if a.cfg.App.AccountsFile != "" {
		seeder := quota.NewSeeder(a.log, repos.accounts, repos.transactor)

		n, err := seeder.SeedFile(ctx, a.cfg.App.AccountsFile)
		if err != nil {
			return fmt.Errorf("failed to seed accounts from %q: %w", a.cfg.App.AccountsFile, err)
		}

		a.log.InfoContext(ctx, "accounts seeded", slog.Int("count", n))
	}

	return a.startServices(ctx, repos)
}

func (a *App) repositories(ctx context.Context) (*repositories, error) {
	if a.cfg.App.StorageMode == config.StorageModeMemory {
		a.log.WarnContext(ctx, "using in-memory storage, state is lost on restart")

		return &repositories{
			items:      memory.NewFileItemsRepository(),
			accounts:   memory.NewAccountsRepository(a.cfg.App.DefaultVideoLimit),
			transactor: memory.NewTransactor(),
			close:      func() {},
		}, nil
	}

	a.log.InfoContext(ctx, "establishing postgresql connection",
		slog.String("postgresql_host", a.cfg.PostgreSQL.Host),
		slog.String("postgresql_port", a.cfg.PostgreSQL.Port),
		slog.String("postgresql_dbname", a.cfg.PostgreSQL.DBName),
	)

	pool, err := postgresql.NewConnection(ctx, a.log, a.cfg.PostgreSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	return &repositories{
		items:      postgresql.NewFileItemsRepository(pool),
		accounts:   postgresql.NewAccountsRepository(pool),
		transactor: postgresql.NewTxManager(pool),
		close:      pool.Close,
	}, nil
}

func (a *App) transcoder() (*transcode.Service, error) {
	simulation := transcode.NewSimulation(a.cfg.Transcoder.SimulationStep)
	retryPolicy := transcode.RetryPolicy{
		MaxAttempts: a.cfg.Transcoder.MaxAttempts,
		BaseDelay:   a.cfg.Transcoder.RetryDelay,
	}

	if a.cfg.Transcoder.Token == "" {
		a.log.Warn("transcoder token is not set, every job runs in simulation mode")
		return transcode.NewService(a.log, nil, simulation, retryPolicy, false), nil
	}

	remote, err := transcode.NewHTTPBackend(transcode.HTTPConfig{
		BaseURL: a.cfg.Transcoder.BaseURL,
		Token:   a.cfg.Transcoder.Token,
		Timeout: a.cfg.Transcoder.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return transcode.NewService(a.log, remote, simulation, retryPolicy, a.cfg.Transcoder.AllowFallback), nil
}

func (a *App) objectStore(ctx context.Context) (backup.ObjectStore, error) {
	if a.cfg.Backup.Bucket == "" {
		a.log.InfoContext(ctx, "backup bucket is not set, originals are kept locally only")
		return nil, nil
	}

	store, err := objectstore.NewS3(ctx, objectstore.Config{
		Bucket:    a.cfg.Backup.Bucket,
		Region:    a.cfg.Backup.Region,
		Endpoint:  a.cfg.Backup.Endpoint,
		AccessKey: a.cfg.Backup.AccessKey,
		SecretKey: a.cfg.Backup.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backup store: %w", err)
	}

	return store, nil
}

func (a *App) startServices(ctx context.Context, repos *repositories) error {
	service, err := a.transcoder()
	if err != nil {
		return fmt.Errorf("failed to create transcoder client: %w", err)
	}

	store, err := a.objectStore(ctx)
	if err != nil {
		return err
	}

	local, err := storage.NewLocal(a.cfg.App.UploadsDirectory)
	if err != nil {
		return err
	}

	tempDir, err := storage.SpoolDir(a.cfg.App.TempDirectory)
	if err != nil {
		return err
	}

	janitor := storage.NewJanitor(a.log, tempDir, a.cfg.App.SpoolScanInterval, a.cfg.App.SpoolMaxAge)

	machine := jobs.NewMachine(a.log, repos.items, a.cfg.App.DownloadWindow)
	poller := jobs.NewPoller(a.log, service, machine, jobs.PollerConfig{
		Interval:  a.cfg.Polling.Interval,
		Budget:    a.cfg.Polling.MaxDuration,
		MaxMisses: a.cfg.Polling.MaxFailures,
	})
	tracker := jobs.NewTracker(a.log, poller)
	sidecar := backup.NewSidecar(a.log, store, repos.items, int64(a.cfg.Backup.Concurrency), a.cfg.Backup.DrainTimeout)

	if _, err := jobs.Recover(ctx, a.log, repos.items, machine, tracker); err != nil {
		return fmt.Errorf("failed to recover unfinished items: %w", err)
	}

	orchestrator := upload.NewOrchestrator(
		a.log,
		media.NewValidator(),
		quota.NewGate(a.log, repos.accounts, repos.transactor),
		local,
		repos.items,
		sidecar,
		service,
		machine,
		tracker,
		a.cfg.App.SubmitConcurrency,
	)

	videos := v1.NewVideosHandler(a.log, orchestrator, repos.items, service, v1.UploadLimits{
		TempDir:     tempDir,
		MaxFiles:    a.cfg.App.MaxFilesPerBatch,
		MaxFileSize: media.MaxFileSize,
	})
	health := v1.NewHealthHandler(service, tracker, sidecar.Enabled())
	server := v1.NewServer(a.cfg.HTTP, v1.NewRouter(videos, health, []byte(a.cfg.Auth.JWTSecret)))

	erg, ctx := errgroup.WithContext(ctx)

	erg.Go(func() error {
		a.log.InfoContext(ctx, "job tracker started", slog.Int("resumed", tracker.Active()))
		return tracker.Run(ctx)
	})

	erg.Go(func() error {
		a.log.InfoContext(ctx, "backup sidecar started", slog.Bool("enabled", sidecar.Enabled()))
		return sidecar.Run(ctx)
	})

	erg.Go(func() error {
		a.log.InfoContext(ctx, "spool janitor started", slog.String("spool_dir", tempDir))
		return janitor.Run(ctx)
	})

	erg.Go(func() error {
		a.log.InfoContext(ctx, "starting http server",
			slog.String("addr", net.JoinHostPort(a.cfg.HTTP.Host, a.cfg.HTTP.Port)),
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	})

	erg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	a.log.InfoContext(ctx, "all components started")

	if err := erg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.log.ErrorContext(ctx, "app stopped with error", slog.String("err", err.Error()))

		return err
	}

	a.log.InfoContext(ctx, "app stopped gracefully")

	return nil
}

package backup_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/backup"
	"github.com/kurochkinivan/video_uploader/internal/domain"
	"github.com/kurochkinivan/video_uploader/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	mock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedItem(t *testing.T, repo *memory.FileItemsRepository, accountID, content string) *domain.FileItem {
	t.Helper()

	path := filepath.Join(t.TempDir(), "original.mp4")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	item := &domain.FileItem{
		ID:          uuid.New(),
		AccountID:   accountID,
		StoragePath: path,
		Format:      "mp4",
		Status:      domain.StatusUploaded,
	}
	require.NoError(t, repo.CreateFileItem(context.Background(), item))

	return item
}

func runSidecar(t *testing.T, sidecar *backup.Sidecar) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)
	go func() {
		errChan <- sidecar.Run(ctx)
	}()

	return func() {
		cancel()

		select {
		case err := <-errChan:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("timeout: sidecar did not stop")
		}
	}
}

func TestSidecar_Backup_StoresReference(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	repo := memory.NewFileItemsRepository()
	item := storedItem(t, repo, "acc", "raw video")

	store := NewMockObjectStore(t)
	store.EXPECT().EnsureFolder(mock.Anything, "accounts/acc/originals/").
		Return("accounts/acc/originals/", nil).Once()
	store.EXPECT().Upload(mock.Anything, "accounts/acc/originals/"+item.ID.String()+".mp4", mock.Anything, int64(9)).
		RunAndReturn(func(_ context.Context, _ string, body io.Reader, _ int64) error {
			data, err := io.ReadAll(body)
			assert.NoError(t, err)
			assert.Equal(t, "raw video", string(data))
			return nil
		}).Once()

	sidecar := backup.NewSidecar(log, store, repo, 2, time.Second)
	stop := runSidecar(t, sidecar)

	sidecar.Backup(item)
	stop()

	stored, err := repo.FileItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, "accounts/acc/originals/"+item.ID.String()+".mp4", stored.BackupRef)
}

func TestSidecar_Backup_FailureIsNotFatal(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	repo := memory.NewFileItemsRepository()
	item := storedItem(t, repo, "acc", "raw video")

	store := NewMockObjectStore(t)
	store.EXPECT().EnsureFolder(mock.Anything, mock.Anything).Return("accounts/acc/originals/", nil).Once()
	store.EXPECT().Upload(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("bucket unavailable")).Once()

	sidecar := backup.NewSidecar(log, store, repo, 1, time.Second)
	stop := runSidecar(t, sidecar)

	sidecar.Backup(item)
	stop()

	stored, err := repo.FileItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.BackupRef)
	assert.Equal(t, domain.StatusUploaded, stored.Status)
}

func TestSidecar_Backup_UnsafeAccountNeverReachesStore(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	repo := memory.NewFileItemsRepository()

	// No expectations: any store call fails the test.
	store := NewMockObjectStore(t)

	sidecar := backup.NewSidecar(log, store, repo, 2, time.Second)
	stop := runSidecar(t, sidecar)

	var items []*domain.FileItem
	for _, accountID := range []string{"..", ".", "a/../b"} {
		item := storedItem(t, repo, accountID, "raw video")
		items = append(items, item)
		sidecar.Backup(item)
	}
	stop()

	for _, item := range items {
		stored, err := repo.FileItem(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.BackupRef, item.AccountID)
	}
}

func TestSidecar_Backup_FolderCreatedOncePerAccount(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	repo := memory.NewFileItemsRepository()

	// Folder creation blocks until every copy has asked for it.
	release := make(chan struct{})

	store := NewMockObjectStore(t)
	store.EXPECT().EnsureFolder(mock.Anything, "accounts/acc/originals/").
		RunAndReturn(func(context.Context, string) (string, error) {
			<-release
			return "accounts/acc/originals/", nil
		}).Once()
	store.EXPECT().EnsureFolder(mock.Anything, "accounts/other/originals/").
		Return("accounts/other/originals/", nil).Once()
	store.EXPECT().Upload(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(6)

	sidecar := backup.NewSidecar(log, store, repo, 8, time.Second)
	stop := runSidecar(t, sidecar)

	for range 5 {
		sidecar.Backup(storedItem(t, repo, "acc", "x"))
	}
	sidecar.Backup(storedItem(t, repo, "other", "y"))

	time.AfterFunc(20*time.Millisecond, func() { close(release) })
	stop()
}

func TestSidecar_Disabled(t *testing.T) {
	t.Parallel()

	repo := memory.NewFileItemsRepository()
	sidecar := backup.NewSidecar(slog.New(slog.DiscardHandler), nil, repo, 0, 0)

	assert.False(t, sidecar.Enabled())
	sidecar.Backup(storedItem(t, repo, "acc", "x"))
}

func TestFolderFor(t *testing.T) {
	t.Parallel()

	folder, err := backup.FolderFor("42")
	require.NoError(t, err)
	assert.Equal(t, "accounts/42/originals/", folder)

	for _, accountID := range []string{"..", ".", "a/../b", "", "a/b"} {
		_, err := backup.FolderFor(accountID)
		assert.ErrorIs(t, err, domain.ErrInvalidAccount, accountID)
	}
}

func TestSidecar_Defaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, backup.DefaultConcurrency)
	assert.Equal(t, 30*time.Second, backup.DefaultDrainTimeout)
}

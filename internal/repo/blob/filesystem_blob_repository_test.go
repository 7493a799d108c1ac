package blob_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/repo/blob"
)

func newTestRepo(t *testing.T) *blob.FileSystemRepository {
	t.Helper()

	repo, err := blob.NewFileSystemBlobRepository(context.Background(), "thumbnails",
		blob.FileSystemBlobRepositoryConfig{Basedir: t.TempDir()})
	require.NoError(t, err)

	return repo
}

func TestFileSystemRepository_StoreFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepo(t)
	id := domain.NewBlobID("https://example.test/cover.png", 64)

	assert.False(t, repo.Exists(ctx, id))

	_, err := repo.Fetch(ctx, id)
	require.ErrorIs(t, err, domain.ErrBlobNotFound)

	require.NoError(t, repo.Store(ctx, domain.NewBlob(id, []byte("original"))))
	require.NoError(t, repo.Store(ctx, domain.NewBlob(id, []byte("replaced"))))
	assert.True(t, repo.Exists(ctx, id))

	got, err := repo.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), got.Body)
	assert.False(t, got.Modified.IsZero())

	filename, err := repo.Filename(id)
	require.NoError(t, err)
	assert.Equal(t, id.String()+".bin", filepath.Base(filename))
	assert.Equal(t, id.String()[2:4], filepath.Base(filepath.Dir(filename)))

	entries, err := os.ReadDir(filepath.Dir(filename))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, id))
	assert.False(t, repo.Exists(ctx, id))
}

func TestFileSystemRepository_InvalidID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepo(t)

	for _, id := range []domain.BlobID{"", "abc", "../../etc", "ab/cd/ef"} {
		_, err := repo.Filename(id)
		require.ErrorIs(t, err, blob.ErrInvalidBlobID, id)
		require.ErrorIs(t, repo.Store(ctx, domain.NewBlob(id, nil)), blob.ErrInvalidBlobID)
		assert.False(t, repo.Exists(ctx, id))
	}
}

func TestFileSystemRepository_Prune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepo(t)

	stale := domain.NewBlobID("stale")
	fresh := domain.NewBlobID("fresh")

	require.NoError(t, repo.Store(ctx, domain.NewBlob(stale, []byte("old"))))
	require.NoError(t, repo.Store(ctx, domain.NewBlob(fresh, []byte("new"))))

	filename, err := repo.Filename(stale)
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filename, past, past))

	pruned, err := repo.Prune(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
	assert.False(t, repo.Exists(ctx, stale))
	assert.True(t, repo.Exists(ctx, fresh))
}

func TestNewBlobID(t *testing.T) {
	t.Parallel()

	a := domain.NewBlobID("https://example.test/a.png", 64)

	assert.Equal(t, a, domain.NewBlobID("https://example.test/a.png", 64))
	assert.NotEqual(t, a, domain.NewBlobID("https://example.test/a.png", 128))
	assert.NotEqual(t, a, domain.NewBlobID("https://example.test/a.png6", 4))
	assert.Len(t, a.String(), 52)
	assert.Regexp(t, `^[0-9a-hjkmnp-tv-z]+$`, a.String())
}

package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/logging"
)

var ErrInvalidBlobID = errors.New("invalid blob id")

const (
	dirPrefixLength = 2
	dirPrefixDepth  = 2
	blobExt         = ".bin"
)

// FileSystemBlobRepositoryConfig holds configuration for the filesystem blob cache.
type FileSystemBlobRepositoryConfig struct {
	// Basedir is the root directory of the cache.
	Basedir string `env:"BASEDIR" default:"var/cache/blob"`
}

// FileSystemBlobRepositoryFactory returns a RepositoryFactory creating FileSystemRepository instances.
func FileSystemBlobRepositoryFactory(cfg FileSystemBlobRepositoryConfig) RepositoryFactory {
	return func(ctx context.Context, bucket string) (Repository, error) {
		return NewFileSystemBlobRepository(ctx, bucket, cfg)
	}
}

// FileSystemRepository implements Repository on the local filesystem.
// Blobs are sharded into subdirectories by id prefix and written atomically
// through a temporary file, so concurrent readers never see partial content.
type FileSystemRepository struct {
	dir string
	log logging.Logger
}

var _ Repository = (*FileSystemRepository)(nil)

// NewFileSystemBlobRepository creates the bucket directory below cfg.Basedir.
func NewFileSystemBlobRepository(
	ctx context.Context,
	bucket string,
	cfg FileSystemBlobRepositoryConfig,
) (*FileSystemRepository, error) {
	dir := filepath.Join(cfg.Basedir, bucket)
	log := logging.GetLogger("repo.blob.filesystem_repository").With(
		logging.Group("repo", "dir", dir),
	)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.ErrorContext(ctx, "init storage failed", "error", err)

		return nil, fmt.Errorf("mkdir all: %w", err)
	}

	return &FileSystemRepository{dir: dir, log: log}, nil
}

// Filename returns the path a blob with the given id is stored at.
//
//	<dir>/ab/cd/abcdef....bin
func (fsRepo *FileSystemRepository) Filename(id domain.BlobID) (string, error) {
	name := id.String()
	if len(name) < dirPrefixLength*dirPrefixDepth || strings.ContainsAny(name, `/\.`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlobID, name)
	}

	parts := []string{fsRepo.dir}
	for i := range dirPrefixDepth {
		parts = append(parts, name[i*dirPrefixLength:(i+1)*dirPrefixLength])
	}

	return filepath.Join(append(parts, name+blobExt)...), nil
}

func (fsRepo *FileSystemRepository) Exists(_ context.Context, id domain.BlobID) bool {
	filename, err := fsRepo.Filename(id)
	if err != nil {
		return false
	}

	_, err = os.Stat(filename)

	return err == nil
}

func (fsRepo *FileSystemRepository) Store(ctx context.Context, blob *domain.Blob) (err error) {
	log := fsRepo.log.With(logging.Group("blob", "id", blob.ID, "size", blob.Size()))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "blob store failed", "error", err)
		} else {
			log.DebugContext(ctx, "blob stored")
		}
	}()

	filename, err := fsRepo.Filename(blob.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("mkdir all: %w", err)
	}

	file, err := os.CreateTemp(filepath.Dir(filename), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(file.Name())
		}
	}()

	if _, err := blob.WriteTo(file); err != nil {
		_ = file.Close()

		return fmt.Errorf("write: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(file.Name(), filename); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

func (fsRepo *FileSystemRepository) Fetch(ctx context.Context, id domain.BlobID) (*domain.Blob, error) {
	filename, err := fsRepo.Filename(id)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlobNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	body, err := os.ReadFile(filename)
	if err != nil {
		fsRepo.log.ErrorContext(ctx, "blob fetch failed", "id", id, "error", err)

		return nil, fmt.Errorf("read file: %w", err)
	}

	return &domain.Blob{ID: id, Body: body, Modified: info.ModTime()}, nil
}

func (fsRepo *FileSystemRepository) Delete(ctx context.Context, id domain.BlobID) error {
	filename, err := fsRepo.Filename(id)
	if err != nil {
		return err
	}

	if err := os.Remove(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}

	fsRepo.log.DebugContext(ctx, "blob deleted", "id", id)

	return nil
}

func (fsRepo *FileSystemRepository) Prune(ctx context.Context, before time.Time) (pruned int, err error) {
	defer func() {
		if err != nil {
			fsRepo.log.ErrorContext(ctx, "prune failed", "pruned", pruned, "error", err)
		} else {
			fsRepo.log.DebugContext(ctx, "pruned", "pruned", pruned)
		}
	}()

	err = filepath.WalkDir(fsRepo.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() || filepath.Ext(path) != blobExt {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("info: %w", err)
		}

		if info.ModTime().Before(before) {
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove: %w", err)
			}

			pruned++
		}

		return nil
	})
	if err != nil {
		return pruned, fmt.Errorf("walk: %w", err)
	}

	return pruned, nil
}

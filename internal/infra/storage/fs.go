package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-publishing/internal/core/port"
)

// FileStore keeps uploaded blobs on the local filesystem. References returned
// to callers are bare file names relative to the upload directory, so the
// directory can be relocated without rewriting stored posts.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore ensures the upload directory exists and returns a store over it.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	return &FileStore{dir: dir, logger: logger}, nil
}

// Save writes the blob under a random name, keeping the original extension.
func (s *FileStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	ref := uuid.NewString() + ext

	file, err := os.OpenFile(filepath.Join(s.dir, ref), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close blob file: %w", err)
	}

	s.logger.Debug("blob stored", zap.String("ref", ref))

	return ref, nil
}

// Remove deletes the referenced blob. A missing file is not an error so that
// callers can retry cleanup safely.
func (s *FileStore) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Reject anything that would escape the upload directory.
	if ref == "" || ref != filepath.Base(ref) {
		return fmt.Errorf("invalid blob reference %q", ref)
	}

	if err := os.Remove(filepath.Join(s.dir, ref)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove blob: %w", err)
	}

	return nil
}

var _ port.BlobStore = (*FileStore)(nil)

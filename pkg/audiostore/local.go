package audiostore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/clinscribe-ai/platform/pkg/common/logger"
)

// LocalStore keeps uploaded audio on the local filesystem. A stored blob is
// addressed by an opaque ref that callers treat as a handle, not a path.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes a new blob and returns its ref.
func (s *LocalStore) Save(data []byte, suffix string) (string, error) {
	if suffix == "" {
		suffix = ".bin"
	}
	ref := uuid.New().String() + suffix
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio blob: %w", err)
	}
	return ref, nil
}

// Append extends an existing blob, used by the streaming chunk endpoint.
func (s *LocalStore) Append(ref string, data []byte) error {
	f, err := os.OpenFile(filepath.Join(s.dir, filepath.Base(ref)), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audio blob %s: %w", ref, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to append audio blob %s: %w", ref, err)
	}
	return nil
}

func (s *LocalStore) Read(ref string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filepath.Base(ref)))
}

// Delete removes a blob best-effort; a missing blob is not an error.
func (s *LocalStore) Delete(ref string) {
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(ref))); err != nil && !os.IsNotExist(err) {
		logger.Log.WithError(err).WithField("ref", ref).Warn("failed to delete audio blob")
	}
}

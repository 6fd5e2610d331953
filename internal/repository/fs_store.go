// Package repository provides the artifact store backends: one trained model
// per symbol, keyed deterministically, overwritten in full on retrain.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"StockCast/internal/domain/errs"
)

// ArtifactName derives the storage key for a symbol's model. Same symbol,
// same key, always — which is what makes overwrites idempotent.
func ArtifactName(symbol string) string {
	return fmt.Sprintf("model_%s", symbol)
}

// FSStore keeps model artifacts as files in a single local directory.
// There is no locking: concurrent saves for one symbol are last-write-wins.
type FSStore struct {
	dir string
}

// NewFSStore creates the directory if needed and returns the store.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create models dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(symbol string) string {
	return filepath.Join(s.dir, ArtifactName(symbol)+".json")
}

func (s *FSStore) Exists(_ context.Context, symbol string) (bool, error) {
	_, err := os.Stat(s.path(symbol))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat artifact: %w", err)
}

func (s *FSStore) Load(_ context.Context, symbol string) ([]byte, error) {
	b, err := os.ReadFile(s.path(symbol))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Newf(errs.KindArtifactNotFound, "model for symbol %s not found", symbol).WithSymbol(symbol)
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return b, nil
}

func (s *FSStore) Save(_ context.Context, symbol string, artifact []byte) error {
	// write-then-rename so concurrent readers never observe a partial file
	tmp, err := os.CreateTemp(s.dir, ArtifactName(symbol)+".*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	if _, err := tmp.Write(artifact); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(symbol)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

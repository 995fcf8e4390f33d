// Package jsonfile stores the registry document as a JSON array on local disk.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/registry"
)

type RegistryRepo struct {
	path string
}

func NewRegistryRepo(path string) *RegistryRepo {
	return &RegistryRepo{path: path}
}

func (r *RegistryRepo) Load(_ context.Context) ([]int64, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	return registry.DecodeDocument(data)
}

// Save replaces the file through a rename so readers never see a torn write.
func (r *RegistryRepo) Save(_ context.Context, userIDs []int64) error {
	data, err := registry.EncodeDocument(userIDs)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp registry file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp registry file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp registry file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace registry file: %w", err)
	}
	return nil
}

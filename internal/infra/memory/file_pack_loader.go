package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"crowdquiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// FilePackLoader reads pack definitions from YAML files on disk, one file per
// pack, named <packID>.yaml.
type FilePackLoader struct {
	dir string
}

func NewFilePackLoader(dir string) *FilePackLoader {
	return &FilePackLoader{dir: dir}
}

func (l *FilePackLoader) LoadPack(_ context.Context, packID string) (domain.Pack, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, packID+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Pack{}, domain.ErrPackNotFound
	}
	if err != nil {
		return domain.Pack{}, fmt.Errorf("read pack file: %w", err)
	}
	var pack domain.Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return domain.Pack{}, fmt.Errorf("parse pack %s: %w", packID, err)
	}
	if pack.ID == "" {
		pack.ID = packID
	}
	return pack, nil
}

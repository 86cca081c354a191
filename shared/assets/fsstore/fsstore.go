// Package fsstore serves assets from a build directory on local disk.
package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mousey-app/dashboard/shared/assets"
)

type Storage struct {
	rootPath string
}

var _ assets.Writer = (*Storage)(nil)

func New(rootPath string) (*Storage, error) {
	p := filepath.Clean(rootPath)

	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset directory %s: %w", p, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset path %s is not a directory", p)
	}

	return &Storage{rootPath: p}, nil
}

// Root is the directory the store reads from.
func (s *Storage) Root() string {
	return s.rootPath
}

func (s *Storage) fullPath(key string) string {
	// CleanKey strips "..", so the result always stays under rootPath.
	return filepath.Join(s.rootPath, filepath.FromSlash(assets.CleanKey(key)))
}

func (s *Storage) Get(ctx context.Context, key string) (assets.Asset, error) {
	full := s.fullPath(key)

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return assets.Asset{}, fmt.Errorf("%w: %s", assets.ErrNotFound, key)
		}
		return assets.Asset{}, fmt.Errorf("failed to stat asset %s: %w", key, err)
	}
	if info.IsDir() {
		return assets.Asset{}, fmt.Errorf("%w: %s is a directory", assets.ErrNotFound, key)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return assets.Asset{}, fmt.Errorf("failed to read asset %s: %w", key, err)
	}
	return assets.Asset{Key: assets.CleanKey(key), Data: data, Modified: info.ModTime()}, nil
}

func (s *Storage) Put(ctx context.Context, key string, data []byte) error {
	full := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create subdirectories: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		os.Remove(full)
		return fmt.Errorf("failed to write asset %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.fullPath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete asset %s: %w", key, err)
	}
	return nil
}

func (s *Storage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.rootPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.rootPath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

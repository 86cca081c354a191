// Package pebblestore keeps published dashboard builds in a Pebble database,
// playing the role of the edge's key-value namespace.
package pebblestore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/mousey-app/dashboard/shared/assets"
	"github.com/mousey-app/dashboard/shared/logger"
)

// Values are stored as an 8 byte big endian unix-nano publish time followed by the file bytes.
const (
	keyPrefix  = "asset:"
	headerSize = 8
)

type Store struct {
	db  *pebble.DB
	now func() time.Time
}

var _ assets.Writer = (*Store)(nil)

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	return open(path, &pebble.Options{})
}

// OpenInMemory is used by tests and dry runs.
func OpenInMemory() (*Store, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()})
}

func open(path string, opts *pebble.Options) (*Store, error) {
	db, err := pebble.Open(path, opts)
	if err != nil {
		logger.Log.Error("pebble open failed", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open pebble at %s: %w", path, err)
	}
	logger.Log.Info("pebble opened", "path", path)
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Get(ctx context.Context, key string) (assets.Asset, error) {
	key = assets.CleanKey(key)
	v, closer, err := s.db.Get([]byte(keyPrefix + key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return assets.Asset{}, fmt.Errorf("%w: %s", assets.ErrNotFound, key)
		}
		return assets.Asset{}, fmt.Errorf("failed to get asset %s: %w", key, err)
	}
	defer closer.Close()

	if len(v) < headerSize {
		return assets.Asset{}, fmt.Errorf("corrupt asset record %s", key)
	}
	// v is only valid until closer.Close.
	data := make([]byte, len(v)-headerSize)
	copy(data, v[headerSize:])
	modified := time.Unix(0, int64(binary.BigEndian.Uint64(v[:headerSize])))

	return assets.Asset{Key: key, Data: data, Modified: modified}, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	key = assets.CleanKey(key)
	buf := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint64(buf, uint64(s.now().UnixNano()))
	copy(buf[headerSize:], data)

	if err := s.db.Set([]byte(keyPrefix+key), buf, pebble.Sync); err != nil {
		return fmt.Errorf("failed to put asset %s: %w", key, err)
	}
	return nil
}

// PutBatch writes all files atomically so a half published build is never served.
func (s *Store) PutBatch(ctx context.Context, files map[string][]byte) error {
	b := s.db.NewBatch()
	defer b.Close()

	ts := uint64(s.now().UnixNano())
	for key, data := range files {
		buf := make([]byte, headerSize+len(data))
		binary.BigEndian.PutUint64(buf, ts)
		copy(buf[headerSize:], data)
		if err := b.Set([]byte(keyPrefix+assets.CleanKey(key)), buf, nil); err != nil {
			return fmt.Errorf("failed to stage asset %s: %w", key, err)
		}
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to commit asset batch: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.Delete([]byte(keyPrefix+assets.CleanKey(key)), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	lower := []byte(keyPrefix + prefix)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upperBound(lower),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()[len(keyPrefix):]))
	}
	return keys, iter.Error()
}

// upperBound returns the smallest key greater than every key starting with prefix.
func upperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

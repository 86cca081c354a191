// Package assets describes the key-value store that holds the built dashboard.
//
// Keys are slash separated paths without a leading slash, e.g.
// "static/js/archive.3f2a9c1e.js". Values are the raw file bytes.
package assets

import (
	"context"
	"errors"
	"mime"
	"path"
	"sort"
	"strings"
	"time"
)

var ErrNotFound = errors.New("asset not found")

type Asset struct {
	Key      string
	Data     []byte
	Modified time.Time
}

// ContentType is derived from the key's extension.
func (a Asset) ContentType() string {
	return ContentTypeOf(a.Key)
}

type Store interface {
	// Get returns ErrNotFound (possibly wrapped) when key is absent.
	Get(ctx context.Context, key string) (Asset, error)
}

// Writer is implemented by stores the publishing tool can write to.
type Writer interface {
	Store
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// ContentTypeOf maps a key to its declared content type.
func ContentTypeOf(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// CleanKey normalizes a request path into a store key.
func CleanKey(p string) string {
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// MapStore is an in-memory store, used for tests and embedded fallbacks.
type MapStore map[string][]byte

var _ Writer = MapStore(nil)

func (m MapStore) Get(ctx context.Context, key string) (Asset, error) {
	data, ok := m[key]
	if !ok {
		return Asset{}, ErrNotFound
	}
	return Asset{Key: key, Data: data}, nil
}

func (m MapStore) Put(ctx context.Context, key string, data []byte) error {
	m[key] = data
	return nil
}

func (m MapStore) Delete(ctx context.Context, key string) error {
	delete(m, key)
	return nil
}

func (m MapStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mousey-app/dashboard/shared/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("fs", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0o644))

		s, err := Open("fs", dir)
		require.NoError(t, err)
		defer s.Cleanup()

		a, err := s.Get(ctx, "index.html")
		require.NoError(t, err)
		assert.Equal(t, []byte("<html>"), a.Data)
	})

	t.Run("pebble", func(t *testing.T) {
		s, err := Open("pebble", filepath.Join(t.TempDir(), "assets.db"))
		require.NoError(t, err)
		defer s.Cleanup()

		require.NoError(t, s.Put(ctx, "index.html", []byte("<html>")))
		_, err = s.Get(ctx, "missing.html")
		assert.ErrorIs(t, err, assets.ErrNotFound)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open("s3", "bucket")
		assert.Error(t, err)
	})

	t.Run("missing fs root", func(t *testing.T) {
		_, err := Open("fs", filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}

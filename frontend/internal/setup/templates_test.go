package setup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mousey-app/dashboard/frontend/internal/boundary"
	frontend_domain "github.com/mousey-app/dashboard/frontend/internal/domain"
	"github.com/mousey-app/dashboard/frontend/internal/handler"
	"github.com/mousey-app/dashboard/shared/assets"
	"github.com/mousey-app/dashboard/shared/assets/fsstore"
	"github.com/mousey-app/dashboard/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webRoot = "../../../web"

func webStore(t *testing.T) assets.MapStore {
	t.Helper()
	fs, err := fsstore.New(webRoot)
	require.NoError(t, err)

	keys, err := fs.List(context.Background(), "")
	require.NoError(t, err)

	m := assets.MapStore{}
	for _, k := range keys {
		a, err := fs.Get(context.Background(), k)
		require.NoError(t, err)
		m[k] = a.Data
	}
	return m
}

func TestLoadBundle_BuiltDashboard(t *testing.T) {
	bundle, err := LoadBundle(webStore(t))(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "static/css/main.8b1d2e4f.css", bundle.Stylesheet)
	assert.Equal(t, "static/js/archive.3f2a9c1e.js", bundle.Script)
	require.Contains(t, bundle.Templates, "archive.html")
	require.Contains(t, bundle.Templates, "status.html")

	avatar := "a_1f2e"
	page := frontend_domain.ArchivePageData{
		Id:            "175928847299117063",
		ExpiresAt:     "2016-05-30 11:18:25",
		TranscriptURL: "/archives/175928847299117063/transcript",
		Messages: []*frontend_domain.Message{{
			Message: domain.Message{
				Id:     175928847299117063,
				Author: domain.User{Id: 1, Name: "mousey", Discriminator: "0001", Avatar: &avatar, Bot: true},
			},
			Classes:   "message deleted",
			Timestamp: "2016-04-30 11:18:25",
			Content:   "<script>alert(1)</script>",
			Avatar:    frontend_domain.Avatar{WebP: "https://cdn/a.webp", PNG: "https://cdn/a.png", Alt: "avatar"},
			Attachments: []frontend_domain.Attachment{
				{URL: "https://cdn/attachments/1/2/cat.png", Filename: "cat.png"},
			},
		}},
	}

	var buf bytes.Buffer
	err = bundle.Templates["archive.html"].Execute(&buf, handler.TemplateData{
		Data:   page,
		Common: frontend_domain.CommonTemplateData{Title: "Archive", Stylesheet: bundle.Stylesheet, Script: bundle.Script, Timezone: "UTC", DetectTimezone: true},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "This archive expires on 2016-05-30 11:18:25.")
	assert.Contains(t, html, `<source srcset="https://cdn/a.webp" type="image/webp">`)
	assert.Contains(t, html, `alt="avatar"`)
	assert.Contains(t, html, `target="_blank" rel="noopener noreferrer"`)
	assert.Contains(t, html, `loading="lazy"`)
	assert.Contains(t, html, `class="message deleted"`)
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, html, `<script type="module" src="/static/js/archive.3f2a9c1e.js">`)
	assert.Contains(t, html, "BOT")
	assert.Contains(t, html, `data-tz="UTC" data-tz-detect>`)
}

func TestLoadBundle_Failures(t *testing.T) {
	tests := []struct {
		name         string
		drop         string
		wantResource string
		wantModule   bool
	}{
		{"missing script chunk", "static/js/archive.3f2a9c1e.js", "static/js/archive.3f2a9c1e.js", true},
		{"missing template", "templates/archive.html", "templates/archive.html", false},
		{"missing manifest", "asset-manifest.json", "asset-manifest.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := webStore(t)
			delete(store, tt.drop)

			_, err := LoadBundle(store)(context.Background())
			var le *boundary.LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.wantResource, le.Resource)
			assert.ErrorIs(t, err, assets.ErrNotFound)
			assert.Equal(t, tt.wantModule, boundary.IsModuleLoad(err))
		})
	}
}

func TestLoadBundle_BadTemplate(t *testing.T) {
	store := webStore(t)
	store["templates/status.html"] = []byte(`{{define "content"}}{{.Data.Message}`)

	_, err := LoadBundle(store)(context.Background())
	var le *boundary.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "templates/status.html", le.Resource)
	assert.False(t, boundary.IsModuleLoad(err))
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "web/templates/archive.html", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "web/asset-manifest.json", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "web/static/js/archive.1.js", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "web/templates/.archive.html.swp", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "web/static/css/main.css", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "web/templates/archive.html", Op: fsnotify.Chmod}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relevant(tt.event), tt.event.String())
	}
}

type countingResetter struct{ n chan struct{} }

func (c *countingResetter) Reset() { c.n <- struct{}{} }

func TestWatchTemplates_ResetsOnChange(t *testing.T) {
	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	require.NoError(t, watcher.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &countingResetter{n: make(chan struct{}, 4)}
	go watchTemplates(ctx, watcher, r)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive.html"), []byte("y"), 0o644))

	select {
	case <-r.n:
	case <-time.After(5 * time.Second):
		t.Fatal("page module was not reset")
	}
	// both writes fall inside one debounce window
	time.Sleep(2 * reloadDebounce)
	assert.Empty(t, r.n)
}

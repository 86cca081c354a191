package setup

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/storage"
)

const reloadDebounce = 500 * time.Millisecond

type resetter interface {
	Reset()
}

type rooted interface {
	Root() string
}

// startTemplateReloader drops the cached page module whenever a template,
// the manifest or a script chunk changes on disk. Only fs stores can be watched.
func startTemplateReloader(ctx context.Context, pages resetter, store *storage.Storage) error {
	fs, ok := store.Writer.(rooted)
	if !ok {
		return errors.New("asset store is not a directory")
	}
	root := fs.Root()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range []string{root, filepath.Join(root, "templates"), filepath.Join(root, "static", "js")} {
		if err := watcher.Add(dir); err != nil {
			logger.Log.Debug("not watching directory", "dir", dir, "error", err)
		}
	}

	go watchTemplates(ctx, watcher, pages)
	logger.Log.Info("template reloader started", "root", root)
	return nil
}

func watchTemplates(ctx context.Context, watcher *fsnotify.Watcher, pages resetter) {
	defer watcher.Close()

	var debounce *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				logger.Log.Info("assets changed, reloading page module", "file", event.Name)
				pages.Reset()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("watcher error", "error", err)

		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return
		}
	}
}

func relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	switch filepath.Ext(base) {
	case ".html", ".js", ".json":
	default:
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}

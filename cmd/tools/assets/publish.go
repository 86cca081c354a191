package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mousey-app/dashboard/shared/assets"
	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/snowflake"
	"github.com/mousey-app/dashboard/shared/utils"
)

// buildInfoKey is written with every publish so a deployment can be identified over HTTP.
const buildInfoKey = "build.json"

type buildInfo struct {
	Batch       snowflake.ID      `json:"batch"`
	PublishedAt time.Time         `json:"published_at"`
	Files       int               `json:"files"`
	Bytes       int64             `json:"bytes"`
	Hashes      map[string]string `json:"hashes"`
}

type batchWriter interface {
	PutBatch(ctx context.Context, files map[string][]byte) error
}

var (
	publishPrune  bool
	publishDryRun bool
	publishWorker int
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <build-dir>",
		Short: "Upload every file of a build directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runPublish,
	}
	cmd.Flags().BoolVar(&publishPrune, "prune", false, "remove keys that are not part of the build")
	cmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().IntVar(&publishWorker, "worker", 0, "worker id stamped into the batch snowflake (0-31)")
	return cmd
}

// readBuild loads every regular file under dir keyed by its slash separated relative path.
func readBuild(dir string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files[assets.CleanKey(filepath.ToSlash(rel))] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read build %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("build %s is empty", dir)
	}
	return files, nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	files, err := readBuild(args[0])
	if err != nil {
		return err
	}
	if _, ok := files["asset-manifest.json"]; !ok {
		logger.Log.Warn("build has no asset-manifest.json, the dashboard will not find its pages")
	}

	gen, err := snowflake.NewGenerator(publishWorker)
	if err != nil {
		return err
	}
	info := buildInfo{Batch: gen.Next(), PublishedAt: time.Now().UTC(), Hashes: make(map[string]string, len(files))}
	for key, data := range files {
		info.Files++
		info.Bytes += int64(len(data))
		info.Hashes[key] = utils.ContentHash(data)
	}
	infoJSON, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Cleanup()

	var stale []string
	if publishPrune {
		existing, err := store.List(ctx, "")
		if err != nil {
			return err
		}
		for _, key := range existing {
			if _, ok := files[key]; !ok && key != buildInfoKey {
				stale = append(stale, key)
			}
		}
	}

	if publishDryRun {
		keys := make([]string, 0, len(files))
		for k := range files {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "put %s (%s)\n", k, humanize.Bytes(uint64(len(files[k]))))
		}
		for _, k := range stale {
			fmt.Fprintf(out, "delete %s\n", k)
		}
		return nil
	}

	files[buildInfoKey] = infoJSON
	if bw, ok := store.Writer.(batchWriter); ok {
		err = bw.PutBatch(ctx, files)
	} else {
		for key, data := range files {
			if err = store.Put(ctx, key, data); err != nil {
				break
			}
		}
	}
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	for _, key := range stale {
		if err := store.Delete(ctx, key); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "published batch %s: %s files, %s", info.Batch, humanize.Comma(int64(info.Files)), humanize.Bytes(uint64(info.Bytes)))
	if len(stale) > 0 {
		fmt.Fprintf(out, ", pruned %d", len(stale))
	}
	fmt.Fprintln(out)
	return nil
}

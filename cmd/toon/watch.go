package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Neumenon/toon/internal/log"
)

// runWatch encodes cmd.Input once, then again every time it is written,
// created or renamed over, until ctx is done. A change that fails to convert
// is logged and the previous output is kept.
func runWatch(ctx context.Context, cfg *Config, cmd *watchCmd, stdout io.Writer) error {
	if err := convertFile(cfg, cmd, stdout); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: failed to create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory so editors that replace the file are still seen.
	dir := filepath.Dir(cmd.Input)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch: failed to watch directory %q: %w", dir, err)
	}
	filename := filepath.Base(cmd.Input)
	log.I.F("watching %s", cmd.Input)

	return watchLoop(ctx, w, filename, func() {
		if err := convertFile(cfg, cmd, stdout); err != nil {
			if isNotExist(err) {
				log.D.Ln(cmd.Input, "is gone, waiting for it to come back")
				return
			}
			log.E.Ln(err)
		}
	})
}

// watchLoop calls onChange for every event on filename.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, filename string, onChange func()) error {
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			log.T.Ln("event", event)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.E.Ln("watch:", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func convertFile(cfg *Config, cmd *watchCmd, stdout io.Writer) error {
	data, err := os.ReadFile(cmd.Input)
	if err != nil {
		return err
	}
	out, err := encodeDocument(cfg, cmd.Input, "", data)
	if err != nil {
		return err
	}
	log.I.F("encoded %s: %d -> %d bytes", cmd.Input, len(data), len(out))
	return writeOutput(cmd.Output, stdout, out)
}

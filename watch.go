package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"go-umlgraph/internal/errors"
	"go-umlgraph/internal/logger"
)

// WatchArtifact calls regenerate after changes to artifact until ctx is
// done. Bursts of events within debounce collapse into one call. Events on
// outPath, the file regenerate itself writes, are ignored.
func WatchArtifact(ctx context.Context, artifact, outPath string, debounce time.Duration, regenerate func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer watcher.Close()

	root := filepath.Clean(strings.TrimSuffix(artifact, "/..."))
	info, err := os.Stat(root)
	if err != nil {
		return errors.WrapArtifactAccess(err, artifact)
	}

	// A single file is watched through its directory so that editors that
	// replace the file on save keep being seen.
	onlyFile := ""
	if info.IsDir() {
		if err := addTree(watcher, root); err != nil {
			return err
		}
	} else {
		onlyFile = root
		if err := watcher.Add(filepath.Dir(root)); err != nil {
			return errors.Wrapf(err, "failed to watch %s", root)
		}
	}

	absOut, _ := filepath.Abs(outPath)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if abs, _ := filepath.Abs(event.Name); abs == absOut {
				continue
			}
			if onlyFile != "" && filepath.Clean(event.Name) != onlyFile {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addTree(watcher, event.Name); err != nil {
						logger.Warnw("Cannot watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debugw("Artifact changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := regenerate(); err != nil {
				logger.Errorw("Regeneration failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("Watcher error", "error", err)
		}
	}
}

// addTree watches dir and its subdirectories, skipping hidden ones.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

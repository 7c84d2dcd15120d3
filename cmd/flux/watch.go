package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fluxlang/flux/config"
)

// runWatch executes a script, then re-runs it whenever it changes on
// disk, until interrupted.
func runWatch(filename string, cfg *config.Config) error {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that save via
	// rename-and-replace would otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	var lastRun time.Time

	fmt.Fprintf(os.Stderr, "watching %s\n", filename)
	runWatchedFile(filename, cfg)

	for {
		select {
		case <-interrupt:
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// The script or any sibling module it might import
			changed, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if changed != absPath && filepath.Ext(changed) != ".flux" {
				continue
			}
			if time.Since(lastRun) < debounce {
				continue
			}
			lastRun = time.Now()

			fmt.Fprintf(os.Stderr, "\n%s changed, re-running\n", filename)
			runWatchedFile(filename, cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// runWatchedFile runs the script and reports errors without exiting,
// so a broken save does not stop the watch loop.
func runWatchedFile(filename string, cfg *config.Config) {
	if code := executeFile(filename, cfg); code != 0 {
		fmt.Fprintf(os.Stderr, "exit status %d\n", code)
	}
}

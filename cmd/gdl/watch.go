package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gdlogic/pkg/gdl"
)

const watchDebounce = 250 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-lex and re-parse a GDL source file on every save, printing diagnostics",
	Long: `Watch is a convenience for GDL authors, not an interactive REPL: it
takes no turns and holds no game state. It re-validates the file's syntax
and reserved-word usage each time the file changes on disk, and prints
either "ok" or a parse/validation error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := resolveFiles(args)
		if err != nil {
			return err
		}
		return runWatch(cmd.Context(), resolved[0])
	},
}

func runWatch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Info("watching for changes", zap.String("file", path))
	validateFile(path)

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Every qualifying event pushes validation back out by a full
			// debounce window, so a burst of saves settles once instead of
			// firing mid-write.
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", zap.Error(err))

		case <-debounce.C:
			validateFile(path)
		}
	}
}

func validateFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return
	}

	tokens := gdl.Lex(path, string(data))
	trees, err := gdl.Parse(tokens)
	if err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return
	}

	sm, err := gdl.NewStateMachine(gdl.NewDatabase())
	if err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return
	}
	if err := sm.Store(path, string(data)); err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return
	}
	fmt.Printf("%s: ok (%d forms)\n", path, len(trees))
}

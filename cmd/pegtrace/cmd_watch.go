package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/ava12/peg/examples/arithmetic"
)

const watchDebounce = 250 * time.Millisecond

func newWatchCmd(logger *logr.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-evaluate the expression in a file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], logger)
		},
	}
}

func runWatch(cmd *cobra.Command, path string, logger *logr.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return cerrors.Wrap(err, "create watcher")
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		return cerrors.Wrapf(err, "watch %q", path)
	}

	g := arithmetic.New()
	evalFile(cmd, g, path, logger)

	// fsnotify can fire several events for a single edit (rename, chmod,
	// remove then recreate); a short debounce timer collapses a burst
	// into one re-evaluation.
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Remove == fsnotify.Remove {
				_ = w.Add(path)
			}
			timer.Reset(watchDebounce)

		case <-timer.C:
			evalFile(cmd, g, path, logger)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error(err, "watch error", "path", path)
		}
	}
}

func evalFile(cmd *cobra.Command, g *arithmetic.Grammar, path string, logger *logr.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error(err, "read", "path", path)
		return
	}

	expr := strings.TrimSpace(string(data))
	result, err := arithmetic.Eval(g, expr)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}

	logger.V(1).Info("re-evaluated", "path", path, "expression", expr, "result", result)
	fmt.Fprintln(cmd.OutOrStdout(), result)
}

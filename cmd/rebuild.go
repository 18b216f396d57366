package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/agentregistry/agr/internal/config"
	"github.com/agentregistry/agr/internal/registry"
	"github.com/agentregistry/agr/internal/telemetry"
)

var flagRebuildWatch bool

// watchDebounce coalesces editor write bursts into one rebuild.
const watchDebounce = 500 * time.Millisecond

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rescan agent documents and regenerate the registry index",
	Args:  cobra.NoArgs,
	RunE:  runRebuild,
}

func init() {
	rebuildCmd.Flags().BoolVar(&flagRebuildWatch, "watch", false, "Keep watching the agents directory and rebuild on changes")
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(_ *cobra.Command, _ []string) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create registry directory %s: %w", dir, err)
	}

	unlock, err := acquireRebuildLock(dir, 10*time.Second)
	if err != nil {
		return err
	}
	defer unlock()

	if err := rebuildOnce(dir); err != nil {
		return err
	}
	if !flagRebuildWatch {
		return nil
	}
	return watchAndRebuild(dir)
}

func rebuildOnce(dir string) error {
	reg, err := registry.Scan(dir)
	if err != nil {
		return err
	}
	if err := registry.Save(config.RegistryPath(dir), reg); err != nil {
		return err
	}
	printOK(fmt.Sprintf("indexed %d agents (~%d tokens)", reg.Stats.TotalAgents, reg.Stats.TotalTokens))
	telemetry.Track("rebuild", map[string]string{"n": strconv.Itoa(reg.Stats.TotalAgents)})
	return nil
}

// watchAndRebuild re-runs the rebuild whenever the agents directory
// changes, debouncing event bursts, until interrupted.
func watchAndRebuild(dir string) error {
	agentsDir := config.AgentsDir(dir)
	if err := os.MkdirAll(agentsDir, 0o755); err != nil {
		return fmt.Errorf("cannot create agents directory %s: %w", agentsDir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(agentsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cannot watch agents directory: %w", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	printInfo(fmt.Sprintf("watching %s for changes", agentsDir))

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New subdirectories need their own watch.
			if ev.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := rebuildOnce(dir); err != nil {
				printErr(err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarn(err.Error())
		case <-interrupt:
			return nil
		}
	}
}

// acquireRebuildLock obtains the per-registry rebuild lock so two
// rebuilds of the same registry do not interleave their scans.
func acquireRebuildLock(dir string, timeout time.Duration) (func(), error) {
	lockPath := filepath.Join(dir, "rebuild.lock")
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire rebuild lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("another rebuild is in progress (lock: %s)", lockPath)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/metricsserver"
	"go.ntppool.org/common/version"

	"go.ntppool.org/locselect/locselect"
)

type WatchCmd struct {
	Inputs `embed:""`

	JSON        bool          `name:"json" help:"print each result as JSON"`
	MetricsPort int           `default:"9000" env:"LOCSELECT_METRICS_PORT" help:"Metrics server port" flag:"metrics-port"`
	Debounce    time.Duration `default:"250ms" help:"wait this long after the last change before re-running"`
}

func (cmd *WatchCmd) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	log.InfoContext(ctx, "locselect watch starting", "version", version.Version())

	metricssrv := metricsserver.New()
	version.RegisterMetric("locselect", metricssrv.Registry())
	go func() {
		if err := metricssrv.ListenAndServe(ctx, cmd.MetricsPort); err != nil {
			log.Error("metrics server error", "err", err)
		}
	}()

	metrics := locselect.NewMetrics(metricssrv.Registry())

	return cmd.watch(ctx, func(ctx context.Context) error {
		res, err := evaluate(ctx, &cmd.Inputs, metrics)
		if err != nil {
			return err
		}
		if cmd.JSON {
			return writeJSON(os.Stdout, res)
		}
		return writeText(os.Stdout, res)
	})
}

// watchedFiles maps the absolute path of each input to its directory.
// The directories are watched, not the files, so editors that replace the
// file on save keep triggering events.
func (cmd *WatchCmd) watchedFiles() map[string]string {
	files := map[string]string{}
	for _, p := range []string{cmd.Dataset, cmd.Selection} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		files[abs] = filepath.Dir(abs)
	}
	return files
}

// watch runs fn once and again after every change to the inputs, until ctx
// is done. Failed runs are retried with exponential backoff until they
// succeed or an input changes.
func (cmd *WatchCmd) watch(ctx context.Context, fn func(context.Context) error) error {
	log := logger.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	files := cmd.watchedFiles()
	dirs := map[string]bool{}
	for _, dir := range files {
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
		log.InfoContext(ctx, "watching directory for changes", "dir", dir)
	}

	expback := backoff.NewExponentialBackOff()
	expback.InitialInterval = time.Second * 1
	expback.MaxInterval = time.Second * 60

	debounce := cmd.Debounce
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	var debounceTimer *time.Timer
	var retryTimer *time.Timer

	stop := func(t *time.Timer) {
		if t != nil {
			t.Stop()
		}
	}
	defer func() {
		stop(debounceTimer)
		stop(retryTimer)
	}()

	runOnce := func() {
		err := fn(ctx)
		if err == nil {
			expback.Reset()
			return
		}
		if ctx.Err() != nil {
			return
		}
		wait := expback.NextBackOff()
		log.WarnContext(ctx, "selection run failed, retrying", "err", err, "wait", wait)
		stop(retryTimer)
		retryTimer = time.NewTimer(wait)
	}

	runOnce()

	for {
		var debounceC, retryC <-chan time.Time
		if debounceTimer != nil {
			debounceC = debounceTimer.C
		}
		if retryTimer != nil {
			retryC = retryTimer.C
		}

		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "watch shutting down")
			return nil

		case <-debounceC:
			log.DebugContext(ctx, "debounce timer fired, re-running selection")
			debounceTimer = nil
			runOnce()

		case <-retryC:
			retryTimer = nil
			runOnce()

		case event, ok := <-watcher.Events:
			if !ok {
				log.WarnContext(ctx, "file watcher events channel closed")
				return nil
			}
			if _, watched := files[event.Name]; !watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.InfoContext(ctx, "input changed", "event", event.String())

			// a change supersedes any pending retry
			stop(retryTimer)
			retryTimer = nil
			expback.Reset()

			stop(debounceTimer)
			debounceTimer = time.NewTimer(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				log.WarnContext(ctx, "file watcher error channel closed")
				return nil
			}
			log.WarnContext(ctx, "file watcher error", "err", err)
		}
	}
}

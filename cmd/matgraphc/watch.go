package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		outDir       string
		withManifest bool
		debounce     time.Duration
		metricsAddr  string
	)
	cmd := &cobra.Command{
		Use:   "watch [flags] <graph>...",
		Short: "Recompile graphs when their documents change",
		Long: "Watch compiles every graph once, then recompiles a graph each time\n" +
			"its document is written. Changes are batched over the debounce\n" +
			"window. Failures are logged and watching continues. Outputs go to\n" +
			"--out, or next to each document.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			if debounce <= 0 {
				debounce = a.cfg.Compile.Debounce
			}
			w := &watcher{app: a, outDir: outDir, manifest: withManifest, debounce: debounce}
			if metricsAddr != "" {
				stop, err := serveMetrics(a, metricsAddr)
				if err != nil {
					return err
				}
				defer stop()
			}
			return w.run(cmd.Context(), paths)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&outDir, "out", "o", "", "output directory (default: next to each document)")
	f.BoolVar(&withManifest, "manifest", false, "also write the resource manifest")
	f.DurationVar(&debounce, "debounce", 0, "quiet period before recompiling (default from config)")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	return cmd
}

type watcher struct {
	app      *app
	outDir   string
	manifest bool
	debounce time.Duration
}

func (w *watcher) run(ctx context.Context, paths []string) error {
	targets := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = p
		dirs[filepath.Dir(abs)] = true
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()
	// Editors replace files on save; watching the directory survives that.
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.rebuild(ctx, paths)
	w.app.log.Info("watching graphs", "graphs", len(paths), "debounce", w.debounce)

	ctx, cancel := context.WithCancel(ctx)
	changed := make(chan string, 64)
	done := make(chan struct{})
	defer func() {
		cancel()
		<-done
	}()
	go func() {
		defer close(done)
		debounceLoop(ctx, changed, w.debounce, func(batch []string) {
			w.rebuild(ctx, batch)
		})
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if p, ok := targets[filepath.Clean(event.Name)]; ok {
				select {
				case changed <- p:
				case <-ctx.Done():
				}
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.app.log.Warn("watcher error", "error", err)
		}
	}
}

// rebuild compiles paths and writes their outputs, logging failures.
func (w *watcher) rebuild(ctx context.Context, paths []string) {
	opts, err := w.app.compileOptions()
	if err != nil {
		w.app.log.Error("invalid options", "error", err)
		return
	}
	each := func(j *job) error {
		dir := w.outDir
		if dir == "" {
			dir = filepath.Dir(j.path)
		}
		_, err := writeOutputs(dir, j, w.manifest)
		return err
	}
	_, err = compileAll(ctx, paths, w.app.jobs(0), true, opts, each)
	if err != nil {
		for _, e := range unjoin(err) {
			w.app.log.Error("compile failed", "error", e)
		}
	}
}

// debounceLoop collects paths from in and calls flush with the distinct
// paths, sorted, once no path has arrived for window. Pending paths are
// dropped when ctx is done.
func debounceLoop(ctx context.Context, in <-chan string, window time.Duration, flush func([]string)) {
	pending := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case p := <-in:
			pending[p] = true
			if timer == nil {
				timer = time.NewTimer(window)
				timerC = timer.C
			} else {
				timer.Reset(window)
			}
		case <-timerC:
			timer, timerC = nil, nil
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			clear(pending)
			flush(batch)
		}
	}
}

// serveMetrics exposes the default Prometheus registry on addr. The
// returned function shuts the server down.
func serveMetrics(a *app, addr string) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server", "error", err)
		}
	}()
	a.log.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.log.Warn("metrics shutdown", "error", err)
		}
	}, nil
}

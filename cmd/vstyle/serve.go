package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recera/vango-styles/internal/metrics"
	"github.com/recera/vango-styles/internal/server"
	"github.com/recera/vango-styles/pkg/live"
	"github.com/recera/vango-styles/pkg/styling"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		addr     string
		watchDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the style sheet over HTTP and websockets",
		Long: `Starts the style server. Style objects posted to /classes are compiled
and their rules pushed to every client connected to the live endpoint.
With --watch, style object files in a directory are compiled on start and
again whenever they change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a, watchDir)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (overrides the configuration)")
	cmd.Flags().StringVarP(&watchDir, "watch", "w", "", "Directory of style object files to compile and watch")
	return cmd
}

func runServe(ctx context.Context, a *app, watchDir string) error {
	mode, err := a.cfg.SheetMode()
	if err != nil {
		return err
	}
	if mode != styling.ModeText {
		a.log.Warn("Live sheets only support text mode, ignoring configured mode", zap.Stringer("mode", mode))
	}

	opts := server.Options{
		Live:     live.NewServer(live.WithLogger(a.log)),
		Logger:   a.log,
		LivePath: a.cfg.Server.LivePath,
	}
	if a.cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)
		opts.Engine = a.engine(styling.WithObserver(m))
		m.WatchCache(opts.Engine.Cache())
		opts.Gatherer = reg
	} else {
		opts.Engine = a.engine()
	}

	srv, err := server.New(opts)
	if err != nil {
		return err
	}
	defer srv.Live().Close()

	if watchDir != "" {
		w, err := newWatcher(a, srv, watchDir)
		if err != nil {
			return err
		}
		defer w.Close()
		go w.run(ctx)
	}

	httpSrv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Style server listening", zap.String("addr", httpSrv.Addr), zap.String("live", a.cfg.Server.LivePath))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Live().Close()
	return httpSrv.Shutdown(shutdownCtx)
}

// watcher recompiles style object files when they change and commits the
// result to the server's sheet
type watcher struct {
	fs       *fsnotify.Watcher
	srv      *server.Server
	log      *zap.Logger
	debounce time.Duration
	exts     map[string]bool
}

func newWatcher(a *app, srv *server.Server, dir string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &watcher{
		fs:       fsw,
		srv:      srv,
		log:      a.log.Named("watch"),
		debounce: a.cfg.Watch.Debounce,
		exts:     make(map[string]bool),
	}
	for _, ext := range a.cfg.Watch.Extensions {
		w.exts[strings.ToLower(ext)] = true
	}

	var initial []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		}
		if w.isRelevantFile(path) {
			initial = append(initial, path)
		}
		return nil
	})
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.compile(initial)
	return w, nil
}

func (w *watcher) Close() error {
	return w.fs.Close()
}

func (w *watcher) isRelevantFile(path string) bool {
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

func (w *watcher) run(ctx context.Context) {
	debounce := time.NewTimer(0)
	<-debounce.C

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = w.fs.Add(event.Name)
					continue
				}
			}
			if !w.isRelevantFile(event.Name) || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			pending[event.Name] = true
			debounce.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("Watcher error", zap.Error(err))

		case <-debounce.C:
			paths := slices.Sorted(maps.Keys(pending))
			clear(pending)
			w.compile(paths)
		}
	}
}

// compile commits each file's rules; a broken file is logged and skipped
func (w *watcher) compile(paths []string) {
	e := w.srv.Engine()
	for _, p := range paths {
		c := compileFile(e, p)
		if c.Err == nil {
			c.Err = e.Commit(c.Records, w.srv.Sheet())
		}
		if c.Err != nil {
			w.log.Error("Unable to compile style object", zap.String("file", p), zap.Error(c.Err))
			continue
		}
		w.log.Info("Compiled", zap.String("file", p), zap.String("classes", c.ClassName))
	}
}

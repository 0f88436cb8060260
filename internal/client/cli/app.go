package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/medscribe/internal/client/api"
	"github.com/dmitrijs2005/medscribe/internal/client/config"
	"github.com/dmitrijs2005/medscribe/internal/client/export"
	"github.com/dmitrijs2005/medscribe/internal/client/metrics"
	"github.com/dmitrijs2005/medscribe/internal/client/services"
	"github.com/dmitrijs2005/medscribe/internal/client/session"
	"github.com/dmitrijs2005/medscribe/internal/client/storage"
	"github.com/dmitrijs2005/medscribe/internal/client/store"
	"github.com/dmitrijs2005/medscribe/internal/client/tester"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

type App struct {
	config   *config.Config
	sess     *session.Manager
	svc      *services.Services
	store    *store.Store
	tester   *tester.Tester
	exporter *export.Exporter
	metrics  *metrics.Collector
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	closers  []func() error
}

// NewApp opens the credential database, restores any saved session and
// wires the API client, the services and the state store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(logging.Options{
		Backend: c.LogBackend,
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		Output:  os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a, err := build(ctx, c, storage.NewSQLiteRepository(db), sink, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	if z, ok := logger.(*logging.ZapLogger); ok {
		a.closers = append(a.closers, z.Sync)
	}
	return a, nil
}

func newSink(ctx context.Context, c *config.Config) (export.Sink, error) {
	switch c.ExportSink {
	case "", config.SinkFile:
		return export.NewFileSink(c.ExportDir)
	case config.SinkS3:
		return export.NewS3Sink(ctx, c.S3())
	default:
		return nil, fmt.Errorf("unknown export sink %q", c.ExportSink)
	}
}

// build wires an App on top of an already opened credential repository.
func build(ctx context.Context, c *config.Config, repo storage.Repository, sink export.Sink, logger logging.Logger) (*App, error) {
	sess := session.NewManager(repo, logger)
	if err := sess.Load(ctx); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	m := metrics.NewCollector(prometheus.NewRegistry())
	client := api.New(c.APIBaseURL, sess,
		api.WithTimeout(c.RequestTimeout),
		api.WithLogger(logger),
		api.WithMetrics(m),
	)
	svc := services.New(client)

	a := &App{
		config:   c,
		sess:     sess,
		svc:      svc,
		tester:   tester.New(client),
		exporter: export.NewExporter(sink, m, logger),
		metrics:  m,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
	a.store = store.New(svc, sess, a, logger)
	return a, nil
}

// Notify prints store notifications. A hard logout arrives here as an
// error notification; the REPL then only offers the anonymous commands.
func (a *App) Notify(_ context.Context, level store.Level, msg string) {
	fmt.Fprintf(a.out, "[%s] %s\n", level, msg)
}

func (a *App) isLoggedIn() bool {
	return a.sess.IsAuthenticated()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	if u := a.sess.Snapshot().User; u != nil {
		return fmt.Sprintf(" (%s)", u.Username)
	}
	return " (authenticated)"
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintf(a.out, "Welcome to MedScribe CLI, API %s (type 'help' for commands)\n", a.config.APIBaseURL)
	if a.isLoggedIn() {
		a.store.Auth.FetchCurrentUser(ctx)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

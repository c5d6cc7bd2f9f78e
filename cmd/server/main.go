package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/AlexTLDR/wedding/internal/auth"
	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/guests"
	"github.com/AlexTLDR/wedding/internal/notify"
	"github.com/AlexTLDR/wedding/internal/rsvp"
	"github.com/AlexTLDR/wedding/internal/server"
	"github.com/AlexTLDR/wedding/internal/storage"
	"github.com/AlexTLDR/wedding/internal/storage/boltstore"
	"github.com/AlexTLDR/wedding/internal/storage/filestore"
	"github.com/AlexTLDR/wedding/internal/storage/github"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file (ignore error if a file doesn't exist)
	// Use Overload to force to overwrite any existing environment variables
	envErr := godotenv.Overload()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to load config")
	}

	log := newLogger(cfg)
	if envErr != nil {
		log.Warn().Err(envErr).Msg("error loading .env file")
	} else {
		log.Info().Msg(".env file loaded successfully (with overload)")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFormat != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(cfg.LogLevel).With().Timestamp().Str("service", cfg.ServiceName).Logger()
}

func run(cfg *config.Config, log zerolog.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func(context.Context) error
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i](sctx))
		}
	}()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := setupTracing(ctx, cfg)
		if err != nil {
			return err
		}
		closers = append(closers, shutdown)
		log.Info().Str("endpoint", cfg.OTLPEndpoint).Msg("tracing enabled")
	}

	guestData, err := cfg.GuestsSource()
	if err != nil {
		return err
	}
	dir, err := guests.Parse(guestData, cfg.PhoneRegion)
	if err != nil {
		return fmt.Errorf("failed to load guests: %w", err)
	}
	if dir.Len() == 0 {
		log.Warn().Msg("GUESTS is not set, no RSVP links will resolve")
	}

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		closers = append(closers, func(context.Context) error { return closeBackend() })
	}
	log.Info().Str("backend", cfg.Storage.Backend).Int("guests", dir.Len()).Msg("storage ready")

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notify.Enabled() {
		notifier = notify.NewResendNotifier(cfg.Notify.ResendAPIKey, cfg.Notify.From, cfg.Notify.To, cfg.BaseURL+"/admin")
	}

	store := storage.NewStore(backend, log)
	svc := rsvp.NewService(store, dir, notifier, cfg.RSVPDeadline, log)
	gate := auth.New(cfg.Password, cfg.JWTSecret, cfg.SecureCookies, log)
	if cfg.Password == "" || cfg.JWTSecret == "" {
		log.Warn().Msg("WEDDING_PASSWORD or JWT_SECRET is not set, the admin view is unreachable")
	}

	httpServer := server.New(cfg, dir, svc, gate, log).HTTPServer()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", httpServer.Addr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(sctx)
	})

	return g.Wait()
}

// openBackend returns the configured storage backend and, when it holds
// resources, a function releasing them.
func openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, func() error, error) {
	sc := cfg.Storage
	switch sc.Backend {
	case config.BackendGitHub:
		return github.New(github.Config{
			Token:  sc.GitHub.Token,
			Owner:  sc.GitHub.Owner,
			Repo:   sc.GitHub.Repo,
			Branch: sc.GitHub.Branch,
			Path:   sc.GitHub.Path,
			APIURL: sc.GitHub.APIURL,
		}), nil, nil
	case config.BackendBolt:
		if err := ensureDir(sc.BoltPath); err != nil {
			return nil, nil, err
		}
		b, err := boltstore.Open(sc.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case config.BackendSQL:
		if sc.DatabaseDriver == "sqlite3" {
			if err := ensureDir(sc.DatabaseURL); err != nil {
				return nil, nil, err
			}
		}
		db, err := database.New(ctx, sc.DatabaseDriver, sc.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return db.Documents(database.ResponsesDocument), db.Close, nil
	default:
		return filestore.New(sc.ResponsesFile), nil, nil
	}
}

func setupTracing(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(cfg.OTLPEndpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

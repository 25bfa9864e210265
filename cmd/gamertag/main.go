package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/berckan/gamertag/internal/checker"
	"github.com/berckan/gamertag/internal/config"
	"github.com/berckan/gamertag/internal/console"
	"github.com/berckan/gamertag/internal/logger"
	"github.com/berckan/gamertag/internal/metrics"
	"github.com/berckan/gamertag/internal/reservation"
	"github.com/berckan/gamertag/internal/store"
	"github.com/berckan/gamertag/internal/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithAttr(slog.String("run_id", uuid.NewString())),
	)

	if err := run(ctx, cfg, os.Stdout, log); err != nil {
		log.Error("run aborted", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

// run checks every gamertag on the configured list. An interrupt ends the
// run without an error; the available file keeps whatever was written
func run(ctx context.Context, cfg config.Config, out io.Writer, log *slog.Logger, opts ...checker.Option) error {
	startedAt := time.Now()
	term := console.New(out)
	term.Banner()

	credentials, err := config.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		return err
	}
	gamertags, err := config.LoadList(cfg.ListFile)
	if err != nil {
		return err
	}

	term.Checking(len(gamertags))

	runMetrics := metrics.New()
	valid, rejected := validator.Validate(gamertags)
	for _, r := range rejected {
		term.Skipped(r.Gamertag, r.Reason)
	}
	runMetrics.AddRejected(len(rejected))

	client := reservation.New(credentials,
		reservation.WithEndpoint(cfg.Endpoint),
		reservation.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	gamertagChecker := checker.New(client, store.NewAvailableFile(cfg.OutputFile),
		append([]checker.Option{checker.WithLogger(log), checker.WithMetrics(runMetrics)}, opts...)...,
	)

	count, err := gamertagChecker.CheckAll(ctx, valid)
	term.Saved(count)

	if mErr := runMetrics.WriteTextfile(cfg.MetricsFile); mErr != nil {
		log.Warn("failed to write metrics file", slog.String("path", cfg.MetricsFile), slog.Any("error", mErr))
	}

	if err != nil && !checker.IsInterrupted(err) {
		return err
	}
	if err != nil {
		log.Info("interrupted", slog.Int("available", count))
	}

	term.Completed(time.Since(startedAt))
	return nil
}

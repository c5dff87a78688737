package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	conductor "github.com/conductor-ci/conductor"
	"github.com/conductor-ci/conductor/flags"
	"github.com/conductor-ci/conductor/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "conductor"
	app.Usage = "Test Suite Execution Service"
	app.Description = "conductor runs registered test suites and aggregates their results"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			cli.HandleExitCoder(cli.Exit(err.Error(), conductor.ExitCodeForError(err)))
		}
	}

	ctx, shutdown, err := setupTelemetry(app.Name, app.Version)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to setup open telemetry")
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		logrus.WithError(err).Fatal("Application failed")
	}
}

func setupTelemetry(name, version string) (context.Context, func(), error) {
	ctx := context.Background()
	shutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(name),
		otelconfig.WithServiceVersion(version),
	)
	if err != nil {
		return ctx, nil, err
	}
	return ctx, shutdown, nil
}

func run(ctx *cli.Context) error {
	log, err := newLogger(ctx.String(flags.LogLevel.Name))
	if err != nil {
		return conductor.NewRuntimeError(err)
	}

	cfg, err := conductor.NewConfig(ctx, log)
	if err != nil {
		return conductor.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	done := make(chan error, 1)
	svc, err := conductor.New(ctx.Context, cfg, Version, func(err error) {
		done <- err
	})
	if err != nil {
		return conductor.NewRuntimeError(fmt.Errorf("failed to create conductor: %w", err))
	}

	if !cfg.RunOnce {
		// Long-running mode exposes health and metrics endpoints.
		monitoring := service.New()
		monitoring.Start(ctx.Context)
		defer monitoring.Shutdown()
	}

	if err := svc.Start(ctx.Context); err != nil {
		return err
	}
	if cfg.RunOnce {
		return nil
	}

	select {
	case err := <-done:
		stopCtx := context.Background()
		_ = svc.Stop(stopCtx)
		return err
	case <-ctx.Context.Done():
		log.Info("Interrupt received, shutting down")
		stopCtx := context.Background()
		_ = svc.Stop(stopCtx)
		return &conductor.InterruptedError{}
	}
}

func newLogger(level string) (logrus.FieldLogger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log := logrus.New()
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}

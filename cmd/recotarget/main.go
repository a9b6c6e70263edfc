// Command recotarget classifies detector events by target with a k-nearest
// neighbor vote and prints the fraction classified correctly per target.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mdobak/go-xerrors"

	"github.com/hupe1980/recotarget"
	"github.com/hupe1980/recotarget/config"
	"github.com/hupe1980/recotarget/distance"
	"github.com/hupe1980/recotarget/geometry"
	"github.com/hupe1980/recotarget/loader"
	"github.com/hupe1980/recotarget/resource"
)

// Exit codes.
const (
	exitOK = iota
	exitUsage
	exitDeclined
	exitNoEvents
	exitUnknownMetric
	exitFailure
)

var errDeclined = errors.New("declined by user")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(stderr, "loading .env: %v\n", err)
		return exitFailure
	}

	cfg, err := config.Parse(args, stderr, os.Getenv)
	if err != nil {
		return exitCode(err)
	}

	logger := newLogger(cfg, stderr)

	if err := classify(ctx, cfg, logger, stdin, stdout); err != nil {
		code := exitCode(err)
		if code == exitDeclined {
			return code
		}
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "run failed", slog.Any("error", err))
		fmt.Fprintf(stderr, "\nERROR: %v\n", err)
		return code
	}
	return exitOK
}

func classify(ctx context.Context, cfg *config.Config, logger *recotarget.Logger, stdin io.Reader, stdout io.Writer) error {
	if cfg.Summary {
		cfg.WriteSummary(stdout)
		ok, err := config.Confirm(stdin, stdout)
		if err != nil {
			return err
		}
		if !ok {
			return errDeclined
		}
	}

	geo := geometry.Default()
	if cfg.Geometry != "" {
		g, err := geometry.Load(cfg.Geometry, cfg.Codec)
		if err != nil {
			return err
		}
		geo = g
	}

	store, err := loader.OpenStore(ctx, cfg.Path)
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.MemLimit,
		IOLimitBytesPerSec: cfg.IOLimit,
	})

	classifier := recotarget.New(
		recotarget.WithLogger(logger),
		recotarget.WithWorkers(cfg.Workers),
		recotarget.WithResourceController(rc),
	)

	ld := loader.New(store,
		loader.WithFiller(classifier),
		loader.WithCodec(cfg.Codec),
		loader.WithLogger(logger.Logger),
		loader.WithResourceController(rc),
		loader.WithWorkers(cfg.Workers),
	)

	set, err := ld.Build(ctx, loader.Request{
		Testing:   cfg.Testing.Labels(),
		Learning:  cfg.Learning.Labels(),
		NTesting:  cfg.NTesting,
		NLearning: cfg.NLearning,
		Geometry:  geo,
	})
	if err != nil {
		return err
	}

	results, err := classifier.Classify(ctx, set.Testing, set.Learning, cfg.Metric, cfg.K)
	if err != nil {
		return err
	}
	return recotarget.FormatResults(stdout, results)
}

func newLogger(cfg *config.Config, w io.Writer) *recotarget.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return recotarget.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return recotarget.NewLogger(slog.NewTextHandler(w, opts))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrHelp), errors.Is(err, config.ErrUsage):
		return exitUsage
	case errors.Is(err, errDeclined):
		return exitDeclined
	case errors.Is(err, loader.ErrNoEvents), errors.Is(err, loader.ErrInsufficientEvents):
		return exitNoEvents
	case errors.Is(err, distance.ErrUnknownMetric):
		return exitUnknownMetric
	default:
		return exitFailure
	}
}

// Command eventgen writes synthetic per-target event files in the layout
// recotarget reads, so the pipeline can run without detector data.
//
//	eventgen -o /tmp/ana -n 20000 -f 4 -c zstd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdobak/go-xerrors"

	"github.com/hupe1980/recotarget/blobstore"
	"github.com/hupe1980/recotarget/config"
	"github.com/hupe1980/recotarget/event"
	"github.com/hupe1980/recotarget/geometry"
	"github.com/hupe1980/recotarget/loader"
	"github.com/hupe1980/recotarget/testutil"
)

type options struct {
	out         string
	events      int
	files       int
	planes      int
	seed        int64
	targets     config.TargetSet
	compression event.Compression
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}

	store, err := loader.OpenStore(ctx, opts.out)
	if err == nil {
		err = generate(ctx, store, opts, logger)
	}
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "generation failed", slog.Any("error", err))
		stop()
		os.Exit(5)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	opts := options{targets: 0b11111}

	var (
		code string
		comp string
	)
	fs := flag.NewFlagSet("eventgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.out, "o", "", "output location (directory, s3:// or minio://)")
	fs.IntVar(&opts.events, "n", 10000, "events per target")
	fs.IntVar(&opts.files, "f", 1, "files per target")
	fs.IntVar(&opts.planes, "planes", geometry.DefaultPlanes, "number of planes")
	fs.Int64Var(&opts.seed, "seed", 4711, "random seed")
	fs.StringVar(&code, "x", "12345", "target code")
	fs.StringVar(&comp, "c", "none", "compression: none, zstd or lz4")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch {
	case opts.out == "":
		return opts, errors.New("the output location was not defined (-o)")
	case opts.events <= 0:
		return opts, fmt.Errorf("events per target must be positive, got %d", opts.events)
	case opts.files <= 0 || opts.files > opts.events:
		return opts, fmt.Errorf("files per target must be in 1..%d, got %d", opts.events, opts.files)
	case opts.planes <= 0:
		return opts, fmt.Errorf("planes must be positive, got %d", opts.planes)
	}

	targets, err := config.ParseTargetCode(code)
	if err != nil {
		return opts, err
	}
	opts.targets = targets

	c, ok := event.ParseCompression(comp)
	if !ok {
		return opts, fmt.Errorf("unknown compression %q", comp)
	}
	opts.compression = c

	return opts, nil
}

// generate writes opts.events events per selected target, split over
// opts.files files named part-NNNN.
func generate(ctx context.Context, store blobstore.WritableStore, opts options, logger *slog.Logger) error {
	rng := testutil.NewRNG(opts.seed)

	for _, target := range opts.targets.Labels() {
		events := rng.TargetEvents(target, opts.events, opts.planes)
		per := (len(events) + opts.files - 1) / opts.files

		for part := 0; part*per < len(events); part++ {
			chunk := events[part*per : min(len(events), (part+1)*per)]

			data, err := event.EncodeFile(chunk, opts.compression, nil)
			if err != nil {
				return err
			}

			name := fmt.Sprintf("%spart-%04d%s", loader.TargetPath(target), part, opts.compression.Suffix())
			if err := store.Put(ctx, name, data); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			logger.DebugContext(ctx, "wrote event file", "name", name, "events", len(chunk), "bytes", len(data))
		}
		logger.InfoContext(ctx, "target written", "target", target+1, "events", len(events))
	}
	return nil
}

// Package loader reads the per-target event files of an input location and
// turns them into filled testing and learning profile collections.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/recotarget/blobstore"
	"github.com/hupe1980/recotarget/codec"
	"github.com/hupe1980/recotarget/event"
	"github.com/hupe1980/recotarget/geometry"
	"github.com/hupe1980/recotarget/profile"
	"github.com/hupe1980/recotarget/resource"
)

// Filler fills a collection from an event source. *recotarget.Classifier
// implements it to record fill metrics.
type Filler interface {
	Fill(ctx context.Context, col *profile.Collection, src event.Source, start, stride int, geo *geometry.Geometry) error
}

type directFiller struct{}

func (directFiller) Fill(_ context.Context, col *profile.Collection, src event.Source, start, stride int, geo *geometry.Geometry) error {
	return col.Fill(src, start, stride, geo)
}

// Loader reads event files from a blob store.
type Loader struct {
	store   blobstore.BlobStore
	codec   codec.Codec
	rc      *resource.Controller
	logger  *slog.Logger
	filler  Filler
	workers int
}

// Option configures a Loader.
type Option func(*Loader)

// WithCodec sets the JSON codec for event records.
func WithCodec(c codec.Codec) Option {
	return func(l *Loader) {
		l.codec = codec.OrDefault(c)
	}
}

// WithResourceController paces remote reads and accounts collection memory.
func WithResourceController(rc *resource.Controller) Option {
	return func(l *Loader) {
		l.rc = rc
	}
}

// WithLogger sets the logger. Pass nil to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		l.logger = logger
	}
}

// WithFiller routes collection fills through f.
func WithFiller(f Filler) Option {
	return func(l *Loader) {
		if f == nil {
			f = directFiller{}
		}
		l.filler = f
	}
}

// WithWorkers sets how many event files are decoded at once.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		l.workers = max(n, 1)
	}
}

// New creates a Loader reading from store.
func New(store blobstore.BlobStore, optFns ...Option) *Loader {
	l := &Loader{
		store:   store,
		codec:   codec.Default,
		logger:  slog.New(slog.DiscardHandler),
		filler:  directFiller{},
		workers: 1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(l)
		}
	}
	return l
}

// Files lists the event files of a target in lexical order.
func (l *Loader) Files(ctx context.Context, target int) ([]string, error) {
	names, err := l.store.List(ctx, TargetPath(target))
	if err != nil {
		return nil, fmt.Errorf("list target %d: %w", target+1, err)
	}

	files := names[:0]
	for _, name := range names {
		// Only direct children of the target directory are event files.
		if path.Dir(name)+"/" != TargetPath(target) {
			continue
		}
		if _, ok := event.DetectCompression(name); ok {
			files = append(files, name)
		}
	}
	return files, nil
}

// Events reads all event files of a target, concurrently, and concatenates
// their events in file-name order.
func (l *Loader) Events(ctx context.Context, target int) (event.Slice, error) {
	files, err := l.Files(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: target %d has no event files under %s", ErrNoEvents, target+1, TargetPath(target))
	}

	parts := make([][]event.Event, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, name := range files {
		g.Go(func() error {
			evs, err := l.readFile(gctx, name)
			if err != nil {
				return err
			}
			parts[i] = evs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	events := make(event.Slice, 0, sumLen(parts))
	for _, p := range parts {
		events = append(events, p...)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: target %d event files are empty", ErrNoEvents, target+1)
	}

	l.logger.DebugContext(ctx, "events loaded",
		"target", target+1,
		"files", len(files),
		"events", len(events),
	)
	return events, nil
}

func (l *Loader) readFile(ctx context.Context, name string) ([]event.Event, error) {
	comp, _ := event.DetectCompression(name)

	b, err := l.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	// Mapped files are decoded in place.
	if m, ok := b.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		evs, err := event.DecodeFile(data, comp, l.codec)
		if err != nil {
			return nil, &ErrDecode{Name: name, cause: err}
		}
		return evs, nil
	}

	// Paced downloads stream so the limiter is charged as bytes arrive.
	if l.rc.IOLimited() {
		return l.decodeStream(ctx, name, b, comp)
	}

	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	evs, err := event.DecodeFile(data, comp, l.codec)
	if err != nil {
		return nil, &ErrDecode{Name: name, cause: err}
	}
	return evs, nil
}

func (l *Loader) decodeStream(ctx context.Context, name string, b blobstore.Blob, comp event.Compression) ([]event.Event, error) {
	rd, err := event.NewReader(resource.NewRateLimitedReader(ctx, blobstore.NewReader(ctx, b), l.rc), comp)
	if err != nil {
		return nil, &ErrDecode{Name: name, cause: err}
	}
	defer rd.Close()

	evs, err := event.Decode(rd, l.codec)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrDecode{Name: name, cause: err}
	}
	return evs, nil
}

func sumLen(parts [][]event.Event) int {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	return n
}

// Request selects which samples Build draws. Targets are 0-based labels.
type Request struct {
	Testing   []int
	Learning  []int
	NTesting  int
	NLearning int
	Geometry  *geometry.Geometry
}

// Set holds the filled collections, each ordered by target label.
type Set struct {
	Testing  []*profile.Collection
	Learning []*profile.Collection
}

// Build loads the events of every selected target once and fills a testing
// collection of NTesting profiles (odd events) and a learning collection of
// NLearning profiles (even events) for the targets selected in each role.
func (l *Loader) Build(ctx context.Context, req Request) (*Set, error) {
	geo := req.Geometry
	if geo == nil {
		geo = geometry.Default()
	}

	testing := sortedUnique(req.Testing)
	learning := sortedUnique(req.Learning)

	set := &Set{}
	for _, t := range sortedUnique(append(slices.Clone(testing), learning...)) {
		events, err := l.Events(ctx, t)
		if err != nil {
			return nil, err
		}

		var tc, lc *profile.Collection
		if slices.Contains(testing, t) {
			if tc, err = l.sample(ctx, events, t, req.NTesting, profile.RoleTesting, geo); err != nil {
				return nil, err
			}
			set.Testing = append(set.Testing, tc)
		}
		if slices.Contains(learning, t) {
			if lc, err = l.sample(ctx, events, t, req.NLearning, profile.RoleLearning, geo); err != nil {
				return nil, err
			}
			set.Learning = append(set.Learning, lc)
		}

		if tc != nil && lc != nil && tc.Indices().Intersects(lc.Indices()) {
			return nil, fmt.Errorf("%w: target %d", ErrOverlap, t+1)
		}
	}
	return set, nil
}

func (l *Loader) sample(ctx context.Context, events event.Slice, target, size int, role profile.Role, geo *geometry.Geometry) (*profile.Collection, error) {
	stride, err := Stride(len(events), size)
	if err != nil {
		return nil, fmt.Errorf("%s sample of target %d: %w", role, target+1, err)
	}

	col, err := profile.NewCollection(target, size, geo.NumPlanes(), role)
	if err != nil {
		return nil, err
	}
	if err := l.rc.ReserveMemory(col.Bytes()); err != nil {
		return nil, fmt.Errorf("%s sample of target %d: %w", role, target+1, err)
	}

	start := LearningStart
	if role == profile.RoleTesting {
		start = TestingStart
	}
	if err := l.filler.Fill(ctx, col, events, start, stride, geo); err != nil {
		return nil, err
	}
	return col, nil
}

func sortedUnique(in []int) []int {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

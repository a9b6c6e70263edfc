package loader

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recotarget/blobstore"
	"github.com/hupe1980/recotarget/event"
	"github.com/hupe1980/recotarget/geometry"
	"github.com/hupe1980/recotarget/profile"
	"github.com/hupe1980/recotarget/resource"
)

const testPlanes = 16

// indexedEvents returns n events where event i deposits all energy in plane
// (offset+i) % testPlanes, so a profile reveals the event it came from.
func indexedEvents(offset, n int) []event.Event {
	out := make([]event.Event, n)
	for i := range out {
		out[i] = event.Event{
			PlaneIDs: []int{(offset + i) % testPlanes},
			Energies: []float64{1},
		}
	}
	return out
}

func putEvents(t *testing.T, store *blobstore.MemoryStore, name string, events []event.Event, comp event.Compression) {
	t.Helper()
	data, err := event.EncodeFile(events, comp, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), name, data))
}

func TestStride(t *testing.T) {
	tests := []struct {
		n, size  int
		expected int
	}{
		{10, 5, 2},
		{100, 10, 10},
		{101, 10, 10},
		{25, 5, 4},
		{11, 2, 4},
		{1000, 3, 332},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.n, tt.size), func(t *testing.T) {
			got, err := Stride(tt.n, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Zero(t, got%2)

			// The last odd index stays in range.
			assert.Less(t, TestingStart+(tt.size-1)*got, tt.n)
		})
	}

	_, err := Stride(9, 5)
	require.ErrorIs(t, err, ErrInsufficientEvents)

	_, err = Stride(0, 1)
	require.ErrorIs(t, err, ErrInsufficientEvents)

	_, err = Stride(10, 0)
	require.Error(t, err)
}

func TestTargetPath(t *testing.T) {
	assert.Equal(t, "00/00/00/01/", TargetPath(0))
	assert.Equal(t, "00/00/00/05/", TargetPath(4))
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	putEvents(t, store, "00/00/00/02/b.jsonl.lz4", indexedEvents(3, 2), event.CompressionLZ4)
	putEvents(t, store, "00/00/00/02/a.jsonl.zst", indexedEvents(0, 3), event.CompressionZSTD)
	putEvents(t, store, "00/00/00/02/c.jsonl", indexedEvents(5, 1), event.CompressionNone)
	putEvents(t, store, "00/00/00/02/nested/d.jsonl", indexedEvents(9, 4), event.CompressionNone)
	putEvents(t, store, "00/00/00/01/a.jsonl", indexedEvents(0, 7), event.CompressionNone)
	require.NoError(t, store.Put(ctx, "00/00/00/02/README", []byte("not events")))

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			l := New(store, WithWorkers(workers), WithResourceController(resource.NewController(resource.Config{})))

			files, err := l.Files(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []string{
				"00/00/00/02/a.jsonl.zst",
				"00/00/00/02/b.jsonl.lz4",
				"00/00/00/02/c.jsonl",
			}, files)

			events, err := l.Events(ctx, 1)
			require.NoError(t, err)
			require.Len(t, events, 6)
			for i, ev := range events {
				assert.Equal(t, []int{i}, ev.PlaneIDs, "event %d", i)
			}
		})
	}
}

func TestEventsNoFiles(t *testing.T) {
	store := blobstore.NewMemoryStore()
	_, err := New(store).Events(context.Background(), 3)
	require.ErrorIs(t, err, ErrNoEvents)
}

func TestEventsEmptyFiles(t *testing.T) {
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "00/00/00/01/a.jsonl", nil))

	_, err := New(store).Events(context.Background(), 0)
	require.ErrorIs(t, err, ErrNoEvents)
}

func TestEventsDecodeError(t *testing.T) {
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "00/00/00/01/bad.jsonl", []byte("{not json}\n")))

	_, err := New(store).Events(context.Background(), 0)
	var de *ErrDecode
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "00/00/00/01/bad.jsonl", de.Name)
}

func TestEventsLocalStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())

	data, err := event.EncodeFile(indexedEvents(0, 4), event.CompressionZSTD, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "00/00/00/03/run.jsonl.zst", data))

	events, err := New(store).Events(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 4)
}

// remoteStore hides the mapping of a MemoryStore so reads go through
// ReadAt, as with S3 or MinIO.
type remoteStore struct {
	*blobstore.MemoryStore
	read atomic.Int64
}

type remoteBlob struct {
	b     blobstore.Blob
	store *remoteStore
}

func (s *remoteStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return remoteBlob{b: b, store: s}, nil
}

func (r remoteBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	n, err := r.b.ReadAt(ctx, p, off)
	r.store.read.Add(int64(n))
	return n, err
}

func (r remoteBlob) Size() int64  { return r.b.Size() }
func (r remoteBlob) Close() error { return r.b.Close() }

func TestEventsRemoteStore(t *testing.T) {
	ctx := context.Background()

	for _, limit := range []int64{0, 1 << 20} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			store := &remoteStore{MemoryStore: blobstore.NewMemoryStore()}
			putEvents(t, store.MemoryStore, "00/00/00/01/a.jsonl.zst", indexedEvents(0, 3), event.CompressionZSTD)
			putEvents(t, store.MemoryStore, "00/00/00/01/b.jsonl.lz4", indexedEvents(3, 2), event.CompressionLZ4)
			putEvents(t, store.MemoryStore, "00/00/00/01/c.jsonl", indexedEvents(5, 1), event.CompressionNone)

			var total int64
			names, err := store.List(ctx, "")
			require.NoError(t, err)
			for _, name := range names {
				b, err := store.MemoryStore.Open(ctx, name)
				require.NoError(t, err)
				total += b.Size()
			}

			rc := resource.NewController(resource.Config{IOLimitBytesPerSec: limit})
			events, err := New(store, WithResourceController(rc), WithWorkers(2)).Events(ctx, 0)
			require.NoError(t, err)
			require.Len(t, events, 6)
			for i, ev := range events {
				assert.Equal(t, []int{i}, ev.PlaneIDs, "event %d", i)
			}
			assert.Positive(t, store.read.Load())
			assert.LessOrEqual(t, store.read.Load(), total)
		})
	}
}

func TestEventsRemoteStoreCanceled(t *testing.T) {
	store := &remoteStore{MemoryStore: blobstore.NewMemoryStore()}
	putEvents(t, store.MemoryStore, "00/00/00/01/a.jsonl", indexedEvents(0, 3), event.CompressionNone)

	// A full bucket plus a canceled context makes the first paced read fail.
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1})
	require.NoError(t, rc.AcquireIO(context.Background(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(store, WithResourceController(rc)).Events(ctx, 0)
	require.ErrorIs(t, err, context.Canceled)
}

type countingFiller struct {
	calls int
}

func (f *countingFiller) Fill(_ context.Context, col *profile.Collection, src event.Source, start, stride int, geo *geometry.Geometry) error {
	f.calls++
	return col.Fill(src, start, stride, geo)
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	for target := range 3 {
		putEvents(t, store, TargetPath(target)+"events.jsonl", indexedEvents(0, 40), event.CompressionNone)
	}

	filler := &countingFiller{}
	rc := resource.NewController(resource.Config{})
	l := New(store, WithFiller(filler), WithResourceController(rc))

	set, err := l.Build(ctx, Request{
		Testing:   []int{2, 0, 2},
		Learning:  []int{0, 1},
		NTesting:  4,
		NLearning: 5,
		Geometry:  geometry.Sequential(testPlanes),
	})
	require.NoError(t, err)

	require.Len(t, set.Testing, 2)
	require.Len(t, set.Learning, 2)
	assert.Equal(t, 0, set.Testing[0].Target())
	assert.Equal(t, 2, set.Testing[1].Target())
	assert.Equal(t, 0, set.Learning[0].Target())
	assert.Equal(t, 1, set.Learning[1].Target())
	assert.Equal(t, 4, filler.calls)

	// 40 events: testing stride (40/4/2)*2 = 10 from 1, learning stride
	// (40/5/2)*2 = 8 from 0.
	assert.Equal(t, []uint32{1, 11, 21, 31}, set.Testing[0].Indices().ToArray())
	assert.Equal(t, []uint32{0, 8, 16, 24, 32}, set.Learning[0].Indices().ToArray())
	assert.False(t, set.Testing[0].Indices().Intersects(set.Learning[0].Indices()))

	for i, idx := range []int{1, 11, 21, 31} {
		v := set.Testing[0].Profile(i).Values()
		assert.Equal(t, 1.0, v[idx%testPlanes])
	}
	for _, col := range append(set.Testing, set.Learning...) {
		assert.Equal(t, col.Role() == profile.RoleTesting, col.Indices().Minimum()%2 == 1)
	}

	assert.Equal(t, int64((4+4+5+5)*testPlanes*8), rc.MemoryUsage())
}

func TestBuildInsufficientEvents(t *testing.T) {
	store := blobstore.NewMemoryStore()
	putEvents(t, store, TargetPath(0)+"events.jsonl", indexedEvents(0, 9), event.CompressionNone)

	_, err := New(store).Build(context.Background(), Request{
		Testing:   []int{0},
		Learning:  []int{0},
		NTesting:  5,
		NLearning: 2,
		Geometry:  geometry.Sequential(testPlanes),
	})
	require.ErrorIs(t, err, ErrInsufficientEvents)
}

func TestBuildMissingTarget(t *testing.T) {
	store := blobstore.NewMemoryStore()
	putEvents(t, store, TargetPath(0)+"events.jsonl", indexedEvents(0, 20), event.CompressionNone)

	_, err := New(store).Build(context.Background(), Request{
		Testing:   []int{0},
		Learning:  []int{0, 4},
		NTesting:  2,
		NLearning: 2,
		Geometry:  geometry.Sequential(testPlanes),
	})
	require.ErrorIs(t, err, ErrNoEvents)
}

func TestBuildMemoryLimit(t *testing.T) {
	store := blobstore.NewMemoryStore()
	putEvents(t, store, TargetPath(0)+"events.jsonl", indexedEvents(0, 40), event.CompressionNone)

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 5 * testPlanes * 8})
	_, err := New(store, WithResourceController(rc)).Build(context.Background(), Request{
		Testing:   []int{0},
		Learning:  []int{0},
		NTesting:  4,
		NLearning: 4,
		Geometry:  geometry.Sequential(testPlanes),
	})
	require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
}

func TestBuildUnknownPlane(t *testing.T) {
	store := blobstore.NewMemoryStore()
	putEvents(t, store, TargetPath(0)+"events.jsonl", indexedEvents(0, 40), event.CompressionNone)

	_, err := New(store).Build(context.Background(), Request{
		Testing:  []int{0},
		NTesting: 4,
		Geometry: geometry.Sequential(4),
	})
	require.ErrorIs(t, err, geometry.ErrUnknownPlane)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenStore(ctx, dir)
	require.NoError(t, err)
	require.IsType(t, &blobstore.LocalStore{}, s)
	assert.Equal(t, dir, s.(*blobstore.LocalStore).Root())

	s, err = OpenStore(ctx, "file://"+dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.(*blobstore.LocalStore).Root())

	_, err = OpenStore(ctx, "minio://localhost:9000/bucket/run-1")
	require.NoError(t, err)

	_, err = OpenStore(ctx, "minio://localhost:9000/")
	require.Error(t, err)

	_, err = OpenStore(ctx, "s3:///prefix")
	require.Error(t, err)

	_, err = OpenStore(ctx, "ftp://host/path")
	require.Error(t, err)
}

package minio

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recotarget/blobstore"
)

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{}, "bucket", "")
	require.ErrorIs(t, err, ErrNoEndpoint)
}

func TestStore_Keys(t *testing.T) {
	tests := []struct {
		root       string
		listArg    string
		wantPrefix string
		key        string
		wantName   string
	}{
		{"", "", "", "00/00/00/01/a.jsonl", "00/00/00/01/a.jsonl"},
		{"run/", "", "run", "run/00/00/00/01/a.jsonl", "00/00/00/01/a.jsonl"},
		{"run", "00/00/00/01/", "run/00/00/00/01/", "run/00/00/00/01/a.jsonl", "00/00/00/01/a.jsonl"},
		{"", "00/00/00/02/", "00/00/00/02/", "00/00/00/02/b.jsonl.lz4", "00/00/00/02/b.jsonl.lz4"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q/%q", tt.root, tt.listArg), func(t *testing.T) {
			s := NewStore(nil, "bucket", tt.root)
			assert.Equal(t, tt.wantPrefix, s.listPrefix(tt.listArg))
			assert.Equal(t, tt.wantName, s.relName(tt.key))
		})
	}
}

// TestMinioStore_Integration requires a running MinIO instance at
// MINIO_ENDPOINT.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("Skipping MinIO integration test: MINIO_ENDPOINT not set")
	}

	cfg := Config{
		Endpoint:  endpoint,
		AccessKey: envOr("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey: envOr("MINIO_SECRET_KEY", "minioadmin"),
	}
	bucket := "test-recotarget"
	ctx := context.Background()

	store, err := New(cfg, bucket, fmt.Sprintf("run-%d/", time.Now().UnixNano()))
	require.NoError(t, err)

	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "00/00/00/01/a.jsonl", data))

	b, err := store.Open(ctx, "00/00/00/01/a.jsonl")
	require.NoError(t, err)
	defer b.Close()
	require.Equal(t, int64(len(data)), b.Size())

	buf := make([]byte, 5)
	n, err := b.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "minio", string(buf))

	all, err := blobstore.ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, data, all)

	names, err := store.List(ctx, "00/00/00/01/")
	require.NoError(t, err)
	assert.Equal(t, []string{"00/00/00/01/a.jsonl"}, names)

	_, err = store.Open(ctx, "missing.jsonl")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recotarget/blobstore"
	"github.com/hupe1980/recotarget/event"
	"github.com/hupe1980/recotarget/loader"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-o", "/tmp/x", "-n", "100", "-f", "3", "-x", "25", "-c", "lz4"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x", opts.out)
	assert.Equal(t, 100, opts.events)
	assert.Equal(t, 3, opts.files)
	assert.Equal(t, []int{1, 4}, opts.targets.Labels())
	assert.Equal(t, event.CompressionLZ4, opts.compression)
}

func TestParseFlagsInvalid(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"-o", "x", "-n", "0"},
		{"-o", "x", "-n", "5", "-f", "6"},
		{"-o", "x", "-x", "7"},
		{"-o", "x", "-c", "gzip"},
		{"-o", "x", "-planes", "0"},
	} {
		_, err := parseFlags(args, io.Discard)
		require.Error(t, err, "%v", args)
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	opts, err := parseFlags([]string{"-o", "mem", "-n", "10", "-f", "3", "-x", "13", "-c", "zstd"}, io.Discard)
	require.NoError(t, err)
	require.NoError(t, generate(ctx, store, opts, slog.New(slog.DiscardHandler)))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00/00/00/01/part-0000.jsonl.zst",
		"00/00/00/01/part-0001.jsonl.zst",
		"00/00/00/01/part-0002.jsonl.zst",
		"00/00/00/03/part-0000.jsonl.zst",
		"00/00/00/03/part-0001.jsonl.zst",
		"00/00/00/03/part-0002.jsonl.zst",
	}, names)

	ld := loader.New(store)
	events, err := ld.Events(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 10)

	_, err = ld.Events(ctx, 1)
	require.ErrorIs(t, err, loader.ErrNoEvents)
}

package main

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recotarget/blobstore"
	"github.com/hupe1980/recotarget/config"
	"github.com/hupe1980/recotarget/distance"
	"github.com/hupe1980/recotarget/event"
	"github.com/hupe1980/recotarget/geometry"
	"github.com/hupe1980/recotarget/loader"
	"github.com/hupe1980/recotarget/testutil"
)

func writeTargets(t *testing.T, n int, targets ...int) string {
	t.Helper()

	dir := t.TempDir()
	store := blobstore.NewLocalStore(dir)
	rng := testutil.NewRNG(4711)

	for _, target := range targets {
		events := rng.TargetEvents(target, n, geometry.DefaultPlanes)
		data, err := event.EncodeFile(events, event.CompressionZSTD, nil)
		require.NoError(t, err)
		require.NoError(t, store.Put(context.Background(), loader.TargetPath(target)+"events"+event.CompressionZSTD.Suffix(), data))
	}
	return dir
}

func clearEnv(t *testing.T) {
	for _, k := range []string{config.EnvPath, config.EnvGeometry, config.EnvWorkers, config.EnvLogLevel, config.EnvCodec} {
		t.Setenv(k, "")
	}
}

func TestRun(t *testing.T) {
	clearEnv(t)
	dir := writeTargets(t, 400, 0, 1, 2)

	for _, tc := range []struct{ workers, codec string }{{"1", "go-json"}, {"4", "json"}} {
		t.Run("Workers"+tc.workers+"_"+tc.codec, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := []string{"-p", dir, "-t", "50", "-l", "50", "-k", "5", "-m", "0", "-x", "21", "-y", "123", "-w", tc.workers, "--codec", tc.codec}

			code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
			require.Equal(t, exitOK, code, stderr.String())

			lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
			require.Len(t, lines, 2)
			for i, line := range lines {
				prefix := "Target " + strconv.Itoa(i+1) + " -> "
				require.True(t, strings.HasPrefix(line, prefix), line)

				score, err := strconv.ParseFloat(strings.TrimPrefix(line, prefix), 64)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, score, 0.9)
				assert.LessOrEqual(t, score, 1.0)
			}
		})
	}
}

func TestRunSummary(t *testing.T) {
	clearEnv(t)
	dir := writeTargets(t, 100, 0)
	args := []string{"-p", dir, "-t", "10", "-l", "10", "-k", "3", "-m", "1", "-x", "1", "-y", "1", "-s"}

	var stdout bytes.Buffer
	code := run(context.Background(), args, strings.NewReader("n\n"), &stdout, &bytes.Buffer{})
	assert.Equal(t, exitDeclined, code)
	assert.Contains(t, stdout.String(), "Your metric: Manhattan")
	assert.NotContains(t, stdout.String(), "Target 1 ->")

	stdout.Reset()
	code = run(context.Background(), args, strings.NewReader("y\n"), &stdout, &bytes.Buffer{})
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "Target 1 -> 1\n")
}

func TestRunExitCodes(t *testing.T) {
	clearEnv(t)
	dir := writeTargets(t, 30, 0)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"NoArgs", nil, exitUsage},
		{"Help", []string{"-h"}, exitUsage},
		{"MissingOption", []string{"-p", dir}, exitUsage},
		{"WrongTarget", []string{"-p", dir, "-t", "5", "-l", "5", "-k", "1", "-m", "0", "-x", "9", "-y", "1"}, exitUsage},
		{"UnknownMetric", []string{"-p", dir, "-t", "5", "-l", "5", "-k", "1", "-m", "3", "-x", "1", "-y", "1"}, exitUnknownMetric},
		{"MissingTarget", []string{"-p", dir, "-t", "5", "-l", "5", "-k", "1", "-m", "0", "-x", "2", "-y", "1"}, exitNoEvents},
		{"TooFewEvents", []string{"-p", dir, "-t", "20", "-l", "5", "-k", "1", "-m", "0", "-x", "1", "-y", "1"}, exitNoEvents},
		{"BadGeometry", []string{"-p", dir, "-t", "5", "-l", "5", "-k", "1", "-m", "0", "-x", "1", "-y", "1", "-g", "missing.json"}, exitFailure},
		{"UnknownCodec", []string{"-p", dir, "-t", "5", "-l", "5", "-k", "1", "-m", "0", "-x", "1", "-y", "1", "--codec", "xml"}, exitUsage},
		{"BadStore", []string{"-p", "ftp://host/x", "-t", "5", "-l", "5", "-k", "1", "-m", "0", "-x", "1", "-y", "1"}, exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := run(context.Background(), tt.args, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitUnknownMetric, exitCode(distance.ErrUnknownMetric))
	assert.Equal(t, exitNoEvents, exitCode(loader.ErrInsufficientEvents))
	assert.Equal(t, exitDeclined, exitCode(errDeclined))
	assert.Equal(t, exitFailure, exitCode(assert.AnError))
}

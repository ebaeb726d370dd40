package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"countdown"}, args...))
	return out.String(), err
}

func TestApp_RunZeroSeconds(t *testing.T) {
	out, err := runApp(t, "run", "--seconds", "0", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, `countdown "countdown" finished after 0 seconds`)
}

func TestApp_RunRejectsNegativeSeconds(t *testing.T) {
	_, err := runApp(t, "run", "--seconds=-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be negative")
}

func TestApp_RunWithProgressBar(t *testing.T) {
	out, err := runApp(t, "run", "--seconds", "1", "--name", "quick")
	require.NoError(t, err)
	assert.Contains(t, out, `countdown "quick" finished after 1 seconds`)
}

func TestApp_Validate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seconds: 42\nname: pasta\n"), 0o600))

	out, err := runApp(t, "validate", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "ok: 42 seconds, name \"pasta\"\n", out)

	_, err = runApp(t, "validate", "--config", path, "--cron", "not a schedule")
	assert.Error(t, err)
}

func TestRun_ServesMetrics(t *testing.T) {
	var out bytes.Buffer
	opts := options{
		Seconds:     0,
		Name:        "metered",
		MetricsAddr: "127.0.0.1:0",
	}
	require.NoError(t, run(context.Background(), opts, &out, io.Discard))
	assert.Contains(t, out.String(), "finished")
}

func TestRun_Interrupted(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := options{Seconds: 30, Name: "stopped", Progress: true}
	require.NoError(t, run(ctx, opts, &out, io.Discard))
	assert.Contains(t, out.String(), "countdown interrupted")
}

func TestRun_CronStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := options{Seconds: 5, Name: "cron", Cron: "@hourly"}
	assert.NoError(t, run(ctx, opts, io.Discard, io.Discard))
}

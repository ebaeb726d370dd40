package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cderrors "github.com/vnykmshr/countdown/pkg/common/errors"
	"github.com/vnykmshr/countdown/pkg/countdown"
)

// fakeClient records published payloads instead of talking to Redis.
type fakeClient struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
	deadline bool
	err      error
}

func (f *fakeClient) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, message.([]byte))
	cmd.SetVal(1)
	return cmd
}

func (f *fakeClient) messages(t *testing.T, enc Encoding) []Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, 0, len(f.payloads))
	for _, p := range f.payloads {
		m, err := Decode(p, enc)
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var at = time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)

func sampleEvent() countdown.Event {
	return countdown.Event{
		Kind: countdown.EventTick,
		Info: countdown.Info{
			ID:              "abc",
			State:           countdown.StateRunning,
			Remaining:       4,
			InitialDuration: 10,
		},
		At: at,
	}
}

func TestNewPublisher_Validation(t *testing.T) {
	client := &fakeClient{}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"nil client", Config{Channel: "c"}},
		{"empty channel", Config{Client: client}},
		{"unknown encoding", Config{Client: client, Channel: "c", Encoding: Encoding(9)}},
		{"negative timeout", Config{Client: client, Channel: "c", Timeout: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPublisher(tt.cfg)
			assert.Nil(t, p)
			assert.True(t, cderrors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestPublisher_JSON(t *testing.T) {
	client := &fakeClient{}
	p, err := NewPublisher(Config{Client: client, Channel: "countdown:events", Logger: quietLogger()})
	require.NoError(t, err)

	require.NoError(t, p.Handle(sampleEvent()))
	assert.True(t, client.deadline, "publish should carry a deadline")
	assert.Equal(t, []string{"countdown:events"}, client.channels)
	assert.Equal(t, int64(1), p.Published())

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(client.payloads[0], &raw))
	assert.Equal(t, "abc", raw["timer_id"])
	assert.Equal(t, "tick", raw["event"])
	assert.Equal(t, "running", raw["state"])
	assert.Equal(t, float64(4), raw["remaining"])
	assert.Equal(t, float64(10), raw["initial_duration"])
	assert.Equal(t, "2026-03-14T15:09:26.535897932Z", raw["at"])
}

func TestPublisher_CBOR(t *testing.T) {
	client := &fakeClient{}
	p, err := NewPublisher(Config{Client: client, Channel: "c", Encoding: EncodingCBOR, Logger: quietLogger()})
	require.NoError(t, err)

	require.NoError(t, p.Handle(sampleEvent()))

	msgs := client.messages(t, EncodingCBOR)
	require.Len(t, msgs, 1)
	assert.Equal(t, "abc", msgs[0].TimerID)
	assert.Equal(t, "tick", msgs[0].Event)
	assert.Equal(t, 4, msgs[0].Remaining)
	assert.True(t, msgs[0].At.Equal(at), "at = %v, want %v", msgs[0].At, at)

	// CBOR is not JSON.
	_, err = Decode(client.payloads[0], EncodingJSON)
	assert.Error(t, err)
}

func TestPublisher_PublishError(t *testing.T) {
	down := errors.New("connection refused")
	client := &fakeClient{err: down}
	p, err := NewPublisher(Config{Client: client, Channel: "c", Logger: quietLogger()})
	require.NoError(t, err)

	err = p.Handle(sampleEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, down)

	var opErr *cderrors.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "notify", opErr.Module)
	assert.Equal(t, "publish", opErr.Operation)
	assert.Equal(t, "c", opErr.Context)
	assert.Equal(t, int64(0), p.Published())
}

func TestPublisher_Attach(t *testing.T) {
	client := &fakeClient{}
	p, err := NewPublisher(Config{Client: client, Channel: "c", Logger: quietLogger()})
	require.NoError(t, err)

	tm, err := countdown.New(countdown.Config{StartTime: 0, Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, p.Attach(tm))

	require.NoError(t, tm.Start())
	require.NoError(t, tm.Reset())

	msgs := client.messages(t, EncodingJSON)
	require.Len(t, msgs, 3)

	var kinds []string
	for _, m := range msgs {
		kinds = append(kinds, m.Event)
		assert.Equal(t, tm.ID(), m.TimerID)
	}
	assert.Equal(t, []string{"start", "finish", "reset"}, kinds)
	assert.Equal(t, "finished", msgs[1].State)
	assert.Equal(t, "idle", msgs[2].State)
}

func TestPublisher_ErrorSurfacesFromTimer(t *testing.T) {
	down := errors.New("connection refused")
	p, err := NewPublisher(Config{Client: &fakeClient{err: down}, Channel: "c", Logger: quietLogger()})
	require.NoError(t, err)

	tm, err := countdown.New(countdown.Config{StartTime: 0, Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, p.Attach(tm))

	err = tm.Start()
	assert.ErrorIs(t, err, down)
	assert.Equal(t, cderrors.KindHandler, cderrors.KindOf(err))
	assert.Equal(t, countdown.StateFinished, tm.Info().State)
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", EncodingJSON, false},
		{"json", EncodingJSON, false},
		{"cbor", EncodingCBOR, false},
		{"xml", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

package notify

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	cderrors "github.com/vnykmshr/countdown/pkg/common/errors"
	"github.com/vnykmshr/countdown/pkg/common/validation"
	"github.com/vnykmshr/countdown/pkg/countdown"
)

const module = "notify"

// Client is the subset of redis.UniversalClient used by Publisher.
type Client interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Config holds publisher configuration.
type Config struct {
	// Client publishes messages. Any redis.UniversalClient works.
	Client Client

	// Channel is the Redis pub/sub channel.
	Channel string

	// Encoding of published messages (default: EncodingJSON).
	Encoding Encoding

	// Timeout bounds each publish (default: 500ms).
	Timeout time.Duration

	// Logger (default: slog.Default()).
	Logger *slog.Logger
}

// DefaultConfig returns a default publisher configuration.
func DefaultConfig() Config {
	return Config{
		Channel:  "countdown:events",
		Encoding: EncodingJSON,
		Timeout:  500 * time.Millisecond,
	}
}

// Publisher forwards countdown events to a Redis channel.
type Publisher struct {
	client    Client
	channel   string
	encoding  Encoding
	timeout   time.Duration
	logger    *slog.Logger
	published atomic.Int64
}

// NewPublisher validates cfg and creates a Publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Client == nil {
		return nil, validation.ValidateNotNil(module, "client", nil)
	}
	if err := validation.ValidateNotEmpty(module, "channel", cfg.Channel); err != nil {
		return nil, err
	}
	if cfg.Encoding != EncodingJSON && cfg.Encoding != EncodingCBOR {
		return nil, cderrors.NewValidationError(module, "encoding", cfg.Encoding, "unknown encoding").
			WithHint("use EncodingJSON or EncodingCBOR")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultConfig().Timeout
	}
	if err := validation.ValidatePositiveDuration(module, "timeout", timeout); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		client:   cfg.Client,
		channel:  cfg.Channel,
		encoding: cfg.Encoding,
		timeout:  timeout,
		logger:   logger.With("component", module, "channel", cfg.Channel),
	}, nil
}

// Handle publishes e. It satisfies countdown.Handler.
func (p *Publisher) Handle(e countdown.Event) error {
	return p.Publish(context.Background(), e)
}

// Publish encodes e and publishes it, bounded by the configured timeout.
func (p *Publisher) Publish(ctx context.Context, e countdown.Event) error {
	payload, err := Encode(NewMessage(e), p.encoding)
	if err != nil {
		return cderrors.NewOperationError(module, "encode", err).WithContext(string(e.Kind))
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		p.logger.Debug("publish failed", "event", string(e.Kind), "error", err)
		return cderrors.NewOperationError(module, "publish", err).WithContext(p.channel)
	}

	p.published.Add(1)
	p.logger.Debug("event published",
		"event", string(e.Kind),
		"timer_id", e.Info.ID,
		"receivers", receivers)
	return nil
}

// Attach registers the publisher as the handler for every event kind of t,
// replacing any handlers already registered.
func (p *Publisher) Attach(t countdown.Timer) error {
	for _, kind := range countdown.EventKinds() {
		if err := t.AddEventListener(kind, p.Handle); err != nil {
			return err
		}
	}
	return nil
}

// Published returns the number of messages successfully published.
func (p *Publisher) Published() int64 {
	return p.published.Load()
}

// Channel returns the channel messages are published on.
func (p *Publisher) Channel() string {
	return p.channel
}

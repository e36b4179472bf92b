package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Client provides instance-scoped Redis operations for the relay.
// It is safe for concurrent use.
type Client struct {
	rdb          *redis.Client
	instanceName string
}

// NewClient creates a relay client for the specified instance.
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// NewClientFromURL parses a redis:// URL and creates a client.
func NewClientFromURL(url, instanceName string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return NewClient(opts, instanceName)
}

// InstanceName returns the namespace this client writes to.
func (c *Client) InstanceName() string {
	return c.instanceName
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// PublishButtonEvent validates and publishes a button press.
func (c *Client) PublishButtonEvent(ctx context.Context, e *ButtonEvent) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid button event: %w", err)
	}
	return c.publish(ctx, ButtonEventsChannel(c.instanceName), e)
}

// PublishStartEvent validates and publishes a start command.
func (c *Client) PublishStartEvent(ctx context.Context, e *StartEvent) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid start event: %w", err)
	}
	return c.publish(ctx, StartEventsChannel(c.instanceName), e)
}

// PublishEffect validates and publishes an outbound effect.
func (c *Client) PublishEffect(ctx context.Context, e *Effect) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid effect: %w", err)
	}
	return c.publish(ctx, EffectsChannel(c.instanceName), e)
}

func (c *Client) publish(ctx context.Context, channel string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := c.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// PutMessage writes the current state of a relay-managed message.
func (c *Client) PutMessage(ctx context.Context, m *Message) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	hash, err := MessageToHash(m)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	if err := c.rdb.HSet(ctx, MessageKey(c.instanceName, m.ID), hash).Err(); err != nil {
		return fmt.Errorf("failed to write message to Redis: %w", err)
	}
	return nil
}

// GetMessage reads a relay-managed message.
// Returns (nil, redis.Nil) if it does not exist; use IsNotFound to check.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	hashData, err := c.rdb.HGetAll(ctx, MessageKey(c.instanceName, messageID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read message from Redis: %w", err)
	}
	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	m, err := HashToMessage(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %w", err)
	}
	return m, nil
}

// MessageExists checks for a message without fetching it.
func (c *Client) MessageExists(ctx context.Context, messageID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, MessageKey(c.instanceName, messageID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check message existence: %w", err)
	}
	return n > 0, nil
}

// Subscription is an active Pub/Sub subscription delivering decoded values.
// Callers must Close it when done.
type Subscription[T any] struct {
	events <-chan *T
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of decoded messages. It is closed when the
// subscription is closed or its context is cancelled.
func (s *Subscription[T]) Events() <-chan *T {
	return s.events
}

// Errors returns non-fatal decode errors. Undecodable messages are skipped.
func (s *Subscription[T]) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Safe to call multiple times.
func (s *Subscription[T]) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeButtonEvents subscribes to button presses for this instance.
func (c *Client) SubscribeButtonEvents(ctx context.Context) (*Subscription[ButtonEvent], error) {
	return subscribe[ButtonEvent](ctx, c.rdb, ButtonEventsChannel(c.instanceName), "button event")
}

// SubscribeStartEvents subscribes to start commands for this instance.
func (c *Client) SubscribeStartEvents(ctx context.Context) (*Subscription[StartEvent], error) {
	return subscribe[StartEvent](ctx, c.rdb, StartEventsChannel(c.instanceName), "start event")
}

// SubscribeEffects subscribes to outbound effects for this instance.
func (c *Client) SubscribeEffects(ctx context.Context) (*Subscription[Effect], error) {
	return subscribe[Effect](ctx, c.rdb, EffectsChannel(c.instanceName), "effect")
}

// subscribe waits for the subscription to be confirmed, so anything
// published after it returns is delivered. Events are buffered (size 10).
func subscribe[T any](ctx context.Context, rdb *redis.Client, channel, kind string) (*Subscription[T], error) {
	pubsub := rdb.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	eventsChan := make(chan *T, 10)
	errorsChan := make(chan error, 10)
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var v T
				if err := json.Unmarshal([]byte(msg.Payload), &v); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal %s: %w", kind, err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &v:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription[T]{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound returns true if err is a Redis "key not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}

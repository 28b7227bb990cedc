package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"quickgrab-listing-feed/internal/domain/shared"
	"quickgrab-listing-feed/internal/ports/outbound"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// FeedChannel is the Redis pub/sub channel carrying listing feed events
const FeedChannel = "listing:feed"

// RedisNotifier implements the feed notifier interface using Redis pub/sub
type RedisNotifier struct {
	client  *redis.Client
	pubsubs map[string]*redis.PubSub // clientID -> pubsub instance
	closed  bool
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	logger  zerolog.Logger
}

type RedisNotifierParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

// NewNotifier creates a new Redis backed feed notifier
func NewNotifier(params RedisNotifierParams) *RedisNotifier {
	ctx, cancel := context.WithCancel(context.Background())

	return &RedisNotifier{
		client:  params.RedisClient,
		pubsubs: make(map[string]*redis.PubSub),
		ctx:     ctx,
		cancel:  cancel,
		logger:  params.Logger.With().Str("component", "redis_notifier").Logger(),
	}
}

// Subscribe forwards feed events to eventChan until Unsubscribe or Close.
// The Redis round-trip happens without holding the lock.
func (r *RedisNotifier) Subscribe(ctx context.Context, clientID string, eventChan chan outbound.FeedEvent) error {
	r.mu.Lock()
	closed := r.closed
	_, exists := r.pubsubs[clientID]
	r.mu.Unlock()

	if closed {
		return shared.ErrNotifierClosed
	}
	if exists {
		r.logger.Debug().Str("client_id", clientID).Msg("Client already subscribed to feed")
		return nil
	}

	pubsub := r.client.Subscribe(ctx, FeedChannel)

	// Wait for the subscription confirmation so no event published afterwards is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		r.logger.Error().Err(err).Str("client_id", clientID).Msg("Failed to subscribe to Redis channel")
		return fmt.Errorf("failed to subscribe to %s: %w", FeedChannel, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		pubsub.Close()
		return shared.ErrNotifierClosed
	}
	if _, exists := r.pubsubs[clientID]; exists {
		// Lost a race with a concurrent Subscribe for the same client
		pubsub.Close()
		return nil
	}

	r.pubsubs[clientID] = pubsub
	go r.listenForRedisMessages(pubsub, clientID, eventChan)

	r.logger.Info().Str("client_id", clientID).Msg("Client subscribed to feed via Redis")
	return nil
}

// Unsubscribe stops forwarding feed events to the client
func (r *RedisNotifier) Unsubscribe(ctx context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pubsub, exists := r.pubsubs[clientID]
	if !exists {
		return nil
	}
	delete(r.pubsubs, clientID)

	if err := pubsub.Close(); err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
		return fmt.Errorf("failed to close pubsub: %w", err)
	}

	r.logger.Info().Str("client_id", clientID).Msg("Client unsubscribed from feed")
	return nil
}

// Publish publishes an event to all feed subscribers via Redis
func (r *RedisNotifier) Publish(ctx context.Context, event outbound.FeedEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result := r.client.Publish(ctx, FeedChannel, eventJSON)
	if err := result.Err(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to publish to Redis")
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}

	r.logger.Info().
		Str("event_type", string(event.Type)).
		Str("item_id", event.ItemID.String()).
		Int64("subscriber_count", result.Val()).
		Msg("Published feed event")

	return nil
}

// listenForRedisMessages forwards Redis messages to the local channel
func (r *RedisNotifier) listenForRedisMessages(pubsub *redis.PubSub, clientID string, localChan chan outbound.FeedEvent) {
	ch := pubsub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				r.logger.Debug().Str("client_id", clientID).Msg("Redis channel closed for client")
				return
			}

			var event outbound.FeedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Error().Err(err).Str("client_id", clientID).Msg("Failed to unmarshal Redis message for client")
				continue
			}

			select {
			case localChan <- event:
			default:
				r.logger.Warn().Str("client_id", clientID).Msg("Local channel full for client, dropping event")
			}

		case <-r.ctx.Done():
			return
		}
	}
}

// Close closes every subscription and the Redis client
func (r *RedisNotifier) Close() error {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for clientID, pubsub := range r.pubsubs {
		if err := pubsub.Close(); err != nil {
			r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
		}
		delete(r.pubsubs, clientID)
	}

	return r.client.Close()
}

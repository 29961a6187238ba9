package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"math/rand"

	"github.com/redis/go-redis/v9"

	"pricewatch/pricewatcher/internal/alert"
	"pricewatch/pricewatcher/logger"
	"pricewatch/pricewatcher/pkg/errors"
)

// RedisNotifier delivers alert notifications to Redis streams, where a
// UI or relay process consumes them. Fire and forget: delivery is a
// single XAdd, and failures surface to the caller without retry.
type RedisNotifier struct {
	client          *redis.Client
	streamPrefix    string
	streamCount     int
	streamMaxLength int
	clicks          *ClickRouter
}

// NewRedisNotifier creates a new Redis notifier
func NewRedisNotifier(addr string, db int, streamPrefix string, streamCount int, streamMaxLength int, clicks *ClickRouter) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client:          client,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
		clicks:          clicks,
	}
}

// Notify publishes a notification to one of the streams and registers
// its deep link with the click router
// The payload is base64 encoded before publishing
func (n *RedisNotifier) Notify(ctx context.Context, notification alert.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return errors.NewNotification(notification.ID, "failed to encode notification", err)
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	// random stream name by streamCount
	// if streamCount is 10, stream name will be stream:0 ~ stream:9
	stream := n.streamPrefix + ":" + strconv.Itoa(rand.Intn(n.streamCount))

	err = n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			notification.ID: encoded,
		},
	}).Err()
	if err != nil {
		return errors.NewNotification(notification.ID, "failed to publish notification", err)
	}

	if n.clicks != nil {
		n.clicks.Register(notification.ID, notification.URL)
	}

	logger.ForNotifier().Debug().
		Str("stream", stream).
		Str("notification_id", notification.ID).
		Msg("Published notification")
	return nil
}

// TrimStreams trims all notification streams to the configured maximum
// length
func (n *RedisNotifier) TrimStreams(ctx context.Context) error {
	pattern := n.streamPrefix + ":*"
	streams, err := n.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, stream := range streams {
		err := n.client.XTrimMaxLen(ctx, stream, int64(n.streamMaxLength)).Err()
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

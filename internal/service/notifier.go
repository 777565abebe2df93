package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Notifier delivers best-effort member notifications. Implementations
// must never fail a state transition: errors are logged and swallowed.
type Notifier interface {
	Notify(ctx context.Context, memberID, message string)
	NotifyAll(ctx context.Context, message string)
}

type notification struct {
	MemberID string    `json:"member_id,omitempty"`
	Message  string    `json:"message"`
	SentAt   time.Time `json:"sent_at"`
}

// RedisNotifier publishes notifications on a redis channel where the
// delivery collaborator (email/SMS worker) picks them up.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisNotifier(client *redis.Client, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (n *RedisNotifier) Notify(ctx context.Context, memberID, message string) {
	n.publish(ctx, notification{MemberID: memberID, Message: message, SentAt: time.Now()})
}

func (n *RedisNotifier) NotifyAll(ctx context.Context, message string) {
	n.publish(ctx, notification{Message: message, SentAt: time.Now()})
}

func (n *RedisNotifier) publish(ctx context.Context, note notification) {
	payload, err := json.Marshal(note)
	if err != nil {
		n.logger.Warn("failed to encode notification", zap.Error(err))
		return
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.logger.Warn("failed to publish notification",
			zap.String("member_id", note.MemberID),
			zap.Error(err),
		)
	}
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string) {}

func (NopNotifier) NotifyAll(context.Context, string) {}

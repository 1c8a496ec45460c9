// Package notifications publishes notification and chat events to Redis
// pub/sub so other processes can fan them out.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"levelup/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	userChannelPrefix = "notifications:user:"
	roomChannelPrefix = "chat:room:"
)

// Notifier provides helpers to publish events into Redis channels. A Notifier
// without a client drops every event.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Event is the envelope written to every channel.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// PublishUser sends an event to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID string, event Event) error {
	return n.publish(ctx, UserChannel(userID), event)
}

// PublishRoom sends an event to a chat room's channel.
func (n *Notifier) PublishRoom(ctx context.Context, roomID string, event Event) error {
	return n.publish(ctx, RoomChannel(roomID), event)
}

func (n *Notifier) publish(ctx context.Context, channel string, event Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	return n.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe listens on the user and room channel patterns and calls onMessage
// for each incoming message until ctx is done.
func (n *Notifier) Subscribe(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPrefix+"*", roomChannelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in notification subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID string) string {
	return userChannelPrefix + userID
}

// RoomChannel derives the Redis channel name for a chat room.
func RoomChannel(roomID string) string {
	return roomChannelPrefix + roomID
}

// Package redis provides a Redis-backed conversation context store for
// multi-instance deployments, where anchors must be visible to every
// replica handling webhook traffic.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/planwise/planwise/internal/types/interfaces"
)

const keyPrefix = "planwise:convctx:"

// ContextStore keeps anchors in Redis with an optional TTL. A zero TTL
// keeps anchors until overwritten or cleared.
type ContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContextStore wraps an existing Redis client.
func NewContextStore(client *redis.Client, ttl time.Duration) *ContextStore {
	return &ContextStore{client: client, ttl: ttl}
}

var _ interfaces.ContextStore = (*ContextStore)(nil)

func key(conversationID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, conversationID)
}

// Get returns the anchored event id for the conversation, if any.
func (s *ContextStore) Get(ctx context.Context, conversationID int64) (string, bool, error) {
	val, err := s.client.Get(ctx, key(conversationID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read conversation anchor: %w", err)
	}
	return val, true, nil
}

// Anchor overwrites the conversation's memory wholesale.
func (s *ContextStore) Anchor(ctx context.Context, conversationID int64, eventID string) error {
	if err := s.client.Set(ctx, key(conversationID), eventID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write conversation anchor: %w", err)
	}
	return nil
}

// Clear drops the conversation's anchor.
func (s *ContextStore) Clear(ctx context.Context, conversationID int64) error {
	if err := s.client.Del(ctx, key(conversationID)).Err(); err != nil {
		return fmt.Errorf("failed to clear conversation anchor: %w", err)
	}
	return nil
}

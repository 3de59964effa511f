package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/promptpix/go-promptpix-backend/internal/generation/domain"
)

const (
	queueKeyPrefix     = "gen:queue:"  // Queue item document: gen:queue:{item_id}
	userQueuePrefix    = "gen:user:"   // Set of item IDs for a user: gen:user:{user_id}:queue
	eventChannelPrefix = "gen:events:" // Pub/Sub channel for item events: gen:events:{item_id}

	// activeTTL bounds the life of a non-terminal item so orphaned entries
	// cannot accumulate if the server dies mid-request.
	activeTTL = time.Hour
)

// QueueRepository tracks in-flight generation requests in Redis. Items reach
// a terminal state and then expire after the configured retention delay;
// expiry is the "removed from the working set" transition.
type QueueRepository struct {
	client    *redis.Client
	retention time.Duration
}

func NewQueueRepository(client *redis.Client, retention time.Duration) *QueueRepository {
	if retention <= 0 {
		retention = 8 * time.Second
	}
	return &QueueRepository{
		client:    client,
		retention: retention,
	}
}

// Create stores a new queued item and indexes it under its user.
func (r *QueueRepository) Create(ctx context.Context, item *domain.QueueItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = domain.StatusQueued
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.itemKey(item.ID), data, activeTTL)
	pipe.SAdd(ctx, r.userQueueKey(item.UserID), item.ID)
	pipe.Expire(ctx, r.userQueueKey(item.UserID), activeTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create queue item: %w", err)
	}

	return nil
}

// Get retrieves a queue item by ID.
func (r *QueueRepository) Get(ctx context.Context, itemID string) (*domain.QueueItem, error) {
	data, err := r.client.Get(ctx, r.itemKey(itemID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrQueueItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue item: %w", err)
	}

	var item domain.QueueItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}

	return &item, nil
}

// Transition moves an item to a new status and publishes the change. A
// terminal status rewrites the item with the retention TTL so it lingers
// briefly for clients still watching, then disappears.
func (r *QueueRepository) Transition(ctx context.Context, itemID, status string, mutate func(*domain.QueueItem)) (*domain.QueueItem, error) {
	if !validStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	item, err := r.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Status = status
	item.UpdatedAt = time.Now()
	if mutate != nil {
		mutate(item)
	}

	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal queue item: %w", err)
	}

	ttl := activeTTL
	if domain.Terminal(status) {
		ttl = r.retention
	}

	if err := r.client.Set(ctx, r.itemKey(itemID), data, ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to update queue item: %w", err)
	}

	r.client.Publish(ctx, r.eventChannel(itemID), data)

	return item, nil
}

// ListIDsByUser returns the queue item IDs currently indexed for a user.
func (r *QueueRepository) ListIDsByUser(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.userQueueKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list queue items for user: %w", err)
	}
	return ids, nil
}

// PruneIndexes walks the per-user index sets and drops members whose item
// documents have expired. Returns how many members were removed.
func (r *QueueRepository) PruneIndexes(ctx context.Context) (int, error) {
	removed := 0

	iter := r.client.Scan(ctx, 0, userQueuePrefix+"*:queue", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()

		ids, err := r.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to read queue index %s: %w", setKey, err)
		}

		for _, id := range ids {
			exists, err := r.client.Exists(ctx, r.itemKey(id)).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to check queue item %s: %w", id, err)
			}
			if exists == 0 {
				if err := r.client.SRem(ctx, setKey, id).Err(); err != nil {
					return removed, fmt.Errorf("failed to prune queue index %s: %w", setKey, err)
				}
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan queue indexes: %w", err)
	}

	return removed, nil
}

func validStatus(status string) bool {
	return status == domain.StatusQueued ||
		status == domain.StatusGenerating ||
		status == domain.StatusFinalizing ||
		status == domain.StatusComplete ||
		status == domain.StatusFailed
}

func (r *QueueRepository) itemKey(itemID string) string {
	return queueKeyPrefix + itemID
}

func (r *QueueRepository) userQueueKey(userID string) string {
	return fmt.Sprintf("%s%s:queue", userQueuePrefix, userID)
}

func (r *QueueRepository) eventChannel(itemID string) string {
	return eventChannelPrefix + itemID
}

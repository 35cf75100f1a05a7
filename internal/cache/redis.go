// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list (queue) name for turn records.
const DefaultQueueName = "landgrab_turns"

// ConnectRedis creates a client for addr/db and verifies it with a ping.
func ConnectRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// TurnPublisher pushes turn records onto a Redis list for the historian to drain.
type TurnPublisher struct {
	rdb   redis.Cmdable
	queue string
}

// NewTurnPublisher returns a publisher writing to queue, or DefaultQueueName if queue is empty.
func NewTurnPublisher(rdb redis.Cmdable, queue string) *TurnPublisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &TurnPublisher{rdb: rdb, queue: queue}
}

// Queue returns the list name records are pushed to.
func (p *TurnPublisher) Queue() string {
	return p.queue
}

// PublishTurn serializes the given record to JSON, then pushes it to the Redis queue.
func (p *TurnPublisher) PublishTurn(ctx context.Context, record models.TurnRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal TurnRecord: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

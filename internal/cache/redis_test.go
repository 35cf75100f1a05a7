package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTurnPublisherDefaultsQueue(t *testing.T) {
	assert.Equal(t, DefaultQueueName, NewTurnPublisher(nil, "").Queue())
	assert.Equal(t, "custom", NewTurnPublisher(nil, "custom").Queue())
}

// TestPublishTurn pushes one record through a real Redis; set REDIS_ADDR to run it.
func TestPublishTurn(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb, err := ConnectRedis(ctx, addr, 0)
	require.NoError(t, err)
	defer rdb.Close()

	queue := "landgrab_test_" + uuid.NewString()
	defer rdb.Del(ctx, queue)
	pub := NewTurnPublisher(rdb, queue)

	rec := models.TurnRecord{MatchID: "m1", Turn: 4, Phase: models.PhaseAction, Timestamp: time.Now().UnixMilli()}
	require.NoError(t, pub.PublishTurn(ctx, rec))

	raw, err := rdb.LPop(ctx, queue).Result()
	require.NoError(t, err)
	var got models.TurnRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, rec.MatchID, got.MatchID)
	assert.Equal(t, rec.Turn, got.Turn)
}

// internal/handlers/history.go
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/jason-s-yu/landgrab/internal/game"
	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	historyTimeout = 2 * time.Second
	// DefaultHistoryBuffer is how many resolutions may wait for the writer before new ones are dropped.
	DefaultHistoryBuffer = 256
)

// TurnPublisher queues turn records for the historian.
type TurnPublisher interface {
	PublishTurn(ctx context.Context, record models.TurnRecord) error
}

// MatchRecorder stores the outcome of a finished match.
type MatchRecorder interface {
	RecordMatchResult(ctx context.Context, state models.GameState, winnerID string) error
}

type resolution struct {
	seq   int
	state models.GameState
	at    time.Time
}

// HistoryWriter publishes resolved turns and records finished matches on a
// background goroutine, so request handlers never wait on Redis or Postgres.
// One goroutine drains one queue, so records of a match keep their seq order.
type HistoryWriter struct {
	pub    TurnPublisher
	rec    MatchRecorder
	logger logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	queue  chan resolution
	done   chan struct{}
}

// NewHistoryWriter starts the writer. Either collaborator may be nil.
// buffer <= 0 uses DefaultHistoryBuffer.
func NewHistoryWriter(pub TurnPublisher, rec MatchRecorder, logger logrus.FieldLogger, buffer int) *HistoryWriter {
	if buffer <= 0 {
		buffer = DefaultHistoryBuffer
	}
	h := &HistoryWriter{
		pub:    pub,
		rec:    rec,
		logger: logger,
		queue:  make(chan resolution, buffer),
		done:   make(chan struct{}),
	}
	go h.run()
	return h
}

// Listener returns the game.ResolvedFunc to register with the match store.
// It never blocks: when the queue is full the resolution is dropped and logged.
func (h *HistoryWriter) Listener() game.ResolvedFunc {
	return func(seq int, state models.GameState) {
		h.mu.RLock()
		defer h.mu.RUnlock()
		if h.closed {
			return
		}
		select {
		case h.queue <- resolution{seq: seq, state: state, at: time.Now()}:
		default:
			h.logger.WithField("match", state.MatchID).Warnf("history queue full, dropping resolution %d", seq)
		}
	}
}

// Close stops accepting resolutions and waits until the queued ones are written.
func (h *HistoryWriter) Close() {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.queue)
	}
	h.mu.Unlock()
	<-h.done
}

func (h *HistoryWriter) run() {
	defer close(h.done)
	for r := range h.queue {
		h.write(r)
	}
}

// write handles one resolution. Failures are logged and never reach the player.
func (h *HistoryWriter) write(r resolution) {
	log := h.logger.WithField("match", r.state.MatchID)
	if h.pub != nil {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		if err := h.pub.PublishTurn(ctx, models.NewTurnRecord(r.state, r.seq, r.at.UnixMilli())); err != nil {
			log.Warnf("failed to publish resolution %d (turn %d): %v", r.seq, r.state.Turn, err)
		}
		cancel()
	}
	if h.rec != nil && r.state.IsOver() {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		if err := h.rec.RecordMatchResult(ctx, r.state, game.Winner(r.state)); err != nil {
			log.Errorf("failed to record match result: %v", err)
		}
		cancel()
	}
}

// Package historian drains turn records from a Redis queue and persists them in batches.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// TurnSink is where batches end up; database.MatchRepo implements it.
type TurnSink interface {
	InsertTurnRecords(ctx context.Context, records []models.TurnRecord) error
	MarkAbandoned(ctx context.Context, matchID string) error
}

// Options tunes batching and inactivity handling.
type Options struct {
	Queue      string
	BatchSize  int
	FlushDelay time.Duration
	// Inactivity is how long a match may go without a turn before it is marked abandoned.
	Inactivity time.Duration
}

// Service encapsulates the Redis + DB logic for capturing turn records
// and marking matches abandoned when a certain inactivity threshold is reached.
type Service struct {
	rdb    redis.Cmdable
	sink   TurnSink
	opts   Options
	logger logrus.FieldLogger

	lastActivity sync.Map // match id -> time.Time

	batchMu sync.Mutex
	batch   []models.TurnRecord
}

func New(rdb redis.Cmdable, sink TurnSink, opts Options, logger logrus.FieldLogger) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = 500 * time.Millisecond
	}
	if opts.Inactivity <= 0 {
		opts.Inactivity = 10 * time.Minute
	}
	return &Service{
		rdb:    rdb,
		sink:   sink,
		opts:   opts,
		logger: logger,
		batch:  make([]models.TurnRecord, 0, opts.BatchSize),
	}
}

// Run starts the queue reader and the inactivity sweeper and blocks until ctx is cancelled.
// Whatever is still batched is flushed before it returns.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.readLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.inactivityLoop(ctx)
	}()

	s.logger.Info("historian started")
	<-ctx.Done()
	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Flush(flushCtx)
	s.logger.Info("historian stopped")
}

// readLoop continuously uses BLPop to retrieve records from the queue.
func (s *Service) readLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.FlushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Flush(ctx)
		default:
			// short timeout so the ticker and cancellation are still serviced
			res, err := s.rdb.BLPop(ctx, time.Second, s.opts.Queue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					s.logger.WithError(err).Error("BLPop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			// res[0] is the queue name and res[1] the payload.
			if len(res) < 2 {
				continue
			}
			s.HandlePayload(ctx, res[1])
		}
	}
}

// HandlePayload decodes one queued record and adds it to the batch.
func (s *Service) HandlePayload(ctx context.Context, payload string) {
	var rec models.TurnRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil || rec.MatchID == "" {
		s.logger.WithField("payload", payload).Warn("invalid turn record")
		return
	}

	if rec.Phase == models.PhaseGameOver {
		s.lastActivity.Delete(rec.MatchID)
	} else {
		s.lastActivity.Store(rec.MatchID, time.Now())
	}

	s.batchMu.Lock()
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= s.opts.BatchSize
	s.batchMu.Unlock()

	if full {
		s.Flush(ctx)
	}
}

// Flush writes the current batch to the sink in one call.
// A failed batch is logged and dropped; the historian is best effort.
func (s *Service) Flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := make([]models.TurnRecord, len(s.batch))
	copy(pending, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.sink.InsertTurnRecords(ctx, pending); err != nil {
		s.logger.WithError(err).WithField("records", len(pending)).Error("failed to flush turn records")
		return
	}
	s.logger.Debugf("flushed %d turn records", len(pending))
}

// inactivityLoop periodically marks matches without recent turns as abandoned.
func (s *Service) inactivityLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.SweepInactive(ctx, now)
		}
	}
}

// SweepInactive marks every match idle for longer than the inactivity threshold as abandoned.
func (s *Service) SweepInactive(ctx context.Context, now time.Time) {
	s.lastActivity.Range(func(key, val any) bool {
		matchID, ok1 := key.(string)
		last, ok2 := val.(time.Time)
		if ok1 && ok2 && now.Sub(last) > s.opts.Inactivity {
			if err := s.sink.MarkAbandoned(ctx, matchID); err != nil {
				s.logger.WithError(err).WithField("match", matchID).Warn("failed to mark match abandoned")
				return true
			}
			s.logger.WithField("match", matchID).Info("marked match abandoned due to inactivity")
			s.lastActivity.Delete(matchID)
		}
		return true
	})
}

// Package historian drains the Redis action queue and persists the records in batches.
package historian

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jason-s-yu/tbg/internal/cache"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	defaultFlushDelay = 500 * time.Millisecond

	// maxPendingBatches bounds how many batches are kept while the store is failing.
	// Older records are dropped beyond that.
	maxPendingBatches = 50
)

// StoreFunc persists a batch of records.
type StoreFunc func(ctx context.Context, records []cache.GameActionRecord) error

// Service accumulates action records popped from Redis and flushes them to the store
// when the batch is full or the flush interval elapses.
type Service struct {
	rdb        *redis.Client
	queue      string
	store      StoreFunc
	batchSize  int
	flushDelay time.Duration

	batchMu sync.Mutex
	batch   []cache.GameActionRecord
	// retryAt holds back size-triggered flushes after a failed store.
	retryAt time.Time
}

func NewService(rdb *redis.Client, queue string, store StoreFunc, batchSize int, flushDelay time.Duration) *Service {
	if batchSize <= 0 {
		batchSize = 1
	}
	if flushDelay <= 0 {
		flushDelay = defaultFlushDelay
	}
	return &Service{
		rdb:        rdb,
		queue:      queue,
		store:      store,
		batchSize:  batchSize,
		flushDelay: flushDelay,
		batch:      make([]cache.GameActionRecord, 0, batchSize),
	}
}

// Run pops records until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	go s.flushLoop(ctx)
	log.WithField("queue", s.queue).Info("historian started")

	for {
		if ctx.Err() != nil {
			break
		}
		// BLPop with a timeout so that cancellation is noticed.
		res, err := s.rdb.BLPop(ctx, 3*time.Second, s.queue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Errorf("BLPop: %v", err)
				time.Sleep(time.Second)
			}
			continue
		}
		if len(res) < 2 {
			continue
		}
		s.Ingest(ctx, res[1])
	}

	s.Flush(context.Background())
	log.Info("historian stopped")
}

// Ingest decodes one queue entry and adds it to the batch, flushing when full.
func (s *Service) Ingest(ctx context.Context, payload string) {
	rec, err := cache.DecodeGameAction(payload)
	if err != nil {
		log.Warnf("skipping queue entry: %v", err)
		return
	}

	s.batchMu.Lock()
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= s.batchSize && !time.Now().Before(s.retryAt)
	s.batchMu.Unlock()

	if full {
		s.Flush(ctx)
	}
}

// Flush writes the pending batch. Records that fail to store are kept for a later
// flush, up to maxPendingBatches batches.
func (s *Service) Flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := make([]cache.GameActionRecord, len(s.batch))
	copy(pending, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.store(ctx, pending); err != nil {
		log.Errorf("flush %d actions: %v", len(pending), err)
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		if limit := s.batchSize * maxPendingBatches; len(s.batch) > limit {
			dropped := len(s.batch) - limit
			s.batch = append(s.batch[:0:0], s.batch[dropped:]...)
			log.Warnf("dropped %d oldest actions while the store is unavailable", dropped)
		}
		s.retryAt = time.Now().Add(s.flushDelay)
		s.batchMu.Unlock()
		return
	}
	log.Debugf("flushed %d actions", len(pending))
}

// Pending is the number of records waiting to be flushed.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}

func (s *Service) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(s.flushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Flush(ctx)
		}
	}
}

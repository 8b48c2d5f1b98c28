package projector

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/atlas-banking-core/internal/config"
	"github.com/atlas-banking-core/internal/domain/statement"
)

// WorkerPoolProjectionService runs projections on an ants worker pool so one
// slow archive write does not stall the consumer loop
type WorkerPoolProjectionService struct {
	baseService ProjectionService
	pool        *ants.Pool
	logger      *slog.Logger
	// Protects the in-flight results map
	mu      sync.Mutex
	results map[string]chan error
}

func NewWorkerPoolProjectionService(
	baseService ProjectionService,
	cfg config.WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProjectionService, error) {
	pool, err := ants.NewPool(cfg.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProjectionService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProjectEntry submits the entry to the worker pool and waits for the result
func (s *WorkerPoolProjectionService) ProjectEntry(ctx context.Context, entry *statement.Entry) error {
	resultChan := make(chan error, 1)

	key := entry.TransactionID.String() + ":" + entry.AccountID.String()
	s.mu.Lock()
	s.results[key] = resultChan
	s.mu.Unlock()

	// Copy the entry to avoid data races with the caller
	entryCopy := *entry

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.ProjectEntry(ctx, &entryCopy)

		s.mu.Lock()
		delete(s.results, key)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		s.mu.Lock()
		delete(s.results, key)
		close(resultChan)
		s.mu.Unlock()

		s.logger.Error("Failed to submit projection to worker pool",
			"transaction_id", entry.TransactionID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool
func (s *WorkerPoolProjectionService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool
func (s *WorkerPoolProjectionService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool
func (s *WorkerPoolProjectionService) Capacity() int {
	return s.pool.Cap()
}

package services

import (
	"context"
	"sync"
	"time"

	"hatchery/config"
	"hatchery/models"

	"go.uber.org/zap"
)

// BatchSink persists a batch of labeled rows
type BatchSink interface {
	WriteBatch(ctx context.Context, rows []*models.DatasetRow) error
}

// BatchWriterService handles batching labeled rows and writing them to a sink
type BatchWriterService struct {
	sink         BatchSink
	logger       *zap.Logger
	buffer       []*models.DatasetRow
	bufferMutex  sync.Mutex
	flushTimer   *time.Timer
	maxBatchSize int
	batchTimeout time.Duration
	maxRetries   int
	retryBackoff time.Duration
	shutdownChan chan bool
}

// NewBatchWriterService creates a new batch writer service
func NewBatchWriterService(cfg *config.Config, sink BatchSink, logger *zap.Logger) *BatchWriterService {
	return &BatchWriterService{
		sink:         sink,
		logger:       logger,
		buffer:       make([]*models.DatasetRow, 0, cfg.FirebaseBatchSize),
		maxBatchSize: cfg.FirebaseBatchSize,
		batchTimeout: time.Duration(cfg.FirebaseBatchTimeout) * time.Second,
		maxRetries:   3,
		retryBackoff: time.Second,
		shutdownChan: make(chan bool, 1),
	}
}

// SetRetryBackoff changes the base delay between failed flush attempts
func (bw *BatchWriterService) SetRetryBackoff(d time.Duration) {
	bw.retryBackoff = d
}

// Start begins the batch writer service. It returns after flushing when ctx
// is cancelled or rows is closed.
func (bw *BatchWriterService) Start(ctx context.Context, rows <-chan *models.DatasetRow) {
	bw.logger.Info("Starting batch writer service",
		zap.Int("max_batch_size", bw.maxBatchSize),
		zap.Duration("batch_timeout", bw.batchTimeout))

	bw.flushTimer = time.NewTimer(bw.batchTimeout)
	defer bw.flushTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			bw.logger.Info("Batch writer received shutdown signal")
			bw.shutdownFlush()
			return

		case row, ok := <-rows:
			if !ok {
				bw.logger.Warn("Row channel closed")
				bw.shutdownFlush()
				return
			}

			bw.bufferMutex.Lock()
			bw.buffer = append(bw.buffer, row)
			currentSize := len(bw.buffer)
			bw.bufferMutex.Unlock()

			bw.logger.Debug("Added row to buffer",
				zap.Int("tank_id", row.TankID),
				zap.Int("buffer_size", currentSize),
				zap.Int("max_batch_size", bw.maxBatchSize))

			if currentSize >= bw.maxBatchSize {
				bw.logger.Info("Buffer full, flushing", zap.Int("buffer_size", currentSize))

				if !bw.flushTimer.Stop() {
					// Drain the timer channel if it hasn't been drained
					select {
					case <-bw.flushTimer.C:
					default:
					}
				}

				bw.flushBuffer(ctx)
				bw.flushTimer.Reset(bw.batchTimeout)
			}

		case <-bw.flushTimer.C:
			if size := bw.GetBufferSize(); size > 0 {
				bw.logger.Info("Batch timeout reached, flushing", zap.Int("buffer_size", size))
				bw.flushBuffer(ctx)
			}
			bw.flushTimer.Reset(bw.batchTimeout)
		}
	}
}

// shutdownFlush writes what is left with a fresh deadline, since the run
// context may already be cancelled
func (bw *BatchWriterService) shutdownFlush() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bw.flushBuffer(ctx)
	select {
	case bw.shutdownChan <- true:
	default:
	}
}

// flushBuffer writes the current buffer to the sink and clears it
func (bw *BatchWriterService) flushBuffer(ctx context.Context) {
	bw.bufferMutex.Lock()

	if len(bw.buffer) == 0 {
		bw.bufferMutex.Unlock()
		return
	}

	// Copy buffer for writing (to avoid holding lock during write)
	batch := make([]*models.DatasetRow, len(bw.buffer))
	copy(batch, bw.buffer)
	bw.buffer = bw.buffer[:0]

	bw.bufferMutex.Unlock()

	var err error
	for attempt := 1; attempt <= bw.maxRetries; attempt++ {
		err = bw.sink.WriteBatch(ctx, batch)
		if err == nil {
			bw.logger.Info("Successfully flushed batch", zap.Int("batch_size", len(batch)))
			return
		}

		bw.logger.Error("Failed to flush batch",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", bw.maxRetries),
			zap.Int("batch_size", len(batch)),
			zap.Error(err))

		if attempt < bw.maxRetries {
			time.Sleep(time.Duration(attempt) * bw.retryBackoff)
		}
	}

	// If all retries failed, log error (data will be lost)
	bw.logger.Error("Failed to flush batch after all retries, data lost",
		zap.Int("batch_size", len(batch)),
		zap.Error(err))
}

// WaitForShutdown waits for the batch writer to complete shutdown
func (bw *BatchWriterService) WaitForShutdown(timeout time.Duration) bool {
	select {
	case <-bw.shutdownChan:
		return true
	case <-time.After(timeout):
		return false
	}
}

// GetBufferSize returns the current buffer size (for monitoring)
func (bw *BatchWriterService) GetBufferSize() int {
	bw.bufferMutex.Lock()
	defer bw.bufferMutex.Unlock()
	return len(bw.buffer)
}

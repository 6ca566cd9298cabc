package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hatchery/config"
	"hatchery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSink struct {
	mu       sync.Mutex
	batches  [][]*models.DatasetRow
	failures int
}

func (s *fakeSink) WriteBatch(ctx context.Context, rows []*models.DatasetRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("sink unavailable")
	}
	s.batches = append(s.batches, rows)
	return nil
}

func (s *fakeSink) sizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.batches))
	for i, b := range s.batches {
		out[i] = len(b)
	}
	return out
}

func batchConfig(size, timeoutSeconds int) *config.Config {
	return &config.Config{FirebaseBatchSize: size, FirebaseBatchTimeout: timeoutSeconds}
}

func TestBatchWriterFlushesFullBatches(t *testing.T) {
	sink := &fakeSink{}
	bw := NewBatchWriterService(batchConfig(3, 60), sink, zap.NewNop())

	rows := make(chan *models.DatasetRow)
	done := make(chan struct{})
	go func() {
		bw.Start(context.Background(), rows)
		close(done)
	}()

	for i := 1; i <= 7; i++ {
		rows <- &models.DatasetRow{EntryID: i, TankID: i%3 + 1}
	}
	close(rows)

	<-done
	assert.True(t, bw.WaitForShutdown(time.Second))
	assert.Equal(t, []int{3, 3, 1}, sink.sizes())
	assert.Equal(t, 0, bw.GetBufferSize())
}

func TestBatchWriterFlushesOnCancel(t *testing.T) {
	sink := &fakeSink{}
	bw := NewBatchWriterService(batchConfig(50, 60), sink, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	rows := make(chan *models.DatasetRow)
	done := make(chan struct{})
	go func() {
		bw.Start(ctx, rows)
		close(done)
	}()

	rows <- &models.DatasetRow{EntryID: 1}
	rows <- &models.DatasetRow{EntryID: 2}
	cancel()

	<-done
	assert.Equal(t, []int{2}, sink.sizes())
}

func TestBatchWriterRetries(t *testing.T) {
	sink := &fakeSink{failures: 2}
	bw := NewBatchWriterService(batchConfig(2, 60), sink, zap.NewNop())
	bw.SetRetryBackoff(time.Millisecond)

	rows := make(chan *models.DatasetRow, 2)
	rows <- &models.DatasetRow{EntryID: 1}
	rows <- &models.DatasetRow{EntryID: 2}
	close(rows)

	bw.Start(context.Background(), rows)
	require.Equal(t, []int{2}, sink.sizes())
}

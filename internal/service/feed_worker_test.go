package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubFeedSource serves a fixed queue of messages, then fails every further
// fetch with fetchErr (context.Canceled ends the worker loop).
type stubFeedSource struct {
	mu       sync.Mutex
	queue    []kafka.Message
	fetchErr error
	fetches  int
	commits  []kafka.Message
}

func (s *stubFeedSource) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if len(s.queue) > 0 {
		msg := s.queue[0]
		s.queue = s.queue[1:]
		return msg, nil
	}
	return kafka.Message{}, s.fetchErr
}

func (s *stubFeedSource) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits = append(s.commits, msgs...)
	return nil
}

func (s *stubFeedSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

type stubEventWriter struct {
	written  []kafka.Message
	writeErr error
}

func (s *stubEventWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.written = append(s.written, msgs...)
	return nil
}

func TestFeedWorkerBacksOffOnFetchFailure(t *testing.T) {
	src := &stubFeedSource{fetchErr: errors.New("broker unavailable")}
	worker := &FeedWorker{reader: src, log: zap.NewNop(), fetchBackoff: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	// ~10 fetches fit in the window at this backoff; a hot loop would make
	// thousands
	assert.LessOrEqual(t, src.fetchCount(), 30)
	assert.GreaterOrEqual(t, src.fetchCount(), 1)
}

func TestFeedWorkerRoutesPoisonedEventToFailover(t *testing.T) {
	poison := kafka.Message{Key: []byte("1"), Value: []byte("not json")}
	src := &stubFeedSource{queue: []kafka.Message{poison}, fetchErr: context.Canceled}
	failover := &stubEventWriter{}
	worker := &FeedWorker{reader: src, failover: failover, log: zap.NewNop(), fetchBackoff: time.Millisecond}

	worker.Run(context.Background())

	require.Len(t, failover.written, 1)
	assert.Equal(t, poison.Value, failover.written[0].Value)
	// the offset commits once the event is handed off
	require.Len(t, src.commits, 1)
	assert.Equal(t, poison.Value, src.commits[0].Value)
}

func TestFeedWorkerKeepsOffsetWhenFailoverFails(t *testing.T) {
	poison := kafka.Message{Key: []byte("1"), Value: []byte("not json")}
	src := &stubFeedSource{queue: []kafka.Message{poison}, fetchErr: context.Canceled}
	failover := &stubEventWriter{writeErr: errors.New("failover topic down")}
	worker := &FeedWorker{reader: src, failover: failover, log: zap.NewNop(), fetchBackoff: time.Millisecond}

	worker.Run(context.Background())

	assert.Empty(t, src.commits, "an unhandled event must stay uncommitted for redelivery")
}

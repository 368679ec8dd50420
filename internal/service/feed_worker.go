package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"plume-backend/internal/utils"
)

const defaultFetchBackoff = time.Second

// feedSource is the consuming side of the pipeline; satisfied by
// *kafka.Reader.
type feedSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// eventWriter is the producing side; satisfied by *kafka.Writer.
type eventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// FeedWorker consumes PostEvents and pushes the post into every follower's
// inbox ZSet. A failed event goes to the failover topic (main → retry,
// retry → DLQ) so one poisoned message cannot stall the partition; offsets
// are committed manually once the event is handled or handed off.
type FeedWorker struct {
	reader       feedSource
	failover     eventWriter
	followSvc    *FollowService
	rdb          *redis.Client
	log          *zap.Logger
	fetchBackoff time.Duration
}

func NewFeedWorker(reader *kafka.Reader, failover *kafka.Writer, followSvc *FollowService, rdb *redis.Client, log *zap.Logger) *FeedWorker {
	if log == nil {
		log = zap.NewNop()
	}
	w := &FeedWorker{
		reader:       reader,
		followSvc:    followSvc,
		rdb:          rdb,
		log:          log,
		fetchBackoff: defaultFetchBackoff,
	}
	if failover != nil {
		w.failover = failover
	}
	return w
}

// Run consumes until the context is cancelled. Fetch failures (broker down,
// reader closed) are retried after a backoff so the loop cannot spin hot.
func (w *FeedWorker) Run(ctx context.Context) {
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.log.Error("fetch feed event failed", zap.Error(err))
			if !w.sleep(ctx) {
				return
			}
			continue
		}
		if err := w.handle(ctx, msg.Value); err != nil {
			w.log.Warn("handle feed event failed", zap.Error(err))
			if w.failover != nil {
				if failErr := w.failover.WriteMessages(ctx, kafka.Message{Key: msg.Key, Value: msg.Value}); failErr != nil {
					w.log.Error("failover publish failed, leaving offset uncommitted", zap.Error(failErr))
					continue
				}
			}
		}
		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			w.log.Error("commit feed offset failed", zap.Error(err))
		}
	}
}

// sleep waits out the fetch backoff; false means the context ended first.
func (w *FeedWorker) sleep(ctx context.Context) bool {
	timer := time.NewTimer(w.fetchBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// handle fans one post out to its blog's followers.
func (w *FeedWorker) handle(ctx context.Context, payload []byte) error {
	var event PostEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	followers, err := w.followSvc.BlogFollowerIDs(ctx, event.BlogID)
	if err != nil {
		return err
	}
	for _, aliasID := range followers {
		key := fmt.Sprintf("%s%d", utils.FEED_KEY, aliasID)
		if err := w.rdb.ZAdd(ctx, key, redis.Z{
			Score:  float64(event.PublishedAt),
			Member: event.PostID,
		}).Err(); err != nil {
			return err
		}
		// cap inbox size; the oldest entries fall off
		if err := w.rdb.ZRemRangeByRank(ctx, key, 0, -(utils.FEED_MAX_LEN + 1)).Err(); err != nil {
			return err
		}
	}
	return nil
}

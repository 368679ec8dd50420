package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"plume-backend/internal/model"
	"plume-backend/internal/utils"
)

// PostEvent is the Kafka payload emitted when a post is published; the feed
// worker consumes it to fill follower inboxes.
type PostEvent struct {
	PostID      int64 `json:"postId"`
	BlogID      int64 `json:"blogId"`
	AliasID     int64 `json:"aliasId"`
	PublishedAt int64 `json:"publishedAt"`
}

// PostService publishes posts and serves the personalized feed. Publishing is
// push-model: the post row commits first, then a PostEvent goes to Kafka and
// the feed worker fans it out to follower inboxes (Redis ZSets keyed by
// alias, scored by publish millis).
type PostService struct {
	db           *gorm.DB
	rdb          *redis.Client
	relevanceSvc *RelevanceService
	idWorker     *utils.RedisIdWorker
	writer       *kafka.Writer
	log          *zap.Logger
}

func NewPostService(db *gorm.DB, rdb *redis.Client, relevanceSvc *RelevanceService, writer *kafka.Writer, log *zap.Logger) *PostService {
	var idWorker *utils.RedisIdWorker
	if rdb != nil {
		idWorker = utils.NewRedisIdWorker(rdb)
	}
	return &PostService{db: db, rdb: rdb, relevanceSvc: relevanceSvc, idWorker: idWorker, writer: writer, log: log}
}

// Create persists the post with its tags and emits the feed event. The event
// is published after the database commit; a publish failure is surfaced so
// the caller can retry, the post itself stays committed.
func (s *PostService) Create(ctx context.Context, post *model.Post, tagIDs []int64) error {
	if post.BlogID == 0 || post.AliasID == 0 {
		return errors.New("post requires a blog and an alias")
	}
	if s.idWorker != nil && post.ID == 0 {
		id, err := s.idWorker.NextId(ctx, "post")
		if err != nil {
			return err
		}
		post.ID = id
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.Create(&model.PostTag{PostID: post.ID, TagID: tagID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.publishEvent(ctx, post)
}

func (s *PostService) publishEvent(ctx context.Context, post *model.Post) error {
	if s.writer == nil {
		return nil
	}
	event := PostEvent{
		PostID:      post.ID,
		BlogID:      post.BlogID,
		AliasID:     post.AliasID,
		PublishedAt: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(post.BlogID, 10)),
		Value: payload,
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		if s.log != nil {
			s.log.Error("publish post event failed", zap.Int64("postId", post.ID), zap.Error(err))
		}
		return err
	}
	return nil
}

// GetByID loads a post; nil when absent.
func (s *PostService) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// QueryFeed reads the viewer's inbox with scroll pagination (lastScore is the
// previous page's minimum score, offset skips same-score entries), then
// applies the relevance sets: a post carrying any blocked tag is dropped.
// Block wins over follow.
func (s *PostService) QueryFeed(ctx context.Context, viewerAliasID int64, lastScore, offset, limit int64, suppressNSFW bool) ([]model.Post, int64, int64, error) {
	if s.rdb == nil {
		return nil, 0, 0, errors.New("feed store not configured")
	}
	key := fmt.Sprintf("%s%d", utils.FEED_KEY, viewerAliasID)
	max := "+inf"
	if lastScore > 0 {
		max = strconv.FormatInt(lastScore, 10)
	}
	zs, err := s.rdb.ZRevRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
		Min:    "-inf",
		Max:    max,
		Offset: offset,
		Count:  limit,
	}).Result()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(zs) == 0 {
		return nil, 0, 0, nil
	}

	var ids []int64
	for _, z := range zs {
		if id, parseErr := strconv.ParseInt(fmt.Sprint(z.Member), 10, 64); parseErr == nil {
			ids = append(ids, id)
		}
	}
	// next cursor: smallest score on this page plus how many entries share it
	lastPageScore := int64(zs[len(zs)-1].Score)
	var nextOffset int64
	for i := len(zs) - 1; i >= 0; i-- {
		if int64(zs[i].Score) == lastPageScore {
			nextOffset++
		}
	}

	var posts []model.Post
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, 0, 0, err
	}

	rel, err := s.relevanceSvc.RelevantTagIDs(ctx, s.db, viewerAliasID, suppressNSFW)
	if err != nil {
		return nil, 0, 0, err
	}
	posts, err = s.filterBlocked(ctx, posts, rel)
	if err != nil {
		return nil, 0, 0, err
	}

	// ZSet order is authoritative; IN queries return rows in arbitrary order
	idIndex := make(map[int64]int, len(ids))
	for i, id := range ids {
		idIndex[id] = i
	}
	sort.Slice(posts, func(i, j int) bool {
		return idIndex[posts[i].ID] < idIndex[posts[j].ID]
	})
	return posts, lastPageScore, nextOffset, nil
}

// filterBlocked drops every post tagged with a blocked tag id.
func (s *PostService) filterBlocked(ctx context.Context, posts []model.Post, rel *RelevanceSet) ([]model.Post, error) {
	if len(posts) == 0 || len(rel.Blocks) == 0 {
		return posts, nil
	}
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	var links []model.PostTag
	if err := s.db.WithContext(ctx).Where("post_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, err
	}
	blocked := make(map[int64]struct{})
	for _, link := range links {
		if _, ok := rel.Blocks[link.TagID]; ok {
			blocked[link.PostID] = struct{}{}
		}
	}
	if len(blocked) == 0 {
		return posts, nil
	}
	kept := posts[:0]
	for _, p := range posts {
		if _, drop := blocked[p.ID]; !drop {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

// TagIDs returns the tag ids attached to a post.
func (s *PostService) TagIDs(ctx context.Context, postID int64) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&model.PostTag{}).
		Where("post_id = ?", postID).
		Pluck("tag_id", &ids).Error
	return ids, err
}

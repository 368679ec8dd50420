package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"plume-backend/internal/model"
	"plume-backend/internal/utils"
)

const defaultLocalTagCacheTTL = 30 * time.Second

// TagService owns the tag hierarchy and implements the Descendants closure
// the relevance resolver depends on. Closures are cached in two layers:
// bigcache locally for hot tags, Redis for sharing across instances.
type TagService struct {
	db         *gorm.DB
	rdb        *redis.Client
	log        *zap.Logger
	localCache *bigcache.BigCache
}

func NewTagService(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *TagService {
	return &TagService{db: db, rdb: rdb, log: log, localCache: initTagLocalCache(log)}
}

// Descendants returns the tag's closure: the tag itself plus every
// transitive child. An id with no tag row behaves as a leaf.
func (s *TagService) Descendants(ctx context.Context, tagID int64) ([]int64, error) {
	key := utils.CACHE_TAG_DESC_KEY + strconv.FormatInt(tagID, 10)

	if ids, ok := s.getLocalClosure(key); ok {
		return ids, nil
	}

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var ids []int64
			if unmarshalErr := json.Unmarshal([]byte(cached), &ids); unmarshalErr != nil {
				return nil, unmarshalErr
			}
			s.setLocalClosure(key, []byte(cached))
			return ids, nil
		}
		if !errors.Is(err, redis.Nil) {
			return nil, err
		}
	}

	ids, err := s.walkDescendants(ctx, tagID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, data, time.Duration(utils.CACHE_TAG_DESC_TTL)*time.Minute).Err(); err != nil {
			return nil, err
		}
	}
	s.setLocalClosure(key, data)
	return ids, nil
}

// walkDescendants runs an iterative breadth-first expansion over parent_id.
// The graph is treated as acyclic; visited ids are tracked anyway so a bad
// row cannot loop the walk forever.
func (s *TagService) walkDescendants(ctx context.Context, tagID int64) ([]int64, error) {
	result := []int64{tagID}
	visited := map[int64]struct{}{tagID: {}}
	frontier := []int64{tagID}
	for len(frontier) > 0 {
		var children []int64
		if err := s.db.WithContext(ctx).
			Model(&model.Tag{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, c := range children {
			if _, seen := visited[c]; seen {
				continue
			}
			visited[c] = struct{}{}
			result = append(result, c)
			frontier = append(frontier, c)
		}
	}
	return result, nil
}

// Create inserts a tag and invalidates the cached closures of its ancestor
// chain, which all just gained a descendant.
func (s *TagService) Create(ctx context.Context, tag *model.Tag) error {
	if tag.ParentID != nil {
		var parent model.Tag
		err := s.db.WithContext(ctx).First(&parent, *tag.ParentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("parent tag %d: %w", *tag.ParentID, ErrTargetNotFound)
		}
		if err != nil {
			return err
		}
	}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return err
	}
	return s.invalidateAncestors(ctx, tag)
}

// GetByID loads a single tag; nil when absent.
func (s *TagService) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	var tag model.Tag
	err := s.db.WithContext(ctx).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// invalidateAncestors drops the Redis closure entries from the tag up to the
// root. Local cache entries age out on their own short TTL.
func (s *TagService) invalidateAncestors(ctx context.Context, tag *model.Tag) error {
	current := tag
	for {
		key := utils.CACHE_TAG_DESC_KEY + strconv.FormatInt(current.ID, 10)
		if s.rdb != nil {
			if err := s.rdb.Del(ctx, key).Err(); err != nil {
				return err
			}
		}
		if s.localCache != nil {
			_ = s.localCache.Delete(key)
		}
		if current.ParentID == nil {
			return nil
		}
		var parent model.Tag
		if err := s.db.WithContext(ctx).First(&parent, *current.ParentID).Error; err != nil {
			return err
		}
		current = &parent
	}
}

// initTagLocalCache initializes the local closure cache; a failure degrades
// to Redis-only caching.
func initTagLocalCache(log *zap.Logger) *bigcache.BigCache {
	ttl := localTagCacheTTL()
	config := bigcache.DefaultConfig(ttl)
	if ttl > 0 {
		config.CleanWindow = ttl / 2
	}
	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		if log != nil {
			log.Warn("init tag local cache failed", zap.Error(err))
		}
		return nil
	}
	return cache
}

// localTagCacheTTL supports tuning the local cache TTL via environment.
func localTagCacheTTL() time.Duration {
	if raw := os.Getenv("TAG_LOCAL_CACHE_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return defaultLocalTagCacheTTL
}

func (s *TagService) getLocalClosure(key string) ([]int64, bool) {
	if s.localCache == nil {
		return nil, false
	}
	data, err := s.localCache.Get(key)
	if err != nil {
		return nil, false
	}
	var ids []int64
	if unmarshalErr := json.Unmarshal(data, &ids); unmarshalErr != nil {
		_ = s.localCache.Delete(key)
		return nil, false
	}
	return ids, true
}

func (s *TagService) setLocalClosure(key string, data []byte) {
	if s.localCache == nil || len(data) == 0 {
		return
	}
	_ = s.localCache.Set(key, data)
}

package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"plume-backend/internal/model"
	"plume-backend/internal/utils"
)

const currentAliasKey = "currentAliasID"

// SessionMiddleware resolves the bearer token to the acting alias id stored
// in Redis. Requests without a valid token proceed as the anonymous viewer
// (alias id 0); handlers that need a real identity check for that sentinel.
func SessionMiddleware(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || rdb == nil {
			c.Set(currentAliasKey, model.AnonymousAliasID)
			c.Next()
			return
		}
		raw, err := rdb.Get(c.Request.Context(), utils.SESSION_ALIAS_KEY+token).Result()
		if err != nil {
			c.Set(currentAliasKey, model.AnonymousAliasID)
			c.Next()
			return
		}
		aliasID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			aliasID = model.AnonymousAliasID
		}
		c.Set(currentAliasKey, aliasID)
		c.Next()
	}
}

// CurrentAliasID returns the acting alias id; 0 means anonymous.
func CurrentAliasID(c *gin.Context) int64 {
	if v, ok := c.Get(currentAliasKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return model.AnonymousAliasID
}

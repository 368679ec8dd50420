package utils

const (
	SESSION_ALIAS_KEY = "session:alias:"
	SESSION_ALIAS_TTL = 36000

	FEED_KEY     = "feed:"
	FEED_MAX_LEN = 1000

	CACHE_TAG_DESC_KEY = "cache:tag:desc:"
	CACHE_TAG_DESC_TTL = 30
)

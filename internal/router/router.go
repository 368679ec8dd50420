package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"plume-backend/internal/handler"
	"plume-backend/internal/middleware"
	"plume-backend/internal/service"
)

// RegisterRoutes wires every module's routes onto the engine.
func RegisterRoutes(engine *gin.Engine, services *service.Registry, rdb *redis.Client) {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.SessionMiddleware(rdb))

	followHandler := handler.NewFollowHandler(services.Follow)
	aliasHandler := handler.NewAliasHandler(services.Alias, services.User)
	postHandler := handler.NewPostHandler(services.Post)
	notificationHandler := handler.NewNotificationHandler(services.Notification)
	tagHandler := handler.NewTagHandler(services.Tag, services.Relevance)
	communityHandler := handler.NewCommunityHandler(services.Community)

	followGroup := engine.Group("/follow")
	followGroup.PUT("/:kind/:id/:type", followHandler.Create)
	followGroup.DELETE("/:kind/:id/:type", followHandler.Destroy)
	followGroup.GET("/:kind/:id/:type", followHandler.Exists)

	aliasGroup := engine.Group("/alias")
	aliasGroup.POST("", aliasHandler.Create)
	aliasGroup.GET("/:id", aliasHandler.Get)

	postGroup := engine.Group("/post")
	postGroup.POST("", postHandler.Create)
	postGroup.GET("/feed", postHandler.Feed)
	postGroup.GET("/:id", postHandler.Get)

	notificationGroup := engine.Group("/notification")
	notificationGroup.GET("", notificationHandler.List)
	notificationGroup.PUT("/seen/:id", notificationHandler.MarkSeen)
	notificationGroup.GET("/unseen-count", notificationHandler.UnseenCount)

	tagGroup := engine.Group("/tag")
	tagGroup.POST("", tagHandler.Create)
	tagGroup.GET("/relevance", tagHandler.Relevance)
	tagGroup.GET("/:id/descendants", tagHandler.Descendants)

	communityGroup := engine.Group("/community")
	communityGroup.POST("", communityHandler.Create)
	communityGroup.GET("/:id", communityHandler.Get)
	communityGroup.PUT("/:id/membership", communityHandler.Join)
	communityGroup.DELETE("/:id/membership", communityHandler.Leave)
}

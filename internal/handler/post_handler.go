package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plume-backend/internal/dto/result"
	"plume-backend/internal/middleware"
	"plume-backend/internal/model"
	"plume-backend/internal/service"
)

// PostHandler exposes publishing and the personalized feed.
type PostHandler struct {
	postSvc *service.PostService
}

func NewPostHandler(postSvc *service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

type createPostRequest struct {
	BlogID  int64   `json:"blogId" binding:"required"`
	Title   string  `json:"title"`
	Content string  `json:"content" binding:"required"`
	TagIDs  []int64 `json:"tagIds"`
}

// Create handles POST /post.
func (h *PostHandler) Create(ctx *gin.Context) {
	aliasID := middleware.CurrentAliasID(ctx)
	if aliasID == model.AnonymousAliasID {
		ctx.JSON(http.StatusUnauthorized, result.Fail("login required"))
		return
	}
	var req createPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail(err.Error()))
		return
	}
	post := &model.Post{
		BlogID:  req.BlogID,
		AliasID: aliasID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := h.postSvc.Create(ctx.Request.Context(), post, req.TagIDs); err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(post))
}

// Get handles GET /post/:id.
func (h *PostHandler) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail("invalid post id"))
		return
	}
	post, err := h.postSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	if post == nil {
		ctx.JSON(http.StatusNotFound, result.Fail("post not found"))
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(post))
}

// Feed handles GET /post/feed with scroll pagination.
func (h *PostHandler) Feed(ctx *gin.Context) {
	viewerID := middleware.CurrentAliasID(ctx)
	lastScore, _ := strconv.ParseInt(ctx.DefaultQuery("lastScore", "0"), 10, 64)
	offset, _ := strconv.ParseInt(ctx.DefaultQuery("offset", "0"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.DefaultQuery("limit", "10"), 10, 64)
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	suppressNSFW := ctx.Query("suppressNsfw") == "true"

	posts, nextLast, nextOffset, err := h.postSvc.QueryFeed(ctx.Request.Context(), viewerID, lastScore, offset, limit, suppressNSFW)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(gin.H{
		"posts":      posts,
		"lastScore":  nextLast,
		"nextOffset": nextOffset,
	}))
}

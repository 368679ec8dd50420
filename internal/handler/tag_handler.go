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

// TagHandler exposes the tag hierarchy and the viewer's relevance sets.
type TagHandler struct {
	tagSvc       *service.TagService
	relevanceSvc *service.RelevanceService
}

func NewTagHandler(tagSvc *service.TagService, relevanceSvc *service.RelevanceService) *TagHandler {
	return &TagHandler{tagSvc: tagSvc, relevanceSvc: relevanceSvc}
}

type createTagRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

// Create handles POST /tag.
func (h *TagHandler) Create(ctx *gin.Context) {
	var req createTagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail(err.Error()))
		return
	}
	tag := &model.Tag{Name: req.Name, ParentID: req.ParentID}
	if err := h.tagSvc.Create(ctx.Request.Context(), tag); err != nil {
		renderFollowError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(tag))
}

// Descendants handles GET /tag/:id/descendants.
func (h *TagHandler) Descendants(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail("invalid tag id"))
		return
	}
	ids, err := h.tagSvc.Descendants(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(ids))
}

// Relevance handles GET /tag/relevance: the viewer's follow/block closures.
func (h *TagHandler) Relevance(ctx *gin.Context) {
	viewerID := middleware.CurrentAliasID(ctx)
	suppressNSFW := ctx.Query("suppressNsfw") == "true"
	rel, err := h.relevanceSvc.RelevantTagIDsDB(ctx.Request.Context(), viewerID, suppressNSFW)
	if err != nil {
		renderFollowError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(gin.H{
		"follows": setToSlice(rel.Follows),
		"blocks":  setToSlice(rel.Blocks),
	}))
}

func setToSlice(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

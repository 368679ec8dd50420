package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plume-backend/internal/dto/result"
	"plume-backend/internal/middleware"
	"plume-backend/internal/model"
	"plume-backend/internal/service"
)

// FollowHandler exposes follow/block edge creation and removal.
type FollowHandler struct {
	followSvc *service.FollowService
}

func NewFollowHandler(followSvc *service.FollowService) *FollowHandler {
	return &FollowHandler{followSvc: followSvc}
}

// Create handles PUT /follow/:kind/:id/:type.
func (h *FollowHandler) Create(ctx *gin.Context) {
	viewerID := middleware.CurrentAliasID(ctx)
	if viewerID == model.AnonymousAliasID {
		ctx.JSON(http.StatusUnauthorized, result.Fail("login required"))
		return
	}
	target, relType, ok := parseEdgeParams(ctx)
	if !ok {
		return
	}
	edge, created, err := h.followSvc.CreateTx(ctx.Request.Context(), viewerID, target, relType)
	if err != nil {
		renderFollowError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(gin.H{"edge": edge, "created": created}))
}

// Destroy handles DELETE /follow/:kind/:id/:type.
func (h *FollowHandler) Destroy(ctx *gin.Context) {
	viewerID := middleware.CurrentAliasID(ctx)
	if viewerID == model.AnonymousAliasID {
		ctx.JSON(http.StatusUnauthorized, result.Fail("login required"))
		return
	}
	target, relType, ok := parseEdgeParams(ctx)
	if !ok {
		return
	}
	if err := h.followSvc.DestroyTx(ctx.Request.Context(), viewerID, target, relType); err != nil {
		renderFollowError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result.Ok())
}

// Exists handles GET /follow/:kind/:id/:type.
func (h *FollowHandler) Exists(ctx *gin.Context) {
	viewerID := middleware.CurrentAliasID(ctx)
	target, relType, ok := parseEdgeParams(ctx)
	if !ok {
		return
	}
	exists, err := h.followSvc.Exists(ctx.Request.Context(), viewerID, target, relType)
	if err != nil {
		renderFollowError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(exists))
}

func parseEdgeParams(ctx *gin.Context) (service.Target, model.RelationType, bool) {
	targetID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || targetID <= 0 {
		ctx.JSON(http.StatusBadRequest, result.Fail("invalid target id"))
		return service.Target{}, "", false
	}
	target := service.Target{
		Kind: model.TargetKind(ctx.Param("kind")),
		ID:   targetID,
	}
	return target, model.RelationType(ctx.Param("type")), true
}

func renderFollowError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTargetKind),
		errors.Is(err, service.ErrInvalidRelationType),
		errors.Is(err, service.ErrInvalidTargetID),
		errors.Is(err, service.ErrInvalidViewerAlias):
		ctx.JSON(http.StatusBadRequest, result.Fail(err.Error()))
	case errors.Is(err, service.ErrTargetNotFound):
		ctx.JSON(http.StatusNotFound, result.Fail(err.Error()))
	default:
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
	}
}

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

// CommunityHandler exposes community lookup and membership.
type CommunityHandler struct {
	communitySvc *service.CommunityService
}

func NewCommunityHandler(communitySvc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communitySvc: communitySvc}
}

type createCommunityRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Create handles POST /community.
func (h *CommunityHandler) Create(ctx *gin.Context) {
	var req createCommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail(err.Error()))
		return
	}
	community := &model.Community{Name: req.Name, Description: req.Description}
	if err := h.communitySvc.Create(ctx.Request.Context(), community); err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(community))
}

// Get handles GET /community/:id.
func (h *CommunityHandler) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail("invalid community id"))
		return
	}
	community, err := h.communitySvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	if community == nil {
		ctx.JSON(http.StatusNotFound, result.Fail("community not found"))
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(community))
}

// Join handles PUT /community/:id/membership.
func (h *CommunityHandler) Join(ctx *gin.Context) {
	aliasID := middleware.CurrentAliasID(ctx)
	if aliasID == model.AnonymousAliasID {
		ctx.JSON(http.StatusUnauthorized, result.Fail("login required"))
		return
	}
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail("invalid community id"))
		return
	}
	if err := h.communitySvc.Join(ctx.Request.Context(), id, aliasID); err != nil {
		renderFollowError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result.Ok())
}

// Leave handles DELETE /community/:id/membership.
func (h *CommunityHandler) Leave(ctx *gin.Context) {
	aliasID := middleware.CurrentAliasID(ctx)
	if aliasID == model.AnonymousAliasID {
		ctx.JSON(http.StatusUnauthorized, result.Fail("login required"))
		return
	}
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail("invalid community id"))
		return
	}
	if err := h.communitySvc.Leave(ctx.Request.Context(), id, aliasID); err != nil {
		renderFollowError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result.Ok())
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plume-backend/internal/dto/result"
	"plume-backend/internal/service"
)

// AliasHandler exposes alias bootstrap and lookup.
type AliasHandler struct {
	aliasSvc *service.AliasService
	userSvc  *service.UserService
}

func NewAliasHandler(aliasSvc *service.AliasService, userSvc *service.UserService) *AliasHandler {
	return &AliasHandler{aliasSvc: aliasSvc, userSvc: userSvc}
}

type createAliasRequest struct {
	Name      string `json:"name" binding:"required"`
	UserID    int64  `json:"userId" binding:"required"`
	ImageID   int64  `json:"imageId"`
	SourceURL string `json:"sourceUrl"`
}

// Create handles POST /alias: the full bootstrap in one transaction.
func (h *AliasHandler) Create(ctx *gin.Context) {
	var req createAliasRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail(err.Error()))
		return
	}
	user, err := h.userSvc.FindByID(ctx.Request.Context(), req.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	if user == nil {
		ctx.JSON(http.StatusNotFound, result.Fail("user not found"))
		return
	}
	input := service.CreateAliasInput{Name: req.Name, User: user}
	if req.ImageID > 0 || req.SourceURL != "" {
		input.Avatar = &service.AvatarSpec{ImageID: req.ImageID, SourceURL: req.SourceURL}
	}
	alias, err := h.aliasSvc.CreateAliasTx(ctx.Request.Context(), input)
	if err != nil {
		renderFollowError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(alias))
}

// Get handles GET /alias/:id.
func (h *AliasHandler) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail("invalid alias id"))
		return
	}
	alias, err := h.aliasSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	if alias == nil {
		ctx.JSON(http.StatusNotFound, result.Fail("alias not found"))
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(alias))
}

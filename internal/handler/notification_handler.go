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

// NotificationHandler exposes the viewer's notification inbox.
type NotificationHandler struct {
	notificationSvc *service.NotificationService
}

func NewNotificationHandler(notificationSvc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List handles GET /notification.
func (h *NotificationHandler) List(ctx *gin.Context) {
	aliasID := middleware.CurrentAliasID(ctx)
	if aliasID == model.AnonymousAliasID {
		ctx.JSON(http.StatusUnauthorized, result.Fail("login required"))
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	items, err := h.notificationSvc.List(ctx.Request.Context(), aliasID, page, size)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithList(items, int64(len(items))))
}

// MarkSeen handles PUT /notification/seen/:id.
func (h *NotificationHandler) MarkSeen(ctx *gin.Context) {
	aliasID := middleware.CurrentAliasID(ctx)
	if aliasID == model.AnonymousAliasID {
		ctx.JSON(http.StatusUnauthorized, result.Fail("login required"))
		return
	}
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, result.Fail("invalid notification id"))
		return
	}
	if err := h.notificationSvc.MarkSeen(ctx.Request.Context(), aliasID, id); err != nil {
		renderFollowError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result.Ok())
}

// UnseenCount handles GET /notification/unseen-count.
func (h *NotificationHandler) UnseenCount(ctx *gin.Context) {
	aliasID := middleware.CurrentAliasID(ctx)
	if aliasID == model.AnonymousAliasID {
		ctx.JSON(http.StatusUnauthorized, result.Fail("login required"))
		return
	}
	count, err := h.notificationSvc.UnseenCount(ctx.Request.Context(), aliasID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, result.OkWithData(count))
}

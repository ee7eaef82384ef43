package handler

import (
	"net/http"

	"github.com/blues/afs/internal/logger"
	"github.com/blues/afs/internal/repository"
	"github.com/gin-gonic/gin"
)

// BadgeHandler 徽章处理器
type BadgeHandler struct {
	badgeRepo *repository.BadgeRepository
}

// NewBadgeHandler 创建徽章处理器
func NewBadgeHandler(badgeRepo *repository.BadgeRepository) *BadgeHandler {
	return &BadgeHandler{
		badgeRepo: badgeRepo,
	}
}

// GetBadges 获取徽章列表及获得人数
func (h *BadgeHandler) GetBadges(c *gin.Context) {
	badges, err := h.badgeRepo.ListBadges(c.Request.Context())
	if err != nil {
		logger.Error("List badges failed: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "获取徽章列表失败")
		return
	}

	SuccessResponse(c, http.StatusOK, "获取徽章列表成功", badges)
}

// GetSupporterBadges 获取捐赠者已获得的徽章
func (h *BadgeHandler) GetSupporterBadges(c *gin.Context) {
	supporterId, ok := parseID(c, "id")
	if !ok {
		return
	}

	badges, err := h.badgeRepo.ListSupporterBadges(c.Request.Context(), supporterId)
	if err != nil {
		logger.Error("List badges of supporter %d failed: %v", supporterId, err)
		ErrorResponse(c, http.StatusInternalServerError, "获取徽章失败")
		return
	}

	SuccessResponse(c, http.StatusOK, "获取徽章成功", badges)
}

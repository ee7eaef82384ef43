package handler

import (
	"net/http"

	"github.com/blues/afs/internal/logic"
	"github.com/blues/afs/internal/model"
	"github.com/gin-gonic/gin"
)

// ProgressUpdateHandler 活动进展处理器
type ProgressUpdateHandler struct {
	progressLogic *logic.ProgressUpdateLogic
}

// NewProgressUpdateHandler 创建活动进展处理器
func NewProgressUpdateHandler(progressLogic *logic.ProgressUpdateLogic) *ProgressUpdateHandler {
	return &ProgressUpdateHandler{
		progressLogic: progressLogic,
	}
}

// CreateProgressUpdate 发布活动进展
func (h *ProgressUpdateHandler) CreateProgressUpdate(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	campaignId, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreateProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	update := &model.ProgressUpdateModel{
		CampaignId: campaignId,
		Title:      req.Title,
		Content:    req.Content,
	}
	if err := h.progressLogic.CreateProgressUpdate(c.Request.Context(), identity.UserId, update); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "进展发布成功", update)
}

// GetCampaignProgressUpdates 获取活动进展列表
func (h *ProgressUpdateHandler) GetCampaignProgressUpdates(c *gin.Context) {
	campaignId, ok := parseID(c, "id")
	if !ok {
		return
	}

	updates, err := h.progressLogic.GetCampaignProgressUpdates(c.Request.Context(), campaignId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动进展成功", updates)
}

// GetProgressUpdate 获取单条活动进展
func (h *ProgressUpdateHandler) GetProgressUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	update, err := h.progressLogic.GetProgressUpdate(c.Request.Context(), id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取进展详情成功", update)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/afs/internal/logic"
	"github.com/gin-gonic/gin"
)

// CampaignHandler 活动处理器
type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
	ledger        *logic.CampaignLedger
}

// NewCampaignHandler 创建活动处理器
func NewCampaignHandler(campaignLogic *logic.CampaignLogic, ledger *logic.CampaignLedger) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic: campaignLogic,
		ledger:        ledger,
	}
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	campaign := req.ToModel()
	if err := h.campaignLogic.CreateCampaign(c.Request.Context(), identity.UserId, identity.Role, campaign); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", ToCampaignResponse(campaign))
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	filter := logic.CampaignFilter{
		Sport: c.Query("sport"),
	}
	if owner, err := strconv.ParseInt(c.Query("owner"), 10, 64); err == nil {
		filter.OwnerId = owner
	}
	if open, err := strconv.ParseBool(c.Query("is_open")); err == nil {
		filter.IsOpen = &open
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	campaigns, total, err := h.campaignLogic.GetCampaigns(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动列表成功", GetCampaignsResponse{
		Campaigns:  ToCampaignResponseList(campaigns),
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetCampaign 获取活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignLogic.GetCampaign(c.Request.Context(), id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动详情成功", ToCampaignResponse(campaign))
}

// UpdateCampaign 修改活动资料
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(updates) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "没有要更新的字段")
		return
	}

	campaign, err := h.campaignLogic.UpdateCampaign(c.Request.Context(), id, identity.UserId, identity.Role, updates)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动更新成功", ToCampaignResponse(campaign))
}

// CloseCampaign 关闭活动
func (h *CampaignHandler) CloseCampaign(c *gin.Context) {
	h.setOpen(c, false)
}

// ReopenCampaign 重新开放活动
func (h *CampaignHandler) ReopenCampaign(c *gin.Context) {
	h.setOpen(c, true)
}

func (h *CampaignHandler) setOpen(c *gin.Context, open bool) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	toggle, message := h.ledger.Close, "活动已关闭"
	if open {
		toggle, message = h.ledger.Reopen, "活动已重新开放"
	}

	campaign, err := toggle(c.Request.Context(), id, identity.UserId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, message, ToCampaignResponse(campaign))
}

// DeleteCampaign 删除活动
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.campaignLogic.DeleteCampaign(c.Request.Context(), id, identity.UserId); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动已删除", nil)
}

// GetCampaignStats 获取活动统计信息
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := h.campaignLogic.GetCampaignStats(c.Request.Context(), id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动统计信息成功", stats)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/afs/internal/logic"
	"github.com/gin-gonic/gin"
)

// PledgeHandler 捐赠处理器
type PledgeHandler struct {
	pledgeLogic *logic.PledgeLogic
}

// NewPledgeHandler 创建捐赠处理器
func NewPledgeHandler(pledgeLogic *logic.PledgeLogic) *PledgeHandler {
	return &PledgeHandler{
		pledgeLogic: pledgeLogic,
	}
}

// CreatePledge 创建捐赠
func (h *PledgeHandler) CreatePledge(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req CreatePledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 调用logic层提交捐赠
	result, err := h.pledgeLogic.Submit(c.Request.Context(), &logic.CreatePledgeRequest{
		Amount:        req.Amount,
		Comment:       req.Comment,
		Anonymous:     req.Anonymous,
		CampaignId:    req.CampaignId,
		SupporterId:   identity.UserId,
		SupporterRole: identity.Role,
	})
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "捐赠成功", result)
}

// GetPledge 获取捐赠详情
func (h *PledgeHandler) GetPledge(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pledge, err := h.pledgeLogic.GetPledge(c.Request.Context(), id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取捐赠详情成功", ToPledgeResponse(pledge, viewerId(c)))
}

// UpdatePledge 修改捐赠附加信息
func (h *PledgeHandler) UpdatePledge(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdatePledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount != nil {
		LogicErrorResponse(c, logic.ErrAmountImmutable)
		return
	}

	pledge, err := h.pledgeLogic.UpdatePledge(c.Request.Context(), id, identity.UserId, logic.PledgeUpdate{
		Comment:     req.Comment,
		Anonymous:   req.Anonymous,
		IsFulfilled: req.IsFulfilled,
	})
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "捐赠更新成功", ToPledgeResponse(pledge, identity.UserId))
}

// GetCampaignPledges 获取活动捐赠记录
func (h *PledgeHandler) GetCampaignPledges(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	pledges, total, err := h.pledgeLogic.GetCampaignPledges(c.Request.Context(), id, page, pageSize)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动捐赠记录成功", GetPledgesResponse{
		Pledges:    ToPledgeResponseList(pledges, viewerId(c)),
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetMyPledges 获取当前用户的捐赠记录
func (h *PledgeHandler) GetMyPledges(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	pledges, total, err := h.pledgeLogic.GetSupporterPledges(c.Request.Context(), identity.UserId, page, pageSize)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取捐赠记录成功", GetPledgesResponse{
		Pledges:    ToPledgeResponseList(pledges, identity.UserId),
		Pagination: newPagination(page, pageSize, total),
	})
}

// parseID 解析路径中的ID
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "无效的ID")
		return 0, false
	}
	return id, true
}

// viewerId 当前请求者ID，未登录时为 0
func viewerId(c *gin.Context) int64 {
	if identity := IdentityFrom(c); identity != nil {
		return identity.UserId
	}
	return 0
}

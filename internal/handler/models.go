package handler

import (
	"time"

	"github.com/blues/afs/internal/model"
	"github.com/shopspring/decimal"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

// 活动相关请求和响应模型

// CreateCampaignRequest 创建活动请求
type CreateCampaignRequest struct {
	FirstName        string          `json:"first_name" binding:"required"`
	LastName         string          `json:"last_name" binding:"required"`
	Bio              string          `json:"bio"`
	Age              int             `json:"age" binding:"min=0"`
	Sport            string          `json:"sport"`
	Goal             decimal.Decimal `json:"goal"`
	FundingBreakdown string          `json:"funding_breakdown"`
	Achievements     string          `json:"achievements"`
	Image            string          `json:"image"`
	Video            string          `json:"video"`
	ProgressUpdates  string          `json:"progress_updates"`
}

// ToModel 转换为活动模型
func (r *CreateCampaignRequest) ToModel() *model.CampaignModel {
	return &model.CampaignModel{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Bio:              r.Bio,
		Age:              r.Age,
		Sport:            r.Sport,
		Goal:             r.Goal,
		FundingBreakdown: r.FundingBreakdown,
		Achievements:     r.Achievements,
		Image:            r.Image,
		Video:            r.Video,
		ProgressUpdates:  r.ProgressUpdates,
	}
}

// CampaignResponse 活动响应模型
type CampaignResponse struct {
	Id               int64           `json:"id"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	Bio              string          `json:"bio"`
	Age              int             `json:"age"`
	Sport            string          `json:"sport"`
	Goal             decimal.Decimal `json:"goal"`
	FundsRaised      decimal.Decimal `json:"funds_raised"`
	FundsRemaining   decimal.Decimal `json:"funds_remaining"`
	IsOpen           bool            `json:"is_open"`
	FundingBreakdown string          `json:"funding_breakdown"`
	Achievements     string          `json:"achievements"`
	Image            string          `json:"image"`
	Video            string          `json:"video"`
	ProgressUpdates  string          `json:"progress_updates"`
	OwnerId          int64           `json:"owner"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToCampaignResponse 转换活动响应
func ToCampaignResponse(c *model.CampaignModel) CampaignResponse {
	return CampaignResponse{
		Id:               c.Id,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Bio:              c.Bio,
		Age:              c.Age,
		Sport:            c.Sport,
		Goal:             c.Goal,
		FundsRaised:      c.FundsRaised,
		FundsRemaining:   c.FundsRemaining(),
		IsOpen:           c.IsOpen,
		FundingBreakdown: c.FundingBreakdown,
		Achievements:     c.Achievements,
		Image:            c.Image,
		Video:            c.Video,
		ProgressUpdates:  c.ProgressUpdates,
		OwnerId:          c.OwnerId,
		CreatedAt:        c.CreatedAt,
	}
}

// ToCampaignResponseList 转换活动响应列表
func ToCampaignResponseList(campaigns []model.CampaignModel) []CampaignResponse {
	list := make([]CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		list = append(list, ToCampaignResponse(&campaigns[i]))
	}
	return list
}

// GetCampaignsResponse 活动列表响应
type GetCampaignsResponse struct {
	Campaigns  []CampaignResponse `json:"campaigns"`
	Pagination Pagination         `json:"pagination"`
}

// 捐赠相关请求和响应模型

// CreatePledgeRequest 创建捐赠请求
type CreatePledgeRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Comment    string          `json:"comment" binding:"max=200"`
	Anonymous  bool            `json:"anonymous"`
	CampaignId int64           `json:"campaign_id"`
}

// UpdatePledgeRequest 修改捐赠请求，amount 仅用于拒绝修改金额
type UpdatePledgeRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Comment     *string          `json:"comment" binding:"omitempty,max=200"`
	Anonymous   *bool            `json:"anonymous"`
	IsFulfilled *bool            `json:"is_fulfilled"`
}

// PledgeResponse 捐赠响应模型，匿名捐赠不向他人展示捐赠者
type PledgeResponse struct {
	Id          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Comment     string          `json:"comment"`
	Anonymous   bool            `json:"anonymous"`
	IsFulfilled bool            `json:"is_fulfilled"`
	CampaignId  int64           `json:"campaign_id"`
	SupporterId *int64          `json:"supporter"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToPledgeResponse 转换捐赠响应，viewerId 为当前请求者
func ToPledgeResponse(p *model.PledgeModel, viewerId int64) PledgeResponse {
	resp := PledgeResponse{
		Id:          p.Id,
		Amount:      p.Amount,
		Comment:     p.Comment,
		Anonymous:   p.Anonymous,
		IsFulfilled: p.IsFulfilled,
		CampaignId:  p.CampaignId,
		CreatedAt:   p.CreatedAt,
	}
	if !p.Anonymous || p.SupporterId == viewerId {
		supporterId := p.SupporterId
		resp.SupporterId = &supporterId
	}
	return resp
}

// ToPledgeResponseList 转换捐赠响应列表
func ToPledgeResponseList(pledges []model.PledgeModel, viewerId int64) []PledgeResponse {
	list := make([]PledgeResponse, 0, len(pledges))
	for i := range pledges {
		list = append(list, ToPledgeResponse(&pledges[i], viewerId))
	}
	return list
}

// GetPledgesResponse 捐赠列表响应
type GetPledgesResponse struct {
	Pledges    []PledgeResponse `json:"pledges"`
	Pagination Pagination       `json:"pagination"`
}

// 进展相关请求模型

// CreateProgressUpdateRequest 发布进展请求
type CreateProgressUpdateRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/blues/afs/internal/logic"
	"github.com/blues/afs/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(logic.ErrInvalidAmount))
	assert.Equal(t, http.StatusBadRequest, StatusCode(logic.ErrCampaignClosed))
	assert.Equal(t, http.StatusBadRequest, StatusCode(logic.ErrMissingCampaign))
	assert.Equal(t, http.StatusBadRequest, StatusCode(logic.ErrAmountImmutable))
	assert.Equal(t, http.StatusForbidden, StatusCode(logic.ErrForbidden))
	assert.Equal(t, http.StatusForbidden, StatusCode(logic.ErrNotOwner))
	assert.Equal(t, http.StatusNotFound, StatusCode(fmt.Errorf("lookup: %w", logic.ErrCampaignNotFound)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("db gone")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(&logic.Error{Kind: logic.KindPersistence, Err: errors.New("x")}))
}

func TestToPledgeResponse(t *testing.T) {
	pledge := &model.PledgeModel{
		Id:          3,
		Amount:      decimal.NewFromInt(20),
		Anonymous:   true,
		CampaignId:  1,
		SupporterId: 5,
		CreatedAt:   time.Now(),
	}

	assert.Nil(t, ToPledgeResponse(pledge, 0).SupporterId)
	assert.Nil(t, ToPledgeResponse(pledge, 6).SupporterId)

	own := ToPledgeResponse(pledge, 5)
	require.NotNil(t, own.SupporterId)
	assert.Equal(t, int64(5), *own.SupporterId)

	pledge.Anonymous = false
	public := ToPledgeResponse(pledge, 0)
	require.NotNil(t, public.SupporterId)
	assert.Equal(t, int64(5), *public.SupporterId)
}

func TestNewPagination(t *testing.T) {
	p := newPagination(0, 0, 45)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, int64(3), p.TotalPage)

	p = newPagination(2, 10, 0)
	assert.Equal(t, int64(0), p.TotalPage)
}

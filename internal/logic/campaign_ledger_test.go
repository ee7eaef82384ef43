package logic

import (
	"context"
	"testing"

	"github.com/blues/afs/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCredit(t *testing.T) {
	db := newTestDB(t)
	ledger := NewCampaignLedger(db)
	open := createCampaign(t, db, 1, "300", true)
	closed := createCampaign(t, db, 1, "300", false)

	require.NoError(t, ledger.Credit(db, open.Id, dec("120.5")))
	require.NoError(t, ledger.Credit(db, open.Id, dec("79.5")))
	campaign := reloadCampaign(t, db, open.Id)
	assert.True(t, campaign.FundsRaised.Equal(dec("200")), campaign.FundsRaised.String())
	assert.True(t, ledger.Remaining(campaign).Equal(dec("100")))

	assert.ErrorIs(t, ledger.Credit(db, closed.Id, dec("10")), ErrCampaignClosed)
	assert.True(t, reloadCampaign(t, db, closed.Id).FundsRaised.IsZero())

	assert.ErrorIs(t, ledger.Credit(db, 9999, dec("10")), ErrCampaignNotFound)
	assert.ErrorIs(t, ledger.Credit(db, open.Id, dec("0")), ErrInvalidAmount)
}

func TestLedgerCloseAndReopen(t *testing.T) {
	db := newTestDB(t)
	ledger := NewCampaignLedger(db)
	campaign := createCampaign(t, db, 1, "300", true)
	ctx := context.Background()

	_, err := ledger.Close(ctx, campaign.Id, 2)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.True(t, reloadCampaign(t, db, campaign.Id).IsOpen)

	closed, err := ledger.Close(ctx, campaign.Id, 1)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)
	assert.False(t, reloadCampaign(t, db, campaign.Id).IsOpen)

	// 重复关闭不报错
	closed, err = ledger.Close(ctx, campaign.Id, 1)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)

	reopened, err := ledger.Reopen(ctx, campaign.Id, 1)
	require.NoError(t, err)
	assert.True(t, reopened.IsOpen)
	assert.True(t, reloadCampaign(t, db, campaign.Id).IsOpen)

	_, err = ledger.Reopen(ctx, 9999, 1)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestSubmitAfterCloseRejected(t *testing.T) {
	db, svc := newTestServices(t, false)
	campaign := createCampaign(t, db, 1, "300", true)
	ctx := context.Background()

	_, err := svc.Pledges.Submit(ctx, pledgeReq(campaign.Id, 5, "10"))
	require.NoError(t, err)

	_, err = svc.Ledger.Close(ctx, campaign.Id, 1)
	require.NoError(t, err)

	_, err = svc.Pledges.Submit(ctx, pledgeReq(campaign.Id, 5, "10"))
	assert.ErrorIs(t, err, ErrCampaignClosed)
	assert.True(t, reloadCampaign(t, db, campaign.Id).FundsRaised.Equal(dec("10")))
}

func TestLedgerCreditFractionalAmounts(t *testing.T) {
	db, svc := newTestServices(t, false)
	campaign := createCampaign(t, db, 1, "10", true)
	ctx := context.Background()

	_, err := svc.Pledges.Submit(ctx, pledgeReq(campaign.Id, 5, "1.1"))
	require.NoError(t, err)
	result, err := svc.Pledges.Submit(ctx, pledgeReq(campaign.Id, 5, "2.2"))
	require.NoError(t, err)

	assert.Equal(t, "3.3", result.CampaignFundsRaised.String())
	assert.Equal(t, "6.7", result.CampaignFundsRemaining.String())
	assert.Equal(t, "3.3", reloadCampaign(t, db, campaign.Id).FundsRaised.String())

	total, err := repository.NewPledgeStatsRepository(db).TotalPledged(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "3.3", total.String())

	assert.ErrorIs(t, svc.Ledger.Credit(db, campaign.Id, dec("1.005")), ErrInvalidAmount)
	assert.ErrorIs(t, svc.Ledger.Credit(db, campaign.Id, dec("1000000000000")), ErrInvalidAmount)
	assert.Equal(t, "3.3", reloadCampaign(t, db, campaign.Id).FundsRaised.String())
}

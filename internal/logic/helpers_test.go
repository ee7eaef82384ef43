package logic

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blues/afs/internal/config"
	"github.com/blues/afs/internal/database"
	"github.com/blues/afs/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Driver:   database.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "afs.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Pledge: config.PledgeConfig{MinAmount: 1},
		Badge: config.BadgeConfig{
			TopDonorName:      "Top Donor",
			FirstDonorName:    "First Donor",
			TopDonorThreshold: 100,
		},
	}
}

func newTestServices(t *testing.T, seedBadges bool) (*gorm.DB, *Services) {
	t.Helper()

	db := newTestDB(t)
	svc := NewServices(db, testConfig())
	if seedBadges {
		_, err := svc.Badges.EnsureBadges(context.Background(), []model.BadgeModel{
			{Name: "Top Donor"},
			{Name: "First Donor"},
		})
		require.NoError(t, err)
	}
	return db, svc
}

func createCampaign(t *testing.T, db *gorm.DB, ownerId int64, goal string, open bool) *model.CampaignModel {
	t.Helper()

	campaign := &model.CampaignModel{
		FirstName: "Ada",
		LastName:  "Runner",
		Sport:     "athletics",
		Goal:      decimal.RequireFromString(goal),
		IsOpen:    open,
		OwnerId:   ownerId,
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func reloadCampaign(t *testing.T, db *gorm.DB, id int64) *model.CampaignModel {
	t.Helper()

	var campaign model.CampaignModel
	require.NoError(t, db.First(&campaign, id).Error)
	return &campaign
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

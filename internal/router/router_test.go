package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/blues/afs/internal/auth"
	"github.com/blues/afs/internal/config"
	"github.com/blues/afs/internal/database"
	"github.com/blues/afs/internal/logic"
	"github.com/blues/afs/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
	tokens  *auth.TokenManager
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver:   database.DriverSQLite,
			Path:     filepath.Join(t.TempDir(), "afs.db"),
			LogLevel: "silent",
		},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", Issuer: "afs", TokenTTL: 1},
		Pledge: config.PledgeConfig{MinAmount: 1},
		Badge: config.BadgeConfig{
			TopDonorName:      "Top Donor",
			FirstDonorName:    "First Donor",
			TopDonorThreshold: 100,
		},
	}

	db, err := database.Init(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	svc := logic.NewServices(db, cfg)
	_, err = svc.Badges.EnsureBadges(context.Background(), []model.BadgeModel{{Name: "Top Donor"}, {Name: "First Donor"}})
	require.NoError(t, err)

	tokens := auth.NewTokenManager(cfg.Auth)
	return &testServer{t: t, db: db, handler: Setup(svc, tokens, cfg), tokens: tokens}
}

func (s *testServer) token(userId int64, role model.Role) string {
	s.t.Helper()
	token, err := s.tokens.Issue(userId, role)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) createCampaign(ownerId int64, goal string) int64 {
	s.t.Helper()

	rec, env := s.do(http.MethodPost, "/api/v1/campaigns", s.token(ownerId, model.RoleAthlete), map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Runner",
		"sport":      "athletics",
		"goal":       goal,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var campaign struct {
		Id int64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &campaign))
	return campaign.Id
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestCreatePledge(t *testing.T) {
	s := newTestServer(t)
	campaignId := s.createCampaign(1, "500")

	rec, env := s.do(http.MethodPost, "/api/v1/pledges", s.token(5, model.RoleDonor), map[string]interface{}{
		"amount":      "150",
		"comment":     "go fast",
		"campaign_id": campaignId,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	var result logic.PledgeResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.NotZero(t, result.PledgeId)
	assert.Equal(t, campaignId, result.CampaignId)
	assert.True(t, result.CampaignFundsRaised.Equal(decimal.NewFromInt(150)))
	assert.True(t, result.CampaignFundsRemaining.Equal(decimal.NewFromInt(350)))
	assert.ElementsMatch(t, []string{"Top Donor", "First Donor"}, result.BadgesNewlyAwarded)

	rec, env = s.do(http.MethodGet, "/api/v1/supporters/5/badges", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var badges []model.BadgeModel
	require.NoError(t, json.Unmarshal(env.Data, &badges))
	assert.Len(t, badges, 2)
}

func TestCreatePledgeErrors(t *testing.T) {
	s := newTestServer(t)
	campaignId := s.createCampaign(1, "500")
	closedId := s.createCampaign(1, "500")
	rec, _ := s.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/close", closedId), s.token(1, model.RoleAthlete), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	donor := s.token(5, model.RoleDonor)
	tests := []struct {
		name   string
		token  string
		body   map[string]interface{}
		status int
	}{
		{"no token", "", map[string]interface{}{"amount": "10", "campaign_id": campaignId}, http.StatusUnauthorized},
		{"bad token", "garbage", map[string]interface{}{"amount": "10", "campaign_id": campaignId}, http.StatusUnauthorized},
		{"athlete", s.token(1, model.RoleAthlete), map[string]interface{}{"amount": "10", "campaign_id": campaignId}, http.StatusForbidden},
		{"zero amount", donor, map[string]interface{}{"amount": "0", "campaign_id": campaignId}, http.StatusBadRequest},
		{"negative amount", donor, map[string]interface{}{"amount": "-3", "campaign_id": campaignId}, http.StatusBadRequest},
		{"missing campaign", donor, map[string]interface{}{"amount": "10"}, http.StatusBadRequest},
		{"unknown campaign", donor, map[string]interface{}{"amount": "10", "campaign_id": 9999}, http.StatusNotFound},
		{"closed campaign", donor, map[string]interface{}{"amount": "10", "campaign_id": closedId}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(http.MethodPost, "/api/v1/pledges", tt.token, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&model.PledgeModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAnonymousPledgeHidesSupporter(t *testing.T) {
	s := newTestServer(t)
	campaignId := s.createCampaign(1, "500")
	donor := s.token(5, model.RoleDonor)

	rec, env := s.do(http.MethodPost, "/api/v1/pledges", donor, map[string]interface{}{
		"amount":      "10",
		"anonymous":   true,
		"campaign_id": campaignId,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var result logic.PledgeResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	path := fmt.Sprintf("/api/v1/pledges/%d", result.PledgeId)

	var pledge struct {
		SupporterId *int64 `json:"supporter"`
	}
	rec, env = s.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &pledge))
	assert.Nil(t, pledge.SupporterId)

	rec, env = s.do(http.MethodGet, path, donor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &pledge))
	require.NotNil(t, pledge.SupporterId)
	assert.Equal(t, int64(5), *pledge.SupporterId)
}

func TestUpdatePledge(t *testing.T) {
	s := newTestServer(t)
	campaignId := s.createCampaign(1, "500")
	donor := s.token(5, model.RoleDonor)

	_, env := s.do(http.MethodPost, "/api/v1/pledges", donor, map[string]interface{}{"amount": "10", "campaign_id": campaignId})
	var result logic.PledgeResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	path := fmt.Sprintf("/api/v1/pledges/%d", result.PledgeId)

	rec, _ := s.do(http.MethodPut, path, donor, map[string]interface{}{"amount": "1000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPut, path, s.token(6, model.RoleDonor), map[string]interface{}{"comment": "mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(http.MethodPut, path, donor, map[string]interface{}{"comment": "thanks", "is_fulfilled": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pledge struct {
		Amount      decimal.Decimal `json:"amount"`
		Comment     string          `json:"comment"`
		IsFulfilled bool            `json:"is_fulfilled"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pledge))
	assert.Equal(t, "thanks", pledge.Comment)
	assert.True(t, pledge.IsFulfilled)
	assert.True(t, pledge.Amount.Equal(decimal.NewFromInt(10)))
}

func TestCampaignLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := s.token(1, model.RoleAthlete)

	rec, _ := s.do(http.MethodPost, "/api/v1/campaigns", s.token(5, model.RoleDonor), map[string]interface{}{
		"first_name": "Ada", "last_name": "Runner", "goal": "100",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	campaignId := s.createCampaign(1, "200")
	path := fmt.Sprintf("/api/v1/campaigns/%d", campaignId)

	rec, _ = s.do(http.MethodPut, path, owner, map[string]interface{}{"funds_raised": "999"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPut, path, s.token(2, model.RoleAthlete), map[string]interface{}{"bio": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(http.MethodPut, path, owner, map[string]interface{}{"bio": "sprinter"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"bio":"sprinter"`)

	donor := s.token(5, model.RoleDonor)
	rec, _ = s.do(http.MethodPost, "/api/v1/pledges", donor, map[string]interface{}{"amount": "50", "campaign_id": campaignId})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = s.do(http.MethodGet, path+"/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats logic.CampaignStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.PledgeCount)
	assert.True(t, stats.FundsRemaining.Equal(decimal.NewFromInt(150)))

	rec, env = s.do(http.MethodGet, path+"/pledges", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"total":1`)

	rec, _ = s.do(http.MethodPost, path+"/updates", owner, map[string]interface{}{"title": "week 1", "content": "trained"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, env = s.do(http.MethodGet, path+"/updates", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "week 1")

	rec, _ = s.do(http.MethodPost, path+"/close", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/v1/pledges", donor, map[string]interface{}{"amount": "50", "campaign_id": campaignId})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, path+"/reopen", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/v1/pledges", donor, map[string]interface{}{"amount": "50", "campaign_id": campaignId})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/campaigns?is_open=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"funds_raised":"100"`)

	rec, _ = s.do(http.MethodDelete, path, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodGet, "/api/v1/campaigns/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/pledges/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/pledges/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/v1/badges", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Top Donor")
}

func TestGetProgressUpdate(t *testing.T) {
	s := newTestServer(t)
	owner := s.token(1, model.RoleAthlete)
	campaignId := s.createCampaign(1, "200")

	rec, env := s.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/updates", campaignId), owner,
		map[string]interface{}{"title": "race day", "content": "podium"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.ProgressUpdateModel
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/updates/%d", created.Id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got model.ProgressUpdateModel
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "race day", got.Title)
	assert.Equal(t, campaignId, got.CampaignId)

	rec, _ = s.do(http.MethodGet, "/api/v1/updates/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/updates/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCampaignRejectsInvalidValues(t *testing.T) {
	s := newTestServer(t)
	owner := s.token(1, model.RoleAthlete)
	path := fmt.Sprintf("/api/v1/campaigns/%d", s.createCampaign(1, "200"))

	for _, body := range []map[string]interface{}{
		{"first_name": ""},
		{"age": -3},
		{"age": "x"},
	} {
		rec, _ := s.do(http.MethodPut, path, owner, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%v", body)
	}

	rec, env := s.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"first_name":"Ada"`)
}

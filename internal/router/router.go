package router

import (
	"github.com/blues/afs/internal/auth"
	"github.com/blues/afs/internal/config"
	"github.com/blues/afs/internal/handler"
	"github.com/blues/afs/internal/logic"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func Setup(svc *logic.Services, tokens *auth.TokenManager, cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 中间件
	r.Use(requestID())
	r.Use(requestLogger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", requestIDHeader},
		ExposeHeaders:   []string{requestIDHeader},
	}))
	r.Use(authenticate(tokens))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "athlete-funding-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 活动相关路由
		campaignHandler := handler.NewCampaignHandler(svc.Campaigns, svc.Ledger)
		pledgeHandler := handler.NewPledgeHandler(svc.Pledges)
		progressHandler := handler.NewProgressUpdateHandler(svc.Progress)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.PUT("/:id", campaignHandler.UpdateCampaign)
			campaigns.DELETE("/:id", campaignHandler.DeleteCampaign)
			campaigns.POST("/:id/close", campaignHandler.CloseCampaign)
			campaigns.POST("/:id/reopen", campaignHandler.ReopenCampaign)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
			campaigns.GET("/:id/pledges", pledgeHandler.GetCampaignPledges)
			campaigns.GET("/:id/updates", progressHandler.GetCampaignProgressUpdates)
			campaigns.POST("/:id/updates", progressHandler.CreateProgressUpdate)
		}

		v1.GET("/updates/:id", progressHandler.GetProgressUpdate)

		// 捐赠相关路由
		pledges := v1.Group("/pledges")
		{
			pledges.POST("", pledgeHandler.CreatePledge)
			pledges.GET("/mine", pledgeHandler.GetMyPledges)
			pledges.GET("/:id", pledgeHandler.GetPledge)
			pledges.PUT("/:id", pledgeHandler.UpdatePledge)
		}

		// 徽章相关路由
		badgeHandler := handler.NewBadgeHandler(svc.Badges)
		v1.GET("/badges", badgeHandler.GetBadges)
		v1.GET("/supporters/:id/badges", badgeHandler.GetSupporterBadges)
	}

	return r
}

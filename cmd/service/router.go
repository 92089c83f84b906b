package service

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidalaw/intake-api/app/core"
	"github.com/vidalaw/intake-api/app/response"
	"github.com/vidalaw/intake-api/cmd/service/handler"
	"github.com/vidalaw/intake-api/cmd/service/middleware"
	"github.com/vidalaw/intake-api/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	ipLimit := GetIPLimitBuilder(s.Core)

	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.Observe(s.Core))

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	apiV1 := s.Engine.Group("/api/v1")
	{
		// No credentials on these two. The access endpoint carries the brunt
		// of guessing traffic, so it gets the tightest limiter.
		apiV1.POST("/share/:token/access", ipLimit("share_access", core.WithLimit(30), core.WithRange(time.Minute)), s.RedeemShareToken)
		apiV1.POST("/bond", ipLimit("bond_intake", core.WithLimit(10), core.WithRange(time.Minute)), s.CreateBondSubmission)

		// Token-holder surface. Everything here rides on the short-lived
		// grant minted by the access endpoint; the resource id always comes
		// out of the grant, never the URL.
		shared := apiV1.Group("/shared")
		shared.Use(middleware.ShareGrantRequired(s.Core))
		{
			shared.GET("/letter", s.GetSharedLetter)
			shared.PUT("/letter/fields", s.SaveSharedLetterFields)
			shared.POST("/letter/finalize", s.FinalizeSharedLetter)

			shared.GET("/plan", s.GetSharedPlan)

			shared.GET("/bundle", s.GetSharedBundle)
			shared.POST("/bundle/file", s.UploadSharedBundleFile)
			shared.DELETE("/bundle/file/:fileID", s.RemoveSharedBundleFile)
			shared.POST("/bundle/submit", s.SubmitSharedBundle)
		}

		staff := apiV1.Group("")
		staff.Use(middleware.Authorization(s.Core))
		{
			share := staff.Group("/share")
			{
				share.POST("", s.IssueShareToken)
				share.DELETE("/:token", s.RevokeShareToken)
			}

			letter := staff.Group("/letter")
			{
				letter.POST("", s.CreateLetter)
				letter.GET("/list", s.ListLetters)
				letter.GET("/:letterID", s.GetLetter)
				letter.POST("/:letterID/mailed", s.MarkLetterMailed)
			}

			plan := staff.Group("/plan")
			{
				plan.POST("", s.CreatePlan)
				plan.GET("/:planID", s.GetPlan)
				plan.DELETE("/:planID", s.DeletePlan)
			}

			bundle := staff.Group("/bundle")
			{
				bundle.POST("", s.CreateBundle)
				bundle.GET("/list", s.ListBundles)
				bundle.GET("/:bundleID", s.GetBundle)
				bundle.GET("/:bundleID/file/:fileID/url", s.GetBundleFileURL)
			}

			bond := staff.Group("/bond")
			{
				bond.GET("/list", s.ListBondSubmissions)
				bond.GET("/:bondID", s.GetBondSubmission)
				bond.PUT("/:bondID/status", s.UpdateBondStatus)
			}
		}
	}
}

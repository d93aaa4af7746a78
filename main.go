package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"jobboard/cms"
	"jobboard/config"
	"jobboard/database"
	"jobboard/handlers"
	"jobboard/middleware"
	"jobboard/models"
	"jobboard/services"
	"jobboard/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		utils.LogWarn("no .env file loaded", map[string]any{"error": err.Error()})
	}

	cfg := config.GetAppConfig()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Persisted cache when a database is configured, in-memory otherwise.
	// Everything in it is advisory, so losing it on restart is acceptable.
	var store models.KeyValueStore = models.NewMemoryCache()
	if cfg.Database.Enabled() {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			utils.LogWarn("database unavailable, continuing with in-memory cache", map[string]any{"error": err.Error()})
		} else if err := database.EnsureSchema(db); err != nil {
			utils.LogWarn("schema setup failed, continuing with in-memory cache", map[string]any{"error": err.Error()})
		} else {
			store = models.NewLocalCacheModel(db)
			defer db.Close()
		}
	}

	client := cms.NewClient(cfg.CMS.BaseURL, cfg.CMS.Timeout)
	sessions := services.NewSessionStore(client, store)
	resolver := services.NewRoleResolver(client)
	auth := services.NewAuthService(client, resolver, sessions)
	profiles := services.NewProfileService(client, sessions, store)
	jobs := services.NewJobService(client, sessions)
	apps := services.NewApplicationService(client, sessions, jobs, store, cfg.ReconcileDelay)
	dashboards := services.NewDashboardService(profiles, jobs, apps)

	// Pick up a persisted session before serving gated routes
	ctx, cancel := context.WithTimeout(context.Background(), cfg.CMS.Timeout)
	if _, err := sessions.Restore(ctx); err != nil {
		utils.LogWarn("no session restored", map[string]any{"error": err.Error()})
	}
	cancel()

	limiters := middleware.CreateRateLimiters()
	publicCache := middleware.NewResponseCache(30 * time.Second)

	r := gin.Default()
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.SanitizeInput())
	r.Use(middleware.ValidateContentType("application/json", "multipart/form-data"))
	r.Use(middleware.MaxRequestSize(models.MaxCVSize + 1024*1024))
	r.Use(limiters["general"].Limit())

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.Use(limiters["auth"].Limit())
		{
			authRoutes.POST("/login", handlers.Login(auth))
			authRoutes.POST("/register", handlers.Register(auth))
			authRoutes.POST("/restore", handlers.RestoreSession(sessions))
			authRoutes.POST("/logout", handlers.Logout(sessions))
		}

		// the one unauthenticated read, behind a short-lived cache
		api.GET("/postings", publicCache.Cache(), handlers.ListPostings(jobs))

		authed := api.Group("")
		authed.Use(handlers.SessionMiddleware(sessions))
		{
			authed.GET("/profile", handlers.GetProfile(profiles, sessions))
			authed.PUT("/profile/:id", handlers.UpdateProfile(profiles, sessions))

			candidate := authed.Group("")
			candidate.Use(handlers.RequireRole(sessions, models.RoleCandidate))
			{
				candidate.GET("/candidate/dashboard", handlers.CandidateDashboard(dashboards))
				candidate.GET("/candidate/postings", handlers.OpenPostings(apps, profiles))
				candidate.GET("/candidate/applications", handlers.MyApplications(apps, profiles))
				candidate.POST("/candidate/applications", limiters["upload"].Limit(), handlers.SubmitApplication(apps, profiles))
			}

			company := authed.Group("")
			company.Use(handlers.RequireRole(sessions, models.RoleCompany))
			{
				company.GET("/company/dashboard", handlers.CompanyDashboard(dashboards))
				company.GET("/company/postings", handlers.ListMyPostings(jobs, profiles))
				company.POST("/company/postings", handlers.CreatePosting(jobs, profiles))
				company.PUT("/company/postings/:id", handlers.UpdatePosting(jobs))
				company.DELETE("/company/postings/:id", handlers.DeletePosting(jobs))
				company.PATCH("/company/postings/:id/publish", handlers.PublishPosting(jobs))
				company.GET("/company/applications", handlers.ReceivedApplications(apps, profiles))
				company.PATCH("/company/applications/:id/status", handlers.UpdateApplicationStatus(apps))
				company.GET("/company/applications/export", handlers.ExportApplicationsReport(apps, profiles))
			}
		}
	}

	utils.LogInfo("server starting", map[string]any{"port": cfg.Port, "cms": cfg.CMS.BaseURL})
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.LogError("server stopped", err, nil)
	}
}

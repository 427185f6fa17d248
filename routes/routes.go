package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"salonpro-api/config"
	"salonpro-api/controllers"
	"salonpro-api/services"
	"salonpro-api/utils"
)

// HealthChecker is satisfied by the repository store.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies are the wired services the router exposes.
type Dependencies struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	CookieSecure   bool
	LoginLimiter   *utils.RateLimiter
	Health         HealthChecker

	Auth       *services.AuthService
	Dashboard  *services.DashboardService
	Feedback   *services.FeedbackService
	Treatments *services.TreatmentService
	Catalog    *services.CatalogService
	Reports    *services.ReportService
	Reminders  *services.ReminderService
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(deps.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		if err := deps.Health.Ping(c.Request.Context()); err != nil {
			utils.RespondWithErrorDetails(c, http.StatusServiceUnavailable, "Unhealthy", err.Error())
			return
		}
		utils.RespondWithData(c, http.StatusOK, gin.H{"status": "ok"}, "")
	})
	r.GET("/metrics", gin.WrapH(config.MetricsHandler()))

	authController := controllers.AuthController{Auth: deps.Auth, CookieSecure: deps.CookieSecure}
	requireSession := utils.AuthMiddleware(deps.Auth)

	auth := r.Group("/auth")
	{
		auth.POST("/login", deps.LoginLimiter.Middleware(), authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.GET("/me", requireSession, authController.Me)
	}

	feedbackController := controllers.FeedbackController{Feedback: deps.Feedback}
	// the customer feedback form is the only public API route
	r.POST("/api/feedback", feedbackController.Submit)

	api := r.Group("/api")
	api.Use(requireSession)
	{
		dashboardController := controllers.DashboardController{Dashboard: deps.Dashboard}
		api.GET("/dashboard-summary", dashboardController.Summary)

		api.GET("/feedback", feedbackController.List)

		treatmentController := controllers.TreatmentController{Treatments: deps.Treatments}
		treatments := api.Group("/treatments")
		{
			treatments.POST("", treatmentController.Create)
			treatments.GET("", treatmentController.List)
			treatments.GET("/:id", treatmentController.Get)
			treatments.PUT("/:id", treatmentController.Update)
			treatments.DELETE("/:id", treatmentController.Delete)
		}

		catalog := controllers.CatalogController{Catalog: deps.Catalog}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", catalog.CreateCustomer)
			customers.GET("", catalog.GetCustomers)
			customers.GET("/:id", catalog.GetCustomer)
			customers.PUT("/:id", catalog.UpdateCustomer)
			customers.DELETE("/:id", catalog.DeleteCustomer)
		}

		// Service routes
		svc := api.Group("/services")
		{
			svc.POST("", catalog.CreateService)
			svc.GET("", catalog.GetServices)
			svc.GET("/:id", catalog.GetService)
			svc.PUT("/:id", catalog.UpdateService)
			svc.DELETE("/:id", catalog.DeleteService)
		}

		therapists := api.Group("/therapists")
		{
			therapists.POST("", catalog.CreateTherapist)
			therapists.GET("", catalog.GetTherapists)
			therapists.GET("/:id", catalog.GetTherapist)
			therapists.PUT("/:id", catalog.UpdateTherapist)
			therapists.DELETE("/:id", catalog.DeleteTherapist)
		}

		//Reports routes
		reportController := controllers.ReportController{Reports: deps.Reports}
		api.GET("/reports", reportController.GetMonthlyReport)
		api.GET("/reports/export", reportController.ExportMonthlyReport)

		reminderController := controllers.ReminderController{Reminders: deps.Reminders}
		api.POST("/reminders/loyalty/run", reminderController.RunLoyaltyReminders)
		api.GET("/reminders/logs", reminderController.GetReminderLogs)
	}

	return r
}

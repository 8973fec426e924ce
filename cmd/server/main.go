package main

import (
	"log"
	"time"

	"salon-pos/internal/auth"
	"salon-pos/internal/config"
	"salon-pos/internal/database"
	"salon-pos/internal/handlers"
	"salon-pos/internal/middleware"
	"salon-pos/internal/models"
	"salon-pos/internal/scheduler"
	"salon-pos/internal/sheets"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	logger := config.GetLogger()

	auth.Init(cfg.JWTSecret, cfg.JWTTTL)
	database.Connect(cfg)

	// --- Spreadsheet mirror (optional) ---
	var remote handlers.Remote
	if client, err := sheets.NewClient(cfg.GASURL, cfg.SheetsTimeout); err == nil {
		remote = client
		if cfg.BackupAt != "" {
			job := scheduler.NewBackupJob(database.ListSales, client, cfg.SheetsTimeout)
			s, err := scheduler.Start(job, cfg.BackupAt, cfg.Location)
			if err != nil {
				config.LogError(logger, "main", "main", "backup schedule", cfg.BackupAt, err)
			} else {
				defer s.Stop()
				log.Println("🕑 Nightly spreadsheet backup at " + cfg.BackupAt)
			}
		}
	} else {
		log.Println("Spreadsheet sync is DISABLED (GAS_URL not set).")
	}
	handlers.Setup(cfg, remote)

	middleware.InitMetrics(prometheus.DefaultRegisterer, sheets.RequestsTotal)

	r := gin.Default()
	r.Use(middleware.PrometheusMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/login", handlers.Login)

	// --- FEATURE FLAG: Registration ---
	// Only opens if we explicitly allow it in .env
	if cfg.AllowRegistration {
		r.POST("/register", handlers.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// STAFF & ADMIN
		api.GET("/sales", handlers.ListSales)
		api.POST("/sales", handlers.CreateSale)
		api.GET("/sales/:id", handlers.GetSale)
		api.PUT("/sales/:id", handlers.UpdateSale)
		api.DELETE("/sales/:id", handlers.DeleteSale)

		api.GET("/dashboard", handlers.GetDashboard)
		api.GET("/rankings/:dimension", handlers.GetRankings)
		api.GET("/charts/yearly", handlers.GetYearlyChart)
		api.GET("/charts/monthly", handlers.GetMonthlyChart)
		api.GET("/summary", handlers.GetSummary)
		api.GET("/holidays", handlers.GetHolidays)
		api.GET("/export/csv", handlers.ExportCSV)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/ask", handlers.AskAI)
			admin.GET("/export/xlsx", handlers.ExportExcel)
			admin.DELETE("/sales", handlers.DeleteAllSales)

			admin.POST("/sync/push", handlers.PushToSheets)
			admin.POST("/sync/pull", handlers.PullFromSheets)
			admin.POST("/sync/clear", handlers.ClearSheets)
			admin.GET("/sync/test", handlers.TestSheets)
		}
	}

	// --- DEPLOYMENT: Serve React Frontend ---
	r.Static("/assets", "./web/assets")
	r.StaticFile("/vite.svg", "./web/vite.svg")

	// SPA Catch-All: If the user refreshes on "/dashboard",
	// serve index.html so React can handle the routing.
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	log.Println("🚀 Server starting on " + cfg.BaseURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

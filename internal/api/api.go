package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jagimahalo/restock-backend/internal/api/handlers"
	"github.com/jagimahalo/restock-backend/internal/api/middleware"
	"github.com/jagimahalo/restock-backend/internal/service"
)

type Services struct {
	Reports *service.ReportService
	Configs *service.ConfigService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Reports != nil {
			reportHandler := handlers.NewReportHandler(services.Reports)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.POST("/replenishment", reportHandler.Replenishment)
				reportGroup.POST("/replenishment/export", reportHandler.ExportReplenishment)
				reportGroup.POST("/redistribution", reportHandler.Redistribution)
				reportGroup.GET("/movement", reportHandler.Movement)
				reportGroup.GET("/shortages", reportHandler.Shortages)
			}
			apiGroup.GET("/products/:code", reportHandler.Product)
		}

		if services.Configs != nil {
			configHandler := handlers.NewConfigHandler(services.Configs)
			configGroup := apiGroup.Group("/config")
			{
				configGroup.GET("/stores", configHandler.Stores)
				configGroup.GET("/policy", configHandler.Policy)
				configGroup.GET("/stock-minimums", configHandler.StockMinimums)
				configGroup.GET("/fixed-references", configHandler.FixedReferences)
				configGroup.GET("/excluded-codes", configHandler.ExcludedCodes)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

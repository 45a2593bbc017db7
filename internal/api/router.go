package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/beaglesim/flightlog-backend-go/internal/config"
	"github.com/beaglesim/flightlog-backend-go/internal/convert"
	"github.com/beaglesim/flightlog-backend-go/internal/database"
	"github.com/beaglesim/flightlog-backend-go/internal/handler"
	"github.com/beaglesim/flightlog-backend-go/internal/middleware"
	"github.com/beaglesim/flightlog-backend-go/internal/repository"
	"github.com/beaglesim/flightlog-backend-go/internal/service"
)

// SetupRouter wires the conversion backend's routes
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS for a local web UI acting as the caller.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Flight Log Conversion API is running",
		})
	})

	// The default chain: external tool, local library, in-process
	// fallback, in that order.
	converter := convert.New(
		convert.NewExternalTool(cfg.ConverterTool),
		convert.NewLocalLibrary(cfg.PyulogDir, cfg.PythonCmd),
		&convert.Fallback{Stride: cfg.Stride},
	)
	convertService := service.NewConvertService(
		converter,
		repository.NewConversionRepository(database.GetDB()),
	)
	importService := service.NewImportService()

	convertHandler := handler.NewConvertHandler(convertService)
	importHandler := handler.NewImportHandler(importService)

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		conversions := api.Group("/conversions")
		{
			conversions.POST("", convertHandler.Convert)
			conversions.GET("", convertHandler.List)
			conversions.GET("/:id", convertHandler.GetByID)
		}

		coordinates := api.Group("/coordinates")
		{
			coordinates.POST("/import", importHandler.Import)
			coordinates.POST("/validate", importHandler.Validate)
		}
	}

	return r
}

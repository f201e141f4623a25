package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/middlewares"
)

// NewRouter wires the full REST surface. The backup handler is injected so
// tests can point it at an in-memory blob store.
func NewRouter(backupHandler *BackupHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestContext())
	r.Use(middlewares.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders,
		middlewares.HeaderCorrelationId, middlewares.HeaderOperator)
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	containers := api.Group("/containers")
	containers.POST("", CreateContainerTransaction)
	containers.GET("", ListContainerTransactions)
	containers.GET("/balance", GetContainerBalance)
	containers.GET("/:id", GetContainerTransaction)
	containers.PUT("/:id", UpdateContainerTransaction)
	containers.DELETE("/:id", DeleteContainerTransaction)

	cash := api.Group("/cash")
	cash.POST("", CreateCashTransaction)
	cash.GET("", ListCashTransactions)
	cash.GET("/balance", GetCashBalance)
	cash.GET("/:id", GetCashTransaction)
	cash.PUT("/:id", UpdateCashTransaction)
	cash.DELETE("/:id", DeleteCashTransaction)

	stock := api.Group("/stock")
	stock.POST("", CreateStockTransaction)
	stock.GET("", ListStockTransactions)
	stock.GET("/balance", GetStockBalance)
	stock.GET("/:id", GetStockTransaction)
	stock.PUT("/:id", UpdateStockTransaction)
	stock.DELETE("/:id", DeleteStockTransaction)

	properties := api.Group("/properties")
	properties.POST("", CreateProperty)
	properties.GET("", ListProperties)
	properties.GET("/:id", GetProperty)
	properties.PUT("/:id", UpdateProperty)
	properties.DELETE("/:id", DeleteProperty)

	actions := api.Group("/actions")
	actions.POST("/sell-filled", SellFilled)
	actions.POST("/fill", Fill)

	backups := api.Group("/backups")
	backups.POST("", backupHandler.TriggerExport)
	backups.GET("", backupHandler.ListBackupLogs)
	backups.POST("/restore", backupHandler.Restore)

	settings := api.Group("/settings")
	settings.GET("", GetSettings)
	settings.PUT("/pin", UpdatePin)
	settings.PUT("/business-name", UpdateBusinessName)

	api.POST("/factory-reset", backupHandler.FactoryReset)

	return r
}

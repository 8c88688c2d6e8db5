package api

import (
	"os"
	"path/filepath"

	"github.com/batidao/cardbridge/internal/service"
	"github.com/batidao/cardbridge/internal/store"
	"github.com/batidao/cardbridge/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(r *gin.Engine, bridge service.BridgeService, balanceStore *store.BalanceStore, transactionService service.TransactionService, wsHandler *ws.WebSocketHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	balanceHandler := NewBalanceHandler(bridge, balanceStore)
	transactionHandler := NewTransactionHandler(transactionService)

	wd, err := os.Getwd()
	if err != nil {
		return
	}

	swaggerJSONPath := filepath.Join(wd, "..", "..", "docs", "swagger.json")
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.json")))
	r.GET("/docs/swagger.json", func(c *gin.Context) {
		c.File(swaggerJSONPath)
	})

	r.GET("/health", Health)
	r.POST("/topup", balanceHandler.TopUp)
	r.GET("/balance/:uid", balanceHandler.GetBalance)
	r.GET("/transactions", transactionHandler.GetAllTransactions)
	r.GET("/transactions/card/:uid", transactionHandler.GetTransactionsByCard)

	r.GET("/ws", wsHandler.HandleConnection)
}

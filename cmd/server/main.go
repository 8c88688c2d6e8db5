package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/batidao/cardbridge/internal/api"
	"github.com/batidao/cardbridge/internal/config"
	"github.com/batidao/cardbridge/internal/middleware"
	"github.com/batidao/cardbridge/internal/mqtt"
	"github.com/batidao/cardbridge/internal/repository"
	"github.com/batidao/cardbridge/internal/service"
	"github.com/batidao/cardbridge/internal/store"
	"github.com/batidao/cardbridge/internal/ws"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The transaction log is optional; the ledger itself is in-memory.
	var transactionService service.TransactionService
	if cfg.MongoURI != "" {
		client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(context.Background())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Ping(ctx, nil); err != nil {
			log.Fatalf("Failed to ping MongoDB: %v", err)
		}

		transactionRepo := repository.NewTransactionRepository(client, cfg.MongoDB, "transactions")
		transactionService = service.NewTransactionService(transactionRepo)
	} else {
		log.Printf("MONGO_URI not set, transaction log disabled")
	}

	balanceStore := store.NewBalanceStore()

	hub := ws.NewHub(balanceStore, cfg.Topics.Balance)
	go hub.Run()

	wsHandler := ws.NewWebSocketHandler(hub)

	var bridge service.BridgeService
	mqttClient := mqtt.NewClient(cfg, func(topic string, payload []byte) {
		bridge.HandleMessage(topic, payload)
	})

	bridge = service.NewBridgeService(balanceStore, mqttClient, hub, cfg.Topics, transactionService)
	go bridge.Run()

	if err := mqttClient.Connect(); err != nil {
		log.Printf("MQTT broker not reachable yet, retrying in background: %v", err)
	}
	defer mqttClient.Disconnect()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())

	api.SetupRoutes(r, bridge, balanceStore, transactionService, wsHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("WebSocket endpoint available at %s/ws", cfg.BaseURL)
	log.Printf("Swagger UI available at %s/swagger/index.html", cfg.BaseURL)

	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

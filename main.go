package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"wasteworks/internal/config"
	"wasteworks/internal/database"
	"wasteworks/internal/handlers"
	"wasteworks/internal/middleware"
	"wasteworks/internal/scheduler"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureAddressIndexes(db); err != nil {
		log.Printf("address index warning: %v", err)
	}
	if err := database.EnsureRequestIndexes(db); err != nil {
		log.Printf("request index warning: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go scheduler.New(db).Run(ctx)

	secret := config.AppEnv.JWTSecret
	ttl := config.AppEnv.TokenTTL

	r := gin.Default()

	r.POST("/auth/signup", handlers.Signup(db, secret, ttl))
	r.POST("/auth/login", handlers.Login(db, secret, ttl))
	r.GET("/users/:id", handlers.GetUserDetails(db))

	user := r.Group("/")
	user.Use(middleware.UserAuth(secret))
	{
		user.GET("/status", handlers.GetRequestStatus(db))
		user.POST("/requests", handlers.CreateRequest(db))
		user.DELETE("/requests/:id", handlers.DeleteRequest(db))
		user.GET("/requests/:id/address", handlers.GetRequestAddress(db))

		user.GET("/addresses", handlers.GetAddresses(db))
		user.POST("/addresses", handlers.CreateAddress(db))
		user.PUT("/addresses/:id/weights", handlers.SubmitWeights(db))
		user.POST("/pay", handlers.SettlePayment(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(secret))
	{
		admin.GET("/requests", handlers.GetAllRequests(db))
		admin.GET("/requests/pending", handlers.GetPendingRequests(db))
		admin.PUT("/requests/:id/confirm", handlers.ConfirmRequest(db))
		admin.PUT("/assign-collector", handlers.AssignCollector(db))

		admin.GET("/users", handlers.GetAllUsers(db))
		admin.GET("/users/:id/addresses", handlers.GetAddressesByUserID(db))
		admin.POST("/collectors", handlers.AddCollector(db))
		admin.GET("/collectors", handlers.GetAllCollectors(db))

		admin.DELETE("/addresses/:id", handlers.DeleteAddress(db))
		admin.GET("/stats", handlers.GetStats(db))
	}

	collector := r.Group("/collector/api")
	collector.Use(middleware.CollectorAuth(secret))
	{
		collector.GET("/confirmed", handlers.GetConfirmedRequests(db))
		collector.GET("/assigned/:collectorId", handlers.GetCollectorRequests(db))
		collector.PUT("/requests/:id/complete", handlers.CompleteRequest(db))
	}

	r.Run(":" + config.AppEnv.Port)
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lostfound-be/config"
	"lostfound-be/controllers"
	"lostfound-be/mailer"
	"lostfound-be/middlewares"
	"lostfound-be/routes"
	"lostfound-be/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := config.ConnectDB(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("MongoDB connection established successfully!")

	itemStore := store.NewMongoItemStore(db)
	adminStore := store.NewMongoAdminStore(db)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if err := itemStore.EnsureIndexes(startupCtx); err != nil {
		log.Printf("Failed to create item indexes: %v", err)
	}
	if err := store.EnsureAdmin(startupCtx, adminStore, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
	cancelStartup()

	redisClient := config.ConnectRedis(cfg.RedisAddress, cfg.RedisPassword)

	var sender mailer.Sender
	if cfg.SMTPHost != "" {
		sender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		log.Println("SMTP not configured, notification emails disabled")
	}
	dispatcher := mailer.NewDispatcher(sender)

	itemController := controllers.NewItemController(itemStore, dispatcher)
	adminController := controllers.NewAdminController(itemStore, adminStore, dispatcher, cfg.JWTSecret)

	adminAuth := middlewares.AdminAuth(cfg.JWTSecret)
	claimLimiter := middlewares.ClaimRateLimiter(redisClient, cfg.ClaimRateLimit, 24*time.Hour)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.ItemRoutes(r, itemController, adminController, adminAuth, claimLimiter)
	routes.AdminRoutes(r, adminController, adminAuth)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect failed: %v", err)
	}
	log.Println("Server stopped")
}

// cmd/server/main.go
package main

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"texthunter-back/internal/config"
	"texthunter-back/internal/database"
	"texthunter-back/internal/handlers"
	"texthunter-back/internal/logger"
	"texthunter-back/internal/middleware"
	"texthunter-back/internal/predictor"
	"texthunter-back/internal/session"
)

func main() {
	// Load environment variables
	dotenvErr := godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if dotenvErr != nil {
		log.Info("No .env file found")
	}

	// Initialize database
	db, err := database.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}

	// Auto-migrate models
	if err := database.MigrateDB(db); err != nil {
		log.Fatal("Failed to migrate database", "error", err)
	}

	sessions, err := session.NewRedisStore(cfg.RedisAddr, cfg.SessionTTL, log)
	if err != nil {
		log.Fatal("Failed to connect to session store", "error", err)
	}

	bridge := predictor.New(cfg.PythonExecutable, cfg.PredictScript, cfg.PredictTimeout, log)

	// Initialize Gin router
	if strings.HasPrefix(cfg.AppEnv, "prod") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", handlers.Register(db))
		public.POST("/login", handlers.Login(db, sessions, cfg.SessionTTL))
		public.POST("/logout", handlers.Logout(sessions))
		public.GET("/models", handlers.ListModels())
		public.POST("/classify", handlers.Classify(bridge))
		public.POST("/compare", handlers.Compare(bridge))
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.RequireSession(sessions))
	{
		protected.GET("/profile", handlers.GetProfile(db))
		protected.PUT("/profile", handlers.UpdateProfile(db, sessions))
		protected.GET("/settings", handlers.GetSettings())
		protected.PUT("/settings", handlers.UpdateSettings(sessions))
		protected.POST("/predictions", handlers.SavePrediction(db))
		protected.GET("/history", handlers.GetHistory(db))
	}

	log.Info("Server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", "error", err)
	}
}

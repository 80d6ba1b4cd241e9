package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/conectahn/wifi-portal-backend/internal/config"
	"github.com/conectahn/wifi-portal-backend/internal/database"
	"github.com/conectahn/wifi-portal-backend/internal/handlers"
	"github.com/conectahn/wifi-portal-backend/internal/middleware"
	"github.com/conectahn/wifi-portal-backend/internal/routes"
	"github.com/conectahn/wifi-portal-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to MongoDB. A failure here is a warning, not a fatal error:
	// the portal keeps accepting registrations into the in-memory fallback
	// store, which is lost on restart and never synced back to Mongo.
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Printf("⚠️  WARNING: MongoDB unavailable: %v", err)
		log.Println("   Registrations will be held in memory until the process restarts.")
	} else {
		defer database.Disconnect()
	}

	// Connect to Redis (rate limiting). Also optional.
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Printf("⚠️  WARNING: Redis unavailable: %v (rate limiting disabled)", err)
	} else {
		defer database.DisconnectRedis()
	}

	// Record store: Mongo when reachable, memory list otherwise, decided
	// per operation.
	var durable store.Store
	if database.DB != nil {
		durable = store.NewMongo(database.DB)
	}
	handlers.Init(store.NewFallback(durable, store.NewMemory(), database.Healthy), cfg)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + Redis rate limiting)")
	} else {
		r.Use(middleware.RateLimit)
	}

	routes.SetupRoutes(r)

	log.Printf("🚀 WiFi portal backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

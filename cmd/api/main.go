// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/embermatch/ember-backend/internal/common/database"
	"github.com/embermatch/ember-backend/internal/config"
	"github.com/embermatch/ember-backend/internal/discovery"
)

func main() {
	// Enable detailed logging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Ember Discovery API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration loaded and validated")

	// 3. Connect to PostgreSQL
	log.Println("🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional)
	log.Println("📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), swipe history will be in-memory only", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, swipe history will be in-memory only")
	}

	// 5. Run database migrations
	log.Println("🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations:", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Wire the discovery engine
	log.Println("🧩 Step 6: Initializing discovery engine...")
	repo := discovery.NewPostgresRepository(db)

	var behaviorRepo discovery.BehaviorRepository
	if redisClient != nil {
		behaviorRepo = discovery.NewRedisBehaviorRepository(redisClient)
		log.Println("   ✅ Using Redis-backed swipe history")
	} else {
		behaviorRepo = discovery.NewMemoryBehaviorRepository()
		log.Println("   ⚠️  Using in-memory swipe history (development mode)")
	}

	service := discovery.NewService(repo, repo, behaviorRepo, repo)
	handler := discovery.NewHandler(service, repo)
	log.Println("✅ Discovery engine initialized")

	// 7. Set up routes
	log.Println("🌐 Step 7: Setting up HTTP routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if cfg.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	discovery.RegisterRoutes(router, handler)
	log.Println("✅ Routes registered")

	// 8. Start the server with graceful shutdown
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Printf("🎉 Server listening on %s", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Forced shutdown: %v", err)
	}
	log.Println("👋 Server stopped")
}

// runMigrations creates the tables the discovery engine depends on.
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id            TEXT PRIMARY KEY,
			display_name  TEXT NOT NULL DEFAULT '',
			age           INT NOT NULL,
			gender        TEXT NOT NULL,
			location_lat  DOUBLE PRECISION,
			location_lng  DOUBLE PRECISION,
			bio           TEXT NOT NULL DEFAULT '',
			photos        TEXT[] NOT NULL DEFAULT '{}',
			interests     TEXT[] NOT NULL DEFAULT '{}',
			verified      BOOLEAN NOT NULL DEFAULT FALSE,
			premium       BOOLEAN NOT NULL DEFAULT FALSE,
			last_active   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			smoking       TEXT,
			drinking      TEXT,
			exercise      TEXT,
			diet          TEXT,
			education     TEXT,
			goal_type     TEXT,
			has_kids      TEXT,
			wants_kids    TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_age_gender ON profiles (age, gender)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_last_active ON profiles (last_active DESC)`,
		`CREATE TABLE IF NOT EXISTS discovery_filters (
			user_id              TEXT PRIMARY KEY,
			min_age              INT NOT NULL,
			max_age              INT NOT NULL,
			max_distance_km      DOUBLE PRECISION NOT NULL,
			gender_preference    TEXT NOT NULL DEFAULT 'any',
			interests            TEXT[] NOT NULL DEFAULT '{}',
			must_haves           TEXT[] NOT NULL DEFAULT '{}',
			deal_breakers        TEXT[] NOT NULL DEFAULT '{}',
			smoking              TEXT NOT NULL DEFAULT 'any',
			drinking             TEXT NOT NULL DEFAULT 'any',
			exercise             TEXT NOT NULL DEFAULT 'any',
			diet                 TEXT NOT NULL DEFAULT 'any',
			education_required   BOOLEAN NOT NULL DEFAULT FALSE,
			education_level      TEXT NOT NULL DEFAULT 'any',
			goal_type            TEXT NOT NULL DEFAULT 'any',
			has_kids             TEXT NOT NULL DEFAULT 'any',
			wants_kids           TEXT NOT NULL DEFAULT 'any',
			verified_only        BOOLEAN NOT NULL DEFAULT FALSE,
			premium_only         BOOLEAN NOT NULL DEFAULT FALSE,
			recently_active_only BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS swipes (
			id                 UUID PRIMARY KEY,
			requester_id       TEXT NOT NULL,
			target_id          TEXT NOT NULL,
			target_age         INT NOT NULL,
			target_interests   TEXT[] NOT NULL DEFAULT '{}',
			target_photo_count INT NOT NULL DEFAULT 0,
			liked              BOOLEAN NOT NULL,
			swiped_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (requester_id, target_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_swipes_requester ON swipes (requester_id, swiped_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

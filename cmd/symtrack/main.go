package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tobyshem/symtrack/internal/api"
	"github.com/tobyshem/symtrack/internal/cache"
	"github.com/tobyshem/symtrack/internal/db"
	"github.com/tobyshem/symtrack/internal/models"
)

func main() {
	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	secretKey := getEnv("SECRET_KEY", "change_me_in_production")
	dbPath := getEnv("DB_PATH", filepath.Join("data", "symtrack.db"))
	port := getEnv("PORT", "8080")
	cacheDir := getEnv("CACHE_DIR", "data")
	cacheTTL := mustParseDuration(getEnv("CACHE_TTL", ""), cache.DefaultTTL)
	cookieSecure := getEnv("COOKIE_SECURE", "") == "true"

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	fieldStore := cache.NewStore(cache.KindFields, cacheTTL, func(field models.FieldDefinition) string {
		return field.ID
	})
	entryStore := cache.NewStore(cache.KindEntries, cacheTTL, func(entry models.SymptomEntry) string {
		return entry.ID
	})

	fieldPersister := cache.NewPersister(fieldStore, filepath.Join(cacheDir, "cache_fields.json"), 0)
	entryPersister := cache.NewPersister(entryStore, filepath.Join(cacheDir, "cache_entries.json"), 0)
	fieldPersister.Load()
	entryPersister.Load()

	handler := api.NewHandler(database, api.Config{
		SecretKey:    secretKey,
		Location:     location,
		CookieSecure: cookieSecure,
		CacheTTL:     cacheTTL,
		FieldStore:   fieldStore,
		EntryStore:   entryStore,
	})

	app := fiber.New(fiber.Config{
		AppName:               "Symtrack",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		fieldPersister.Close()
		entryPersister.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Symtrack listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, dbPath, location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func mustParseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid duration %q, falling back to %s", raw, fallback)
		return fallback
	}
	return parsed
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tobyshem/symtrack/internal/cache"
	"github.com/tobyshem/symtrack/internal/db"
	"github.com/tobyshem/symtrack/internal/models"
	"github.com/tobyshem/symtrack/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool

	auth     *services.AuthService
	fields   *services.FieldService
	entries  *services.EntryService
	analysis *services.AnalysisService

	loginThrottle *loginThrottle
}

// Config carries everything the handler needs besides the database.
type Config struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	CacheTTL     time.Duration
	FieldStore   *cache.Store[models.FieldDefinition]
	EntryStore   *cache.Store[models.SymptomEntry]
}

func NewHandler(database *gorm.DB, config Config) *Handler {
	location := config.Location
	if location == nil {
		location = time.Local
	}

	ttl := defaultStoreTTL(config.CacheTTL)
	fieldStore := config.FieldStore
	if fieldStore == nil {
		fieldStore = cache.NewStore(cache.KindFields, ttl, func(field models.FieldDefinition) string {
			return field.ID
		})
	}
	entryStore := config.EntryStore
	if entryStore == nil {
		entryStore = cache.NewStore(cache.KindEntries, ttl, func(entry models.SymptomEntry) string {
			return entry.ID
		})
	}

	repositories := db.NewRepositories(database)
	fieldService := services.NewFieldService(repositories.Fields, fieldStore)

	return &Handler{
		secretKey:    []byte(config.SecretKey),
		location:     location,
		cookieSecure: config.CookieSecure,
		auth:         services.NewAuthService(repositories.Users),
		fields:       fieldService,
		entries:      services.NewEntryService(repositories.Entries, fieldService, entryStore, location),
		analysis:     services.NewAnalysisService(location),
		loginThrottle: newLoginThrottle(loginFailureLimit, loginFailureWindow),
	}
}

// defaultStoreTTL falls back to the standard one hour expiration when no TTL
// is configured. Callers that want a never-expiring store pass one in through
// Config.FieldStore or Config.EntryStore.
func defaultStoreTTL(configured time.Duration) time.Duration {
	if configured == 0 {
		return cache.DefaultTTL
	}
	return configured
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

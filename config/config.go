package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/farellandr/boxoffice/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	AppEnv string
	Port   string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret   string
	JWTTTLHours int

	Payment   PaymentConfig
	Reconcile ReconcileConfig
}

type PaymentConfig struct {
	PublicKey       string
	IntegritySecret string
	EventsSecret    string
	Currency        string
	RedirectURL     string
	FeeBps          int64
}

type ReconcileConfig struct {
	PageSize  int
	BatchSize int
	Strict    bool
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "production"),
		Port:       getEnv("PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Payment: PaymentConfig{
			PublicKey:       os.Getenv("PAYMENT_PUBLIC_KEY"),
			IntegritySecret: os.Getenv("PAYMENT_INTEGRITY_SECRET"),
			EventsSecret:    os.Getenv("PAYMENT_EVENTS_SECRET"),
			Currency:        getEnv("PAYMENT_CURRENCY", "COP"),
			RedirectURL:     os.Getenv("PAYMENT_REDIRECT_URL"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}

	var err error
	if cfg.JWTTTLHours, err = getEnvInt("JWT_TTL_HOURS", 24); err != nil {
		return nil, err
	}
	if cfg.Reconcile.PageSize, err = getEnvInt("RECONCILE_PAGE_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.Reconcile.BatchSize, err = getEnvInt("RECONCILE_BATCH_SIZE", 200); err != nil {
		return nil, err
	}
	if cfg.Reconcile.Strict, err = getEnvBool("RECONCILE_STRICT", false); err != nil {
		return nil, err
	}
	feeBps, err := getEnvInt("CHECKOUT_FEE_BPS", 0)
	if err != nil {
		return nil, err
	}
	cfg.Payment.FeeBps = int64(feeBps)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := SeedRoles(db); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
	return db, nil
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Event{},
		&models.EventStaff{},
		&models.TicketType{},
		&models.AppTransaction{},
		&models.WebTransaction{},
		&models.CashTransaction{},
		&models.QRCode{},
	)
}

func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleOrganizer, models.RoleAttendee, models.RoleAdmin, models.RoleStaff} {
		role := models.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config carries every runtime setting of the dispatch engine.
//
// Values come from command-line flags, with environment variables (optionally
// loaded from a .env file) as fallback and compiled-in defaults last.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// PaymentServiceURL points to the payment collaborator. When empty the
	// engine treats every payment as captured; meant for local development.
	PaymentServiceURL string

	OfferTTL            time.Duration
	DispatchBackoff     time.Duration
	MaxDispatchAttempts int
	DispatchRadiusKm    float64
	DriverCapacity      int

	FeeBaseCents  int64
	FeePerKmCents int64
	FeeBonusCents int64
}

// LoadConfig resolves the configuration from flags and environment.
// A missing .env file is not an error.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	var config Config

	pflag.StringVar(&config.HTTPPort, "http-port", envOr("HTTP_PORT", "8080"), "HTTP listen port")

	pflag.StringVar(&config.DBHost, "db-host", envOr("DB_HOST", "localhost"), "PostgreSQL host")
	pflag.StringVar(&config.DBPort, "db-port", envOr("DB_PORT", "5432"), "PostgreSQL port")
	pflag.StringVar(&config.DBUser, "db-user", envOr("DB_USER", "postgres"), "PostgreSQL user")
	pflag.StringVar(&config.DBPassword, "db-password", envOr("DB_PASSWORD", "postgres"), "PostgreSQL password")
	pflag.StringVar(&config.DBName, "db-name", envOr("DB_NAME", "fooddispatch"), "PostgreSQL database name")
	pflag.StringVar(&config.DBSslMode, "db-sslmode", envOr("DB_SSLMODE", "disable"), "PostgreSQL SSL mode")

	pflag.StringVar(&config.PaymentServiceURL, "payment-service-url",
		envOr("PAYMENT_SERVICE_URL", ""), "payment service base URL; empty treats every payment as captured")

	pflag.DurationVar(&config.OfferTTL, "offer-ttl",
		envDurationOr("OFFER_TTL", 20*time.Second), "per-candidate response window for task offers")
	pflag.DurationVar(&config.DispatchBackoff, "dispatch-backoff",
		envDurationOr("DISPATCH_BACKOFF", 30*time.Second), "delay before retrying dispatch with no eligible drivers")
	pflag.IntVar(&config.MaxDispatchAttempts, "max-dispatch-attempts",
		envIntOr("MAX_DISPATCH_ATTEMPTS", 5), "failed dispatch attempts before an order is escalated")
	pflag.Float64Var(&config.DispatchRadiusKm, "dispatch-radius-km",
		envFloatOr("DISPATCH_RADIUS_KM", 5), "dispatch radius around the pickup point; 0 disables the filter")
	pflag.IntVar(&config.DriverCapacity, "driver-capacity",
		envIntOr("DRIVER_CAPACITY", 1), "concurrent delivery tasks per driver")

	pflag.Int64Var(&config.FeeBaseCents, "fee-base-cents",
		envInt64Or("FEE_BASE_CENTS", 300), "base delivery fee in cents")
	pflag.Int64Var(&config.FeePerKmCents, "fee-per-km-cents",
		envInt64Or("FEE_PER_KM_CENTS", 100), "per-kilometer delivery fee in cents")
	pflag.Int64Var(&config.FeeBonusCents, "fee-bonus-cents",
		envInt64Or("FEE_BONUS_CENTS", 0), "flat bonus per delivery in cents; 0 disables it")

	pflag.Parse()
	return config
}

// DSN builds the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return def
}

func envInt64Or(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		var n int64
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			return f
		}
	}
	return def
}

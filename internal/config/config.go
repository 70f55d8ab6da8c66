package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Database    DatabaseConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Orders      OrdersConfig
	VAT         VATConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// AuthConfig holds login flow configuration
type AuthConfig struct {
	TOTPIssuer     string
	RequireTwoFA   bool
	LoginRateLimit float64
	LoginBurst     int
}

// OrdersConfig holds order workflow configuration
type OrdersConfig struct {
	// StrictProducts makes order creation fail when a requested product does
	// not exist instead of skipping the line item.
	StrictProducts bool
}

// VATConfig holds the per-currency VAT rates applied when a brand has no
// rate of its own
type VATConfig struct {
	Rates        map[string]float64
	FallbackRate float64
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_CONNECTION_STRING", "./data/backoffice.db")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 25)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("TOTP_ISSUER", "Rihla Back Office")
	viper.SetDefault("REQUIRE_2FA", false)
	viper.SetDefault("ORDER_STRICT_PRODUCTS", false)
	viper.SetDefault("LOGIN_RATE_LIMIT", 5.0)
	viper.SetDefault("LOGIN_BURST", 10)
	viper.SetDefault("VAT_FALLBACK_RATE", 0.18)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Database: DatabaseConfig{
			ConnectionString: viper.GetString("DB_CONNECTION_STRING"),
			MaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Auth: AuthConfig{
			TOTPIssuer:     viper.GetString("TOTP_ISSUER"),
			RequireTwoFA:   viper.GetBool("REQUIRE_2FA"),
			LoginRateLimit: viper.GetFloat64("LOGIN_RATE_LIMIT"),
			LoginBurst:     viper.GetInt("LOGIN_BURST"),
		},
		Orders: OrdersConfig{
			StrictProducts: viper.GetBool("ORDER_STRICT_PRODUCTS"),
		},
		VAT: VATConfig{
			Rates:        loadVATRates(),
			FallbackRate: viper.GetFloat64("VAT_FALLBACK_RATE"),
		},
	}

	return config, nil
}

// loadVATRates collects VAT_RATE_<CUR> environment overrides, e.g.
// VAT_RATE_SAR=0.15. SAR defaults to 15% unless overridden.
func loadVATRates() map[string]float64 {
	rates := map[string]float64{"SAR": 0.15}
	for _, entry := range os.Environ() {
		key, value, found := strings.Cut(entry, "=")
		if !found || !strings.HasPrefix(key, "VAT_RATE_") {
			continue
		}
		currency := strings.TrimPrefix(key, "VAT_RATE_")
		if len(currency) != 3 {
			continue
		}
		if rate, err := strconv.ParseFloat(value, 64); err == nil && rate >= 0 && rate <= 1 {
			rates[strings.ToUpper(currency)] = rate
		}
	}
	return rates
}

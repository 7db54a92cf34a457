package config

import (
	"os"
	"strconv"
	"time"
)

// Config is built once at startup and treated as immutable afterwards.
type Config struct {
	Port        string
	DatabaseDSN string

	JWTSecret  string
	CronSecret string

	Stripe StripeConfig
	Wise   WiseConfig
	SMTP   SMTPConfig
	Media  MediaConfig

	// Vendor identity stamped onto every invoice.
	Vendor VendorInfo

	// Base URL of the storefront, used for payment links in emails.
	StorefrontURL string

	// Shipping fee schedule for sample requests.
	Shipping ShippingConfig

	NotificationRetention time.Duration
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

type WiseConfig struct {
	APIToken string
	BaseURL  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type MediaConfig struct {
	UploadURL string
	APIKey    string
}

type VendorInfo struct {
	Name    string
	Address string
	Email   string
	Phone   string
	Bank    string
}

// ShippingConfig maps destination countries to continents and continents
// to a flat sample-shipping fee in cents. Unmapped destinations fall back
// to DefaultFeeCents.
type ShippingConfig struct {
	CountryContinent map[string]string
	ContinentFee     map[string]int64
	DefaultFeeCents  int64
}

// Load reads the environment into a Config. Call after godotenv has run.
func Load() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseDSN: buildDSN(),

		JWTSecret:  getenv("JWT_SECRET", "dev_jwt_secret"),
		CronSecret: getenv("CRON_SECRET", ""),

		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Currency:      getenv("PAYMENT_CURRENCY", "usd"),
		},
		Wise: WiseConfig{
			APIToken: os.Getenv("WISE_API_TOKEN"),
			BaseURL:  getenv("WISE_API_URL", "https://api.transferwise.com"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getenvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "sales@hidetrade.example"),
		},
		Media: MediaConfig{
			UploadURL: os.Getenv("MEDIA_UPLOAD_URL"),
			APIKey:    os.Getenv("MEDIA_API_KEY"),
		},

		Vendor: VendorInfo{
			Name:    getenv("VENDOR_NAME", "HideTrade Leather Co."),
			Address: getenv("VENDOR_ADDRESS", "Tannery Road 12, Dhaka"),
			Email:   getenv("VENDOR_EMAIL", "sales@hidetrade.example"),
			Phone:   os.Getenv("VENDOR_PHONE"),
			Bank:    os.Getenv("VENDOR_BANK_DETAILS"),
		},

		StorefrontURL: getenv("STOREFRONT_URL", "http://localhost:5173"),

		Shipping: DefaultShipping(),

		NotificationRetention: time.Duration(getenvInt("NOTIFICATION_RETENTION_DAYS", 7)) * 24 * time.Hour,
	}
}

// DefaultShipping returns the built-in continent-bucketed fee schedule.
func DefaultShipping() ShippingConfig {
	return ShippingConfig{
		CountryContinent: map[string]string{
			"United States":  "North America",
			"Canada":         "North America",
			"Mexico":         "North America",
			"Germany":        "Europe",
			"France":         "Europe",
			"Italy":          "Europe",
			"Spain":          "Europe",
			"United Kingdom": "Europe",
			"Netherlands":    "Europe",
			"Poland":         "Europe",
			"Japan":          "Asia",
			"China":          "Asia",
			"South Korea":    "Asia",
			"India":          "Asia",
			"Vietnam":        "Asia",
			"Bangladesh":     "Asia",
			"Brazil":         "South America",
			"Argentina":      "South America",
			"Chile":          "South America",
			"Nigeria":        "Africa",
			"Egypt":          "Africa",
			"South Africa":   "Africa",
			"Australia":      "Oceania",
			"New Zealand":    "Oceania",
		},
		ContinentFee: map[string]int64{
			"North America": 2000,
			"Europe":        2500,
			"Asia":          3000,
			"South America": 3500,
			"Africa":        4000,
			"Oceania":       3000,
		},
		DefaultFeeCents: 2800,
	}
}

func buildDSN() string {
	host := getenv("DB_HOST", "localhost")
	port := getenv("DB_PORT", "5432")
	user := getenv("DB_USER", "postgres")
	password := getenv("DB_PASSWORD", "postgres")
	name := getenv("DB_NAME", "hidetrade")
	sslmode := getenv("DB_SSLMODE", "disable")
	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslmode
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	App       *App
	Database  *Database
	HTTP      *HTTP
	Auth      *Auth
	Gateway   *Gateway
	Billing   *Billing
	Kafka     *Kafka
	Redis     *Redis
	Mail      *Mail
	WhatsApp  *WhatsApp
	Telemetry *Telemetry
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

type Database struct {
	// empty DSN runs the service on the in-memory store
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
	// PublicURL is the address the payment gateway calls back.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
}

type Auth struct {
	// TokenKey is the hex encoded v4 local paseto key shared with the identity service.
	TokenKey string `env:"TOKEN_KEY"`
}

type Gateway struct {
	BaseURL  string        `env:"GATEWAY_URL" envDefault:"https://api.moyasar.com/v1"`
	APIKey   string        `env:"GATEWAY_API_KEY"`
	Currency string        `env:"GATEWAY_CURRENCY" envDefault:"SAR"`
	Timeout  time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"10s"`
}

type Billing struct {
	SubscriptionFee string `env:"SUBSCRIPTION_FEE" envDefault:"30"`
}

type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"trucksy.events"`
	GroupID string   `env:"KAFKA_GROUP" envDefault:"trucksy-notifier"`
	Workers int      `env:"KAFKA_WORKERS" envDefault:"4"`
}

type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	DedupTTL time.Duration `env:"REDIS_DEDUP_TTL" envDefault:"48h"`
}

type Mail struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"Trucksy <no-reply@trucksy.app>"`
}

type WhatsApp struct {
	BaseURL  string `env:"WHATSAPP_URL" envDefault:"https://api.ultramsg.com"`
	Instance string `env:"WHATSAPP_INSTANCE"`
	Token    string `env:"WHATSAPP_TOKEN"`
}

type Telemetry struct {
	// empty endpoint disables metric export
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"trucksy"`
}

func NewConfig() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	var db Database
	var http HTTP
	var app App
	var auth Auth
	var gateway Gateway
	var billing Billing
	var kafka Kafka
	var redis Redis
	var mail Mail
	var whatsapp WhatsApp
	var telemetry Telemetry

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.StringVar(&auth.TokenKey, "k", "", "Token key (hex)")
	flag.Parse()

	parts := []struct {
		name string
		v    any
	}{
		{"database", &db},
		{"http", &http},
		{"app", &app},
		{"auth", &auth},
		{"gateway", &gateway},
		{"billing", &billing},
		{"kafka", &kafka},
		{"redis", &redis},
		{"mail", &mail},
		{"whatsapp", &whatsapp},
		{"telemetry", &telemetry},
	}
	for _, p := range parts {
		if err := env.Parse(p.v); err != nil {
			return nil, fmt.Errorf("error parsing %s config: %w", p.name, err)
		}
	}

	config := Config{
		App:       &app,
		Database:  &db,
		HTTP:      &http,
		Auth:      &auth,
		Gateway:   &gateway,
		Billing:   &billing,
		Kafka:     &kafka,
		Redis:     &redis,
		Mail:      &mail,
		WhatsApp:  &whatsapp,
		Telemetry: &telemetry,
	}

	return &config, nil
}

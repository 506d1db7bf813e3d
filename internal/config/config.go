package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	BaseURL     string
	Env         string // "dev" or "prod"
	LogLevel    string

	JWTSecret string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	SendGridAPIKey string
	MailFrom       string

	NavigationFile string

	TracingExporter string // none, stdout, otlp-http, otlp-grpc
	OTLPEndpoint    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", "./preiskampf.db"),
		BaseURL:         strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		Env:             getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        getEnv("SMTP_PORT", "1025"),
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
		SMTPFrom:        getEnv("SMTP_FROM", "noreply@preiskampf.de"),
		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		MailFrom:        getEnv("MAIL_FROM", "noreply@preiskampf.de"),
		NavigationFile:  getEnv("NAVIGATION_FILE", "navigation.yaml"),
		TracingExporter: strings.ToLower(getEnv("TRACING_EXPORTER", "none")),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	switch cfg.TracingExporter {
	case "none", "stdout", "otlp-http", "otlp-grpc":
	default:
		return nil, fmt.Errorf("TRACING_EXPORTER inválido: %q", cfg.TracingExporter)
	}

	// Validação Estrita para Produção
	if cfg.Env == "prod" {
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("produção: JWT_SECRET é obrigatório")
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("produção: JWT_SECRET precisa de pelo menos 32 caracteres")
		}
		if cfg.SendGridAPIKey == "" && (cfg.SMTPUser == "" || cfg.SMTPPass == "") {
			return nil, fmt.Errorf("produção: SENDGRID_API_KEY ou SMTP_USER/SMTP_PASS é obrigatório")
		}
	} else if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-keep-it-simple-but-not-safe"
	}

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

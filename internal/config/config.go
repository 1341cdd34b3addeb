package config

import (
	"log"
	"os"
	"strconv"

	"ternak-backend/internal/classify"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Webhook untuk notifikasi peringatan (gateway WhatsApp internal).
	AlertWebhookURL string
	// Jadwal cron pemindaian peringatan harian.
	AlertCron string

	// Ambang batas klasifikasi status; default mengikuti kebijakan produk,
	// bisa dioverride per-nilai lewat environment.
	Thresholds classify.Thresholds
}

func Load() *Config {
	// File .env opsional; konfigurasi dari environment langsung juga sah.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=ternak port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AlertWebhookURL: getEnv("ALERT_WEBHOOK_URL", ""),
		AlertCron:       getEnv("ALERT_CRON_SCHEDULE", "0 6 * * *"),
		Thresholds:      loadThresholds(),
	}

	// Pemeriksaan keamanan untuk production
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] Environment JWT_SECRET belum diset! Wajib untuk production.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET minimal 32 karakter! Risiko keamanan.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=ternak port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN memakai nilai default, untuk production wajib set koneksi Postgres sendiri.")
	}
	if cfg.AlertWebhookURL == "" {
		log.Println("[WARN] ALERT_WEBHOOK_URL kosong, notifikasi peringatan dinonaktifkan.")
	}

	return cfg
}

func loadThresholds() classify.Thresholds {
	t := classify.Default()
	t.MortalityMediumPct = getEnvFloat("THRESHOLD_MORTALITY_MEDIUM_PCT", t.MortalityMediumPct)
	t.MortalityHighPct = getEnvFloat("THRESHOLD_MORTALITY_HIGH_PCT", t.MortalityHighPct)
	t.MortalityCriticalPct = getEnvFloat("THRESHOLD_MORTALITY_CRITICAL_PCT", t.MortalityCriticalPct)
	t.UtilizationWarningPct = getEnvFloat("THRESHOLD_UTILIZATION_WARNING_PCT", t.UtilizationWarningPct)
	t.UtilizationCriticalPct = getEnvFloat("THRESHOLD_UTILIZATION_CRITICAL_PCT", t.UtilizationCriticalPct)
	t.FeedCriticalKg = getEnvFloat("THRESHOLD_FEED_CRITICAL_KG", t.FeedCriticalKg)
	t.FeedLowKg = getEnvFloat("THRESHOLD_FEED_LOW_KG", t.FeedLowKg)
	t.VaccineCriticalUnit = getEnvInt("THRESHOLD_VACCINE_CRITICAL_UNIT", t.VaccineCriticalUnit)
	t.VaccineLowUnit = getEnvInt("THRESHOLD_VACCINE_LOW_UNIT", t.VaccineLowUnit)
	return t
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[WARN] %s tidak valid (%q), memakai default %v", key, v, def)
		return def
	}
	return f
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s tidak valid (%q), memakai default %d", key, v, def)
		return def
	}
	return n
}

package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Kommagetrennte Standard-Quellen für den Knowledge-Base-Crawl.
	SourceURLs string `envconfig:"SOURCE_URLS" default:"https://vnvc.vn/benh-truyen-nhiem/,https://www.vinmec.com/vi/benh/benh-truyen-nhiem-1/,https://suckhoedoisong.vn/benh-truyen-nhiem/"`

	FetchTimeoutSeconds int    `envconfig:"FETCH_TIMEOUT_SECONDS" default:"30"`
	FetchUserAgent      string `envconfig:"FETCH_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 0 * * *"`

	// S3-Snapshot-Archiv für rohe HTML-Seiten; deaktiviert, wenn kein Bucket gesetzt ist.
	SnapshotS3Key    string `envconfig:"SNAPSHOT_S3_KEY"`
	SnapshotS3Secret string `envconfig:"SNAPSHOT_S3_SECRET"`
	SnapshotS3URL    string `envconfig:"SNAPSHOT_S3_URL"`
	SnapshotS3Region string `envconfig:"SNAPSHOT_S3_REGION"`
	SnapshotS3Bucket string `envconfig:"SNAPSHOT_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// DefaultSourceURLs gibt die konfigurierten Standard-Quellen als Slice zurück.
func (c *Config) DefaultSourceURLs() []string {
	var urls []string
	for _, u := range strings.Split(c.SourceURLs, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// SnapshotsEnabled meldet, ob das S3-Snapshot-Archiv konfiguriert ist.
func (c *Config) SnapshotsEnabled() bool {
	return c.SnapshotS3Bucket != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}

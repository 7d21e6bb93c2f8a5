package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "localhost", DBPort: 5432,
		DBUser: "medichat", DBPassword: "secret", DBName: "knowledge",
	}
	assert.Equal(t,
		"host=localhost user=medichat password=secret dbname=knowledge port=5432 sslmode=disable",
		cfg.DSN())
}

func TestDefaultSourceURLs(t *testing.T) {
	cfg := &Config{SourceURLs: "https://vnvc.vn/a/, ,https://medda.vn/b/"}
	assert.Equal(t, []string{"https://vnvc.vn/a/", "https://medda.vn/b/"}, cfg.DefaultSourceURLs())

	cfg.SourceURLs = ""
	assert.Empty(t, cfg.DefaultSourceURLs())
}

func TestSnapshotsEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.SnapshotsEnabled())

	cfg.SnapshotS3Bucket = "snapshots"
	assert.True(t, cfg.SnapshotsEnabled())
}

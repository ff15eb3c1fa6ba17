package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "redis", cfg.QueueDriver)
	assert.Equal(t, 4, cfg.QueueWorkers)
	assert.Equal(t, 15*time.Minute, cfg.ScanInterval)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "uploads/avatars", cfg.AvatarDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("QUEUE_DRIVER", "memory")
	t.Setenv("QUEUE_WORKERS", "2")
	t.Setenv("SCAN_INTERVAL", "1m")
	t.Setenv("MAIL_FROM", "notes@example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "memory", cfg.QueueDriver)
	assert.Equal(t, 2, cfg.QueueWorkers)
	assert.Equal(t, time.Minute, cfg.ScanInterval)
	assert.Equal(t, "notes@example.com", cfg.MailFrom)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("QUEUE_WORKERS", "lots")
	t.Setenv("SCAN_INTERVAL", "soon")

	cfg := Load()

	assert.Equal(t, 4, cfg.QueueWorkers)
	assert.Equal(t, 15*time.Minute, cfg.ScanInterval)
}

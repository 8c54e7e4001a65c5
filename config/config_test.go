package config

import (
	"testing"
	"time"

	utils "github.com/minaorangina/durak/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		utils.AssertEqual(t, cfg.Port, 8000)
		utils.AssertEqual(t, cfg.Addr(), ":8000")
		utils.AssertEqual(t, cfg.StaticURL, "/static/")
		assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
		utils.AssertEqual(t, cfg.RoomIdleTimeout, 5*time.Minute)
		utils.AssertEqual(t, cfg.ReapInterval, 30*time.Second)
		utils.AssertEqual(t, cfg.LogLevel, "info")
		assert.False(t, cfg.Dev)
	})

	t.Run("reads the environment", func(t *testing.T) {
		t.Setenv("DURAK_PORT", "9090")
		t.Setenv("DURAK_ALLOWED_ORIGINS", "https://a.example;https://b.example")
		t.Setenv("DURAK_ROOM_IDLE_TIMEOUT", "90s")
		t.Setenv("DURAK_DEV", "true")

		cfg, err := Load()
		require.NoError(t, err)
		utils.AssertEqual(t, cfg.Addr(), ":9090")
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
		utils.AssertEqual(t, cfg.RoomIdleTimeout, 90*time.Second)
		assert.True(t, cfg.Dev)
	})

	t.Run("rejects nonsense", func(t *testing.T) {
		t.Setenv("DURAK_PORT", "70000")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("builds a logger at the configured level", func(t *testing.T) {
		logger, err := Config{LogLevel: "debug"}.Logger()
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

		_, err = Config{LogLevel: "chatty"}.Logger()
		assert.Error(t, err)
	})
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is read from DURAK_ environment variables
type Config struct {
	Port            int           `env:"DURAK_PORT,default=8000"`
	StaticURL       string        `env:"DURAK_STATIC_URL,default=/static/"`
	StaticDir       string        `env:"DURAK_STATIC_DIR"`
	AllowedOrigins  []string      `env:"DURAK_ALLOWED_ORIGINS,default=*"`
	RoomIdleTimeout time.Duration `env:"DURAK_ROOM_IDLE_TIMEOUT,default=5m"`
	ReapInterval    time.Duration `env:"DURAK_REAP_INTERVAL,default=30s"`
	LogLevel        string        `env:"DURAK_LOG_LEVEL,default=info"`
	Dev             bool          `env:"DURAK_DEV,default=false"`
}

// Load decodes the environment into a Config
func Load() (Config, error) {
	var cfg Config
	err := envdecode.Decode(&cfg)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid DURAK_PORT %d", c.Port)
	}
	if c.ReapInterval <= 0 {
		return fmt.Errorf("invalid DURAK_REAP_INTERVAL %s", c.ReapInterval)
	}
	if c.RoomIdleTimeout <= 0 {
		return fmt.Errorf("invalid DURAK_ROOM_IDLE_TIMEOUT %s", c.RoomIdleTimeout)
	}
	return nil
}

// Addr is the address to listen on
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Logger builds the service logger
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds the server's settings, read from UNO_* environment variables
type Config struct {
	Host           string        `env:"UNO_HOST,default=0.0.0.0"`
	Port           int           `env:"UNO_PORT,default=3000"`
	Debug          bool          `env:"UNO_DEBUG,default=false"`
	AllowedOrigins []string      `env:"UNO_ALLOWED_ORIGINS,default=*"`
	MaxMessageSize int64         `env:"UNO_MAX_MESSAGE_SIZE,default=4096"`
	SendBuffer     int           `env:"UNO_SEND_BUFFER,default=64"`
	RoomTTL        time.Duration `env:"UNO_ROOM_TTL,default=0s"`
	SweepInterval  time.Duration `env:"UNO_SWEEP_INTERVAL,default=5m"`
}

var (
	ErrInvalidPort       = errors.New("port must be between 1 and 65535")
	ErrInvalidBufferSize = errors.New("sizes must be positive")
	ErrInvalidInterval   = errors.New("sweep interval must be positive when rooms expire")
)

// Load reads the config from the environment and validates it
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the config makes sense
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w, got %d", ErrInvalidPort, c.Port)
	}
	if c.MaxMessageSize <= 0 || c.SendBuffer <= 0 {
		return ErrInvalidBufferSize
	}
	if c.RoomTTL > 0 && c.SweepInterval <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// Addr is the address to listen on
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SweepEnabled reports whether ended rooms should be cleared away
func (c Config) SweepEnabled() bool {
	return c.RoomTTL > 0
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/indigo-web/utils/strcomp"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

var (
	ErrBadBufferSize = errors.New("buffer size must be positive")
	ErrBadTimeout    = errors.New("read timeout must not be negative")
	ErrBadLogLevel   = errors.New("unknown log level")
)

type (
	NET struct {
		// ReadBufferSize is how many bytes are received from the socket at most by a single
		// read. Defaults to a memory page.
		ReadBufferSize int
		// WriteBufferSize limits the size of a single response. Defaults to a memory page.
		WriteBufferSize int
		// ReadTimeout interrupts a receive that's been blocked for too long. Zero disables
		// the deadline completely, which is the default.
		ReadTimeout time.Duration
	}

	Log struct {
		// Level is one of trace, debug, info, warn, error or disabled. Case doesn't matter.
		Level string
	}
)

// Config holds the tunables of the stub. The listening address isn't among them, it's
// always the same.
//
// Always start from Default() and modify what's needed.
type Config struct {
	NET NET
	Log Log
}

// Default returns the default config.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize:  os.Getpagesize(),
			WriteBufferSize: os.Getpagesize(),
			ReadTimeout:     0,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads a JSON file and overlays its values on top of the defaults. Fields absent from
// the file keep their default values. Durations are written as Go duration strings, e.g. "30s".
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse does the same as Load, but takes the file contents directly.
func Parse(data []byte) (*Config, error) {
	var file struct {
		NET struct {
			ReadBufferSize  *int    `json:"read_buffer_size"`
			WriteBufferSize *int    `json:"write_buffer_size"`
			ReadTimeout     *string `json:"read_timeout"`
		} `json:"net"`
		Log struct {
			Level *string `json:"level"`
		} `json:"log"`
	}

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if file.NET.ReadBufferSize != nil {
		cfg.NET.ReadBufferSize = *file.NET.ReadBufferSize
	}

	if file.NET.WriteBufferSize != nil {
		cfg.NET.WriteBufferSize = *file.NET.WriteBufferSize
	}

	if file.NET.ReadTimeout != nil {
		timeout, err := time.ParseDuration(*file.NET.ReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("config: read_timeout: %w", err)
		}

		cfg.NET.ReadTimeout = timeout
	}

	if file.Log.Level != nil {
		cfg.Log.Level = *file.Log.Level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first setting that makes no sense.
func (c *Config) Validate() error {
	switch {
	case c.NET.ReadBufferSize <= 0:
		return fmt.Errorf("config: read buffer: %w", ErrBadBufferSize)
	case c.NET.WriteBufferSize <= 0:
		return fmt.Errorf("config: write buffer: %w", ErrBadBufferSize)
	case c.NET.ReadTimeout < 0:
		return fmt.Errorf("config: %w", ErrBadTimeout)
	}

	_, err := c.Log.ZerologLevel()
	return err
}

var levels = [...]struct {
	name  string
	level zerolog.Level
}{
	{"trace", zerolog.TraceLevel},
	{"debug", zerolog.DebugLevel},
	{"info", zerolog.InfoLevel},
	{"warn", zerolog.WarnLevel},
	{"error", zerolog.ErrorLevel},
	{"disabled", zerolog.Disabled},
}

// ZerologLevel maps the level name onto the logger's level.
func (l Log) ZerologLevel() (zerolog.Level, error) {
	for _, lvl := range levels {
		if strcomp.EqualFold(lvl.name, l.Level) {
			return lvl.level, nil
		}
	}

	return zerolog.NoLevel, fmt.Errorf("config: %w: %q", ErrBadLogLevel, l.Level)
}

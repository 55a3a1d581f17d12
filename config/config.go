package config

import (
	"fmt"
	"path/filepath"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spacemeshos/smutil"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/bitcursor/codec"
)

const (
	FormatTable = "table"
	FormatPlain = "plain"
)

const (
	DefaultConfigFileName = "bitcli.toml"
	DefaultLogLevel       = "info"
	DefaultFormat         = FormatTable

	// 1MB input. Inputs are held in memory as a whole.
	DefaultMaxInput = 1 << 20
	MaxMaxInput     = 1 << 30
)

var (
	DefaultHomeDir    = filepath.Join(smutil.GetUserHomeDirectory(), ".bitcursor")
	DefaultConfigFile = filepath.Join(DefaultHomeDir, DefaultConfigFileName)
)

type Config struct {
	ConfigFile string `mapstructure:"config"`
	LogLevel   string `mapstructure:"log-level"`
	Format     string `mapstructure:"format"`

	// Codec params.
	Layout   string `mapstructure:"layout"`
	Size     uint64 `mapstructure:"size"`
	MaxInput uint64 `mapstructure:"max-input"`
}

func DefaultConfig() *Config {
	return &Config{
		ConfigFile: DefaultConfigFile,
		LogLevel:   DefaultLogLevel,
		Format:     DefaultFormat,
		MaxInput:   DefaultMaxInput,
	}
}

func (cfg *Config) Validate() error {
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid `LogLevel`; expected: one of debug, info, warn, error, given: %q", cfg.LogLevel)
	}

	if cfg.Format != FormatTable && cfg.Format != FormatPlain {
		return fmt.Errorf("invalid `Format`; expected: %q or %q, given: %q", FormatTable, FormatPlain, cfg.Format)
	}

	if cfg.MaxInput == 0 || cfg.MaxInput > MaxMaxInput {
		return fmt.Errorf("invalid `MaxInput`; expected: > 0 and <= %v, given: %v",
			bytefmt.ByteSize(MaxMaxInput), bytefmt.ByteSize(cfg.MaxInput))
	}

	if cfg.Layout == "" {
		return nil
	}

	layout, err := codec.ParseLayout(cfg.Layout)
	if err != nil {
		return fmt.Errorf("invalid `Layout`: %w", err)
	}

	if cfg.Size != 0 && cfg.Size < uint64(layout.ByteLen()) {
		return fmt.Errorf("invalid `Size`; expected: >= %d (layout size), given: %d", layout.ByteLen(), cfg.Size)
	}

	if cfg.Size > cfg.MaxInput {
		return fmt.Errorf("invalid `Size`; expected: <= %v, given: %v",
			bytefmt.ByteSize(cfg.MaxInput), bytefmt.ByteSize(cfg.Size))
	}

	return nil
}

// ParsedLayout returns the parsed Layout.
func (cfg *Config) ParsedLayout() (codec.Layout, error) {
	if cfg.Layout == "" {
		return nil, fmt.Errorf("missing `Layout`")
	}
	return codec.ParseLayout(cfg.Layout)
}

// BufferSize returns the size of the buffer to encode the layout into.
func (cfg *Config) BufferSize(l codec.Layout) int {
	if cfg.Size != 0 {
		return int(cfg.Size)
	}
	return l.ByteLen()
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spacemeshos/smutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spacemeshos/bitcursor/config"
)

const envPrefix = "BITCLI"

// loadConfig builds the effective config of cmd. Sources, from lowest to
// highest priority: defaults, config file, BITCLI_* environment variables and
// command line flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	defaults := config.DefaultConfig()
	vip.SetDefault("config", defaults.ConfigFile)
	vip.SetDefault("log-level", defaults.LogLevel)
	vip.SetDefault("format", defaults.Format)
	vip.SetDefault("layout", defaults.Layout)
	vip.SetDefault("size", defaults.Size)
	vip.SetDefault("max-input", defaults.MaxInput)

	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	fileLocation := smutil.GetCanonicalPath(vip.GetString("config"))
	if err := loadConfigFile(fileLocation, vip); err != nil {
		// The default config file is optional.
		if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
			return nil, err
		}
		if _, ok := os.LookupEnv(envPrefix + "_CONFIG"); ok {
			return nil, err
		}
	}

	cfg := config.DefaultConfig()
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ConfigFile = fileLocation

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		fileLocation = config.DefaultConfigFile
	}

	if _, err := os.Stat(fileLocation); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config file %v: %w", fileLocation, err)
	}

	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func setFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.String("config", config.DefaultConfigFile,
		"Path to configuration file")

	flags.String("log-level", config.DefaultLogLevel,
		"Log level (debug, info, warn, error)")

	flags.String("format", config.DefaultFormat,
		"Output format (table, plain)")

	flags.Uint64("max-input", config.DefaultMaxInput,
		"Maximum input size in bytes")
}

func setLayoutFlag(flags *pflag.FlagSet) {
	flags.StringP("layout", "l", "",
		`Field layout, e.g. "version:4,flags:3,ext:1,length:16"`)
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spew.Fdump(cmd.OutOrStdout(), a.cfg)
			return nil
		},
	}
}

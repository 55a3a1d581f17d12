package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/bitcursor/config"
)

var (
	// Version is the version of the binary.
	Version string

	// Commit is the commit hash of the binary.
	Commit string
)

// app holds the state shared by all commands of a single invocation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd returns the bitcli command tree.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.DefaultConfig(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "bitcli",
		Short: "Inspect and build bit-packed binary data",
		Long: `bitcli reads and writes binary data at bit granularity.
Fields are described by a layout of "name:bits" pairs, packed MSB first
without padding, e.g. "version:4,flags:3,ext:1,length:16".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	setFlags(rootCmd)

	rootCmd.AddCommand(
		newDecodeCmd(a),
		newEncodeCmd(a),
		newPeekCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	a.logger = logger.Named("bitcli")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of bitcli",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if Commit == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "bitcli %s\n", Version)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bitcli %s (%s)\n", Version, Commit)
		},
	}
}

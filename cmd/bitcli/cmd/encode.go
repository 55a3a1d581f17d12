package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/bitcursor/bitstream"
	"github.com/spacemeshos/bitcursor/codec"
)

func newEncodeCmd(a *app) *cobra.Command {
	encodeCmd := &cobra.Command{
		Use:   "encode name=value...",
		Short: "Encode bit fields into binary data",
		Long: `Encode packs the given field values according to the layout and prints the
resulting bytes as hex. Values may be given in decimal, hex (0x), octal (0o) or
binary (0b). Fields without a value are encoded as zero, and values wider than
their field are truncated to the field's least-significant bits.`,
		Example: `  bitcli encode -l "version:4,flags:3,ext:1,length:16" version=5 flags=0b011 ext=1 length=0xbeef`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.encode(cmd, args)
		},
	}

	setLayoutFlag(encodeCmd.Flags())
	encodeCmd.Flags().Uint64("size", 0,
		"Output size in bytes (0 for the layout size)")
	return encodeCmd
}

func (a *app) encode(cmd *cobra.Command, args []string) error {
	layout, err := a.cfg.ParsedLayout()
	if err != nil {
		return err
	}
	values, err := parseValues(args)
	if err != nil {
		return err
	}

	c := bitstream.NewCursor(make([]byte, a.cfg.BufferSize(layout)))
	if err := codec.Encode(c, layout, values, codec.WithLogger(a.logger)); err != nil {
		return err
	}

	a.logger.Info("encoded layout",
		zap.Int("fields", len(layout)),
		zap.Uint("bits", layout.BitLen()),
		zap.Int("bytes", c.Len()),
	)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(c.Take()))
	return err
}

func parseValues(args []string) (map[string]uint64, error) {
	values := make(map[string]uint64, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid value %q; expected: name=value", arg)
		}
		if _, ok := values[name]; ok {
			return nil, fmt.Errorf("%w: %q given more than once", codec.ErrDuplicateField, name)
		}
		v, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}

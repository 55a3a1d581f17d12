package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/bitcursor/bitstream"
	"github.com/spacemeshos/bitcursor/codec"
	"github.com/spacemeshos/bitcursor/config"
)

func newDecodeCmd(a *app) *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode bit fields from binary data",
		Long: `Decode reads the fields of the given layout, in order, from the input bytes
and prints their values. The input is either a hex string or a file (--file).`,
		Example: `  bitcli decode -l "version:4,flags:3,ext:1,length:16" 57beef`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.decode(cmd, args)
		},
	}

	setLayoutFlag(decodeCmd.Flags())
	setInputFlag(decodeCmd.Flags())
	return decodeCmd
}

func (a *app) decode(cmd *cobra.Command, args []string) error {
	layout, err := a.cfg.ParsedLayout()
	if err != nil {
		return err
	}
	data, err := a.readInput(cmd, args)
	if err != nil {
		return err
	}

	c := bitstream.NewCursor(data)
	values, err := codec.Decode(c, layout, codec.WithLogger(a.logger))
	if err != nil {
		return err
	}

	a.logger.Info("decoded layout",
		zap.Int("fields", len(values)),
		zap.Stringer("position", c.Position()),
		zap.Int("bytes_remaining", c.BytesRemaining()),
	)
	return renderValues(cmd.OutOrStdout(), a.cfg.Format, values)
}

func renderValues(w io.Writer, format string, values []codec.Value) error {
	if format == config.FormatPlain {
		for _, v := range values {
			if _, err := fmt.Fprintf(w, "%s=%d\n", v.Name, v.Uint); err != nil {
				return err
			}
		}
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Bits", "Offset", "Value", "Hex"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, v := range values {
		table.Append([]string{
			v.Name,
			strconv.FormatUint(uint64(v.Bits), 10),
			strconv.FormatUint(uint64(v.Offset), 10),
			strconv.FormatUint(v.Uint, 10),
			fmt.Sprintf("%#x", v.Uint),
		})
	}
	table.Render()
	return nil
}

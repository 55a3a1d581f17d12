package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitcursor/bitstream"
	"github.com/spacemeshos/bitcursor/config"
)

func newPeekCmd(a *app) *cobra.Command {
	peekCmd := &cobra.Command{
		Use:   "peek [hex]",
		Short: "Show the byte under the cursor after skipping some bits",
		Long: `Peek advances a cursor over the input by the given number of bits and
prints the cursor position, the raw byte under it and the number of whole
bytes left.`,
		Example: `  bitcli peek --skip-bits 12 57beef`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.peek(cmd, args)
		},
	}

	peekCmd.Flags().Uint("skip-bits", 0, "Number of bits to skip before peeking")
	setInputFlag(peekCmd.Flags())
	return peekCmd
}

func (a *app) peek(cmd *cobra.Command, args []string) error {
	skip, err := cmd.Flags().GetUint("skip-bits")
	if err != nil {
		return err
	}
	data, err := a.readInput(cmd, args)
	if err != nil {
		return err
	}

	c := bitstream.NewCursor(data)
	if err := skipBits(c, skip); err != nil {
		return fmt.Errorf("skip %d bits: %w", skip, err)
	}
	b, err := c.PeekByte()
	if err != nil {
		return err
	}

	return renderPeek(cmd.OutOrStdout(), a.cfg.Format, c, b)
}

// skipBits advances c by numBits, one byte-bounded read at a time.
func skipBits(c *bitstream.Cursor, numBits uint) error {
	for numBits > 0 {
		n := min(8-uint(c.Position().Bit), numBits)
		if _, err := c.ReadBits(n); err != nil {
			return err
		}
		numBits -= n
	}
	return nil
}

func renderPeek(w io.Writer, format string, c *bitstream.Cursor, b byte) error {
	pos := c.Position()
	rows := [][]string{
		{"byte", strconv.Itoa(pos.Byte)},
		{"bit", strconv.Itoa(int(pos.Bit))},
		{"hex", fmt.Sprintf("0x%02x", b)},
		{"binary", fmt.Sprintf("%08b", b)},
		{"bytes_remaining", strconv.Itoa(c.BytesRemaining())},
	}

	if format == config.FormatPlain {
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, "%s=%s\n", row[0], row[1]); err != nil {
				return err
			}
		}
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Value"})
	table.AppendBulk(rows)
	table.Render()
	return nil
}

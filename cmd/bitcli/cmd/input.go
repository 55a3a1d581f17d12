package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var hexCleaner = strings.NewReplacer(" ", "", "_", "", ":", "", "\n", "", "\t", "")

func setInputFlag(flags *pflag.FlagSet) {
	flags.StringP("file", "f", "",
		"Read the input bytes from a file instead of a hex argument")
}

// readInput returns the input bytes, either from the file given by the --file
// flag or from the hex-encoded first argument.
func (a *app) readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return nil, err
	}

	switch {
	case file != "" && len(args) > 0:
		return nil, errors.New("provide either a hex argument or --file, not both")
	case file != "":
		return a.readFile(file)
	case len(args) == 0:
		return nil, errors.New("missing input: provide a hex argument or --file")
	}

	data, err := decodeHex(args[0])
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > a.cfg.MaxInput {
		return nil, fmt.Errorf("input too large; expected: <= %v, given: %v",
			bytefmt.ByteSize(a.cfg.MaxInput), bytefmt.ByteSize(uint64(len(data))))
	}
	return data, nil
}

func (a *app) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	if uint64(info.Size()) > a.cfg.MaxInput {
		return nil, fmt.Errorf("input too large; expected: <= %v, given: %v",
			bytefmt.ByteSize(a.cfg.MaxInput), bytefmt.ByteSize(uint64(info.Size())))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	a.logger.Debug("read input file",
		zap.String("file", path),
		zap.String("size", bytefmt.ByteSize(uint64(len(data)))),
	)
	return data, nil
}

func decodeHex(s string) ([]byte, error) {
	s = hexCleaner.Replace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

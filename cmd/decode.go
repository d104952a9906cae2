package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/cobra"

	"packetchat/aprs"
	"packetchat/ax25"
	"packetchat/device/kiss"
)

var (
	decodeHex   bool
	decodeChunk int
)

var decodeCmd = &cobra.Command{
	Use:   "decode [FILE]",
	Short: "Decode a captured KISS byte stream",
	Long: `Decode reads KISS bytes from FILE (or stdin) and prints every AX.25 UI
frame it contains as a TNC2 line. With --hex the input is hex text; with
--chunk the bytes are fed to the decoder N at a time, as a serial port would
deliver them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeHex, "hex", false, "Input is hex text (whitespace ignored)")
	decodeCmd.Flags().IntVar(&decodeChunk, "chunk", 0, "Feed the decoder N bytes at a time (0 for all at once)")
	rootCmd.AddCommand(decodeCmd)
}

func readDecodeInput(cmd *cobra.Command, args []string) ([]byte, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !decodeHex {
		return data, nil
	}
	text := strings.Join(strings.Fields(string(data)), "")
	raw, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return raw, nil
}

// decodeStream feeds data through a KISS stream chunk bytes at a time and
// prints what it finds. It returns the number of frames decoded.
func decodeStream(w io.Writer, stamp *strftime.Strftime, data []byte, chunk int) int {
	if chunk <= 0 {
		chunk = len(data)
	}

	var (
		stream kiss.Stream
		count  int
	)
	for start := 0; start < len(data); start += chunk {
		end := min(start+chunk, len(data))
		for _, raw := range stream.Write(data[start:end]) {
			frame, err := ax25.DecodeFrame(raw)
			if err != nil {
				fmt.Fprintf(w, "skipped frame (%d bytes): %v\n", len(raw), err)
				continue
			}
			printPacket(w, stamp, aprs.Decode(frame, time.Now()))
			count++
		}
	}
	if n := stream.Pending(); n > 0 {
		fmt.Fprintf(w, "%d bytes of an unterminated frame left over\n", n)
	}
	return count
}

func runDecode(cmd *cobra.Command, args []string) error {
	stamp, err := strftime.New(conf.UI.TimestampFormat)
	if err != nil {
		return fmt.Errorf("invalid timestamp_format: %w", err)
	}
	data, err := readDecodeInput(cmd, args)
	if err != nil {
		return err
	}
	decodeStream(cmd.OutOrStdout(), stamp, data, decodeChunk)
	return nil
}

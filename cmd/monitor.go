package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/cobra"

	"packetchat/device"
	"packetchat/packet"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print received packets until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

// printPacket writes one packet as a timestamped TNC2 line, followed by
// its decoded summary when it was classified.
func printPacket(w io.Writer, stamp *strftime.Strftime, pkt *packet.Packet) {
	fmt.Fprintf(w, "%s %s\n", stamp.FormatString(pkt.Timestamp), pkt.TNC2())
	if pkt.Type != packet.TypeUnknown {
		fmt.Fprintf(w, "    %s: %s\n", pkt.Type, pkt.Summary())
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	stamp, err := strftime.New(conf.UI.TimestampFormat)
	if err != nil {
		return fmt.Errorf("invalid timestamp_format: %w", err)
	}

	iface, err := device.Open(conf)
	if err != nil {
		return fmt.Errorf("failed to connect to interface: %w", err)
	}
	defer iface.Close()

	packets := make(chan *packet.Packet)
	go iface.Start(packets)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	out := cmd.OutOrStdout()
	for {
		select {
		case pkt, ok := <-packets:
			if !ok {
				return nil
			}
			printPacket(out, stamp, pkt)
		case <-interrupt:
			return nil
		}
	}
}

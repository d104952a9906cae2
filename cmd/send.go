package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"packetchat/device"
	"packetchat/packet"
	"packetchat/station"
)

var sendNoAck bool

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Transmit a single packet and exit",
}

var sendMessageCmd = &cobra.Command{
	Use:   "message ADDRESSEE TEXT...",
	Short: "Send a text message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendOne(cmd, func(st *station.Station) (*packet.Packet, error) {
			text := strings.Join(args[1:], " ")
			return st.Message(strings.ToUpper(args[0]), text, !sendNoAck), nil
		})
	},
}

var sendPositionCmd = &cobra.Command{
	Use:   "position [COMMENT...]",
	Short: "Send a position beacon from the configured station position",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendOne(cmd, func(st *station.Station) (*packet.Packet, error) {
			return st.Position(strings.Join(args, " ")), nil
		})
	},
}

var sendRawCmd = &cobra.Command{
	Use:   "raw PAYLOAD",
	Short: "Send PAYLOAD unchanged as the information field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendOne(cmd, func(st *station.Station) (*packet.Packet, error) {
			if args[0] == "" {
				return nil, errors.New("empty payload")
			}
			return st.Raw(args[0])
		})
	},
}

func init() {
	sendMessageCmd.Flags().BoolVar(&sendNoAck, "no-ack", false, "Do not request an ack (omit the message id)")
	sendCmd.AddCommand(sendMessageCmd, sendPositionCmd, sendRawCmd)
	rootCmd.AddCommand(sendCmd)
}

func sendOne(cmd *cobra.Command, build func(*station.Station) (*packet.Packet, error)) error {
	st, err := station.New(conf.Station)
	if err != nil {
		return fmt.Errorf("station settings in %s: %w", loadedFrom, err)
	}
	pkt, err := build(st)
	if err != nil {
		return err
	}

	iface, err := device.Open(conf)
	if err != nil {
		return fmt.Errorf("failed to connect to interface: %w", err)
	}
	defer iface.Close()

	if err := iface.Send(pkt); err != nil {
		return err
	}
	log.Info("Sent", "packet", pkt.TNC2())
	fmt.Fprintln(cmd.OutOrStdout(), pkt.TNC2())
	return nil
}

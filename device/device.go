// Package device opens the configured packet interface.
package device

import (
	"fmt"
	"strings"

	"packetchat/config"
	"packetchat/device/aprsis"
	"packetchat/device/kiss"
	"packetchat/packet"
)

// Interface is a connected source and sink of packets.
type Interface interface {
	// Start reads packets until the connection ends, then closes the channel.
	Start(chan<- *packet.Packet)
	Send(*packet.Packet) error
	Close()
}

// Open connects to the interface named by conf.Interface.Type.
func Open(conf config.Config) (Interface, error) {
	switch strings.ToUpper(conf.Interface.Type) {
	case "KISS":
		return kiss.Connect(conf.Interface)
	case "APRSIS":
		return aprsis.Connect(conf)
	default:
		return nil, fmt.Errorf("unknown interface type: %s", conf.Interface.Type)
	}
}

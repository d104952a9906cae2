package kiss

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"packetchat/aprs"
	"packetchat/ax25"
	"packetchat/config"
	"packetchat/packet"
)

// ErrClosed is returned by Send after the client has been closed.
var ErrClosed = errors.New("kiss: client closed")

const readBufferSize = 1024

var timeNow = time.Now

// Client represents an active connection to a KISS TNC
type Client struct {
	conn io.ReadWriteCloser // The underlying connection (TCP, serial or WebSocket)

	mu     sync.Mutex // serializes writes and guards closed
	closed bool
}

// NewClient wraps an already open connection.
func NewClient(conn io.ReadWriteCloser) *Client {
	return &Client{conn: conn}
}

// Connect establishes a connection to a TNC based on the interface config.
// The device is a ws:// or wss:// URL, a host:port for TCP, or a serial
// device path.
func Connect(conf config.InterfaceConfig) (*Client, error) {
	if !strings.EqualFold(conf.Type, "KISS") {
		return nil, fmt.Errorf("kiss: unsupported interface type %q", conf.Type)
	}

	var (
		conn io.ReadWriteCloser
		err  error
	)
	switch {
	case strings.HasPrefix(conf.Device, "ws://"), strings.HasPrefix(conf.Device, "wss://"):
		log.Info("Connecting to KISS TNC over WebSocket", "url", conf.Device)
		conn, err = connectWebSocket(conf.Device)
	case strings.Contains(conf.Device, ":"):
		log.Info("Connecting to KISS TNC over TCP", "address", conf.Device)
		conn, err = connectTCP(conf.Device)
	default:
		log.Info("Opening KISS TNC serial port", "device", conf.Device, "baud", conf.Baud)
		conn, err = connectSerial(conf.Device, conf.Baud)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Connected to KISS TNC", "device", conf.Device)
	return NewClient(conn), nil
}

// Start begins the packet-reading loop. Every AX.25 UI frame is decoded
// and sent down packetChan, which is closed when the connection ends.
// This function should be run as a goroutine.
func (c *Client) Start(packetChan chan<- *packet.Packet) {
	defer close(packetChan)

	var stream Stream
	buf := make([]byte, readBufferSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			for _, raw := range stream.Write(buf[:n]) {
				frame, err := ax25.DecodeFrame(raw)
				if err != nil {
					log.Debug("Skipping frame", "err", err, "len", len(raw))
					continue
				}
				packetChan <- aprs.Decode(frame, timeNow())
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !c.isClosed() {
				log.Error("KISS read failed", "err", err)
			}
			return
		}
	}
}

// Send encodes pkt as an AX.25 UI frame and writes it as one KISS frame.
func (c *Client) Send(pkt *packet.Packet) error {
	raw, err := ax25.EncodeFrame(pkt.Destination, pkt.Source, pkt.Path, pkt.Info)
	if err != nil {
		return fmt.Errorf("kiss: encode: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if _, err := c.conn.Write(Encode(raw)); err != nil {
		return fmt.Errorf("kiss: write: %w", err)
	}
	log.Debug("Sent frame", "packet", pkt.TNC2())
	return nil
}

// Close disconnects the client
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if err := c.conn.Close(); err != nil {
		log.Debug("Closing KISS connection", "err", err)
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

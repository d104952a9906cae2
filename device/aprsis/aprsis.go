// Package aprsis connects to the APRS Internet Service as an alternative
// to a radio TNC.
package aprsis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"packetchat/aprs"
	"packetchat/config"
	"packetchat/location"
	"packetchat/packet"
)

const (
	appName    = "packetchat"
	appVersion = "0.1"

	dialTimeout  = 15 * time.Second
	loginTimeout = 10 * time.Second
)

// ErrReadOnly is returned by Send when the server did not verify the login.
var ErrReadOnly = errors.New("aprsis: connection is read-only")

var timeNow = time.Now

// Client represents an active connection to an APRS-IS server
type Client struct {
	conn     net.Conn
	reader   *bufio.Reader
	callsign string
	filter   string

	mu         sync.Mutex // serializes writes
	IsVerified bool
}

// Connect establishes a connection to an APRS-IS server and logs in. A
// missing or wrong passcode still connects, read-only.
func Connect(conf config.Config) (*Client, error) {
	callsign := conf.Station.Callsign
	if callsign == "" {
		return nil, errors.New("callsign missing in config for APRS-IS")
	}

	passcode := conf.Interface.Passcode
	switch {
	case passcode <= 0:
		log.Warn("APRS-IS passcode not set, connecting read-only")
		passcode = -1
	case !aprs.VerifyPasscode(callsign, passcode):
		log.Warn("APRS-IS passcode does not match callsign, connecting read-only", "callsign", callsign)
		passcode = -1
	}

	server := conf.Interface.Server
	log.Info("Connecting to APRS-IS", "server", server)
	conn, err := net.DialTimeout("tcp", server, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to APRS-IS server %s: %w", server, err)
	}

	client := &Client{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		callsign: callsign,
		filter:   Filter(conf.Station, conf.Interface.FilterRadiusKm),
	}
	if err := client.login(passcode); err != nil {
		client.Close()
		return nil, fmt.Errorf("APRS-IS login failed: %w", err)
	}

	log.Info("APRS-IS login complete", "verified", client.IsVerified, "filter", client.filter)
	return client, nil
}

// Filter builds a range filter around the station, taken from its
// coordinates or else its gridsquare. It returns "" when neither is set.
func Filter(station config.StationConfig, radiusKm int) string {
	lat, lon := station.Latitude, station.Longitude
	if lat == 0 && lon == 0 {
		if station.GridSquare == "" {
			return ""
		}
		var err error
		lat, lon, err = location.GridSquareToLatLon(station.GridSquare)
		if err != nil {
			log.Warn("Ignoring station gridsquare for APRS-IS filter", "gridsquare", station.GridSquare, "err", err)
			return ""
		}
	}
	if radiusKm <= 0 {
		radiusKm = config.Default().Interface.FilterRadiusKm
	}
	return fmt.Sprintf("r/%.3f/%.3f/%d", lat, lon, radiusKm)
}

// login sends the login string and waits for the server's logresp line
func (c *Client) login(passcode int) error {
	loginStr := fmt.Sprintf("user %s pass %d vers %s %s", c.callsign, passcode, appName, appVersion)
	if c.filter != "" {
		loginStr += " filter " + c.filter
	}
	log.Debug("Sending APRS-IS login", "user", c.callsign, "filter", c.filter)

	if _, err := io.WriteString(c.conn, loginStr+"\r\n"); err != nil {
		return fmt.Errorf("failed to send login string: %w", err)
	}

	c.conn.SetReadDeadline(timeNow().Add(loginTimeout))
	defer c.conn.SetReadDeadline(time.Time{})

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return errors.New("timeout waiting for login response from server")
			}
			if errors.Is(err, io.EOF) {
				return errors.New("connection closed unexpectedly during login")
			}
			return fmt.Errorf("error reading login response: %w", err)
		}
		line := strings.TrimSpace(string(lineBytes))
		log.Debug("APRS-IS server", "line", line)

		if !strings.HasPrefix(line, "# logresp ") {
			if strings.HasPrefix(line, "#") {
				continue
			}
			// Data before logresp, assume a read-only session
			c.IsVerified = false
			return nil
		}

		// # logresp <callsign> verified|unverified, server <serverid>
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}
		if !strings.EqualFold(parts[2], c.callsign) {
			return fmt.Errorf("login response callsign mismatch: expected %s, got %s", c.callsign, parts[2])
		}
		c.IsVerified = passcode != -1 && strings.HasPrefix(parts[3], "verified")
		return nil
	}
}

// Start begins the packet-reading loop for APRS-IS. Server comments are
// skipped and lines that are not TNC2 packets are logged and dropped.
// packetChan is closed when the connection ends.
func (c *Client) Start(packetChan chan<- *packet.Packet) {
	defer close(packetChan)

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				log.Info("APRS-IS connection closed")
			} else {
				log.Error("Error reading APRS-IS stream", "err", err)
			}
			return
		}

		line := strings.TrimRight(string(lineBytes), "\r\n")
		if line == "" || line[0] == '#' {
			continue
		}

		frame, err := aprs.ParseTNC2(line)
		if err != nil {
			log.Debug("Skipping APRS-IS line", "err", err, "line", line)
			continue
		}
		packetChan <- aprs.Decode(frame, timeNow())
	}
}

// Send writes pkt to the server as a TNC2 line. Unverified connections
// cannot transmit.
func (c *Client) Send(pkt *packet.Packet) error {
	if !c.IsVerified {
		return ErrReadOnly
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.conn, pkt.TNC2()+"\r\n"); err != nil {
		return fmt.Errorf("aprsis: write: %w", err)
	}
	return nil
}

// Close disconnects the client
func (c *Client) Close() {
	if c.conn != nil {
		log.Debug("Closing APRS-IS connection")
		c.conn.Close()
	}
}

package kiss

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

const defaultBaud = 9600

// serialConn adapts a serial port, whose reads time out with n == 0, to a
// stream that only returns once data arrives or the port closes.
type serialConn struct {
	port serial.Port
}

func (s *serialConn) Read(p []byte) (int, error) {
	for {
		n, err := s.port.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func (s *serialConn) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *serialConn) Close() error {
	return s.port.Close()
}

// connectSerial opens a connection to a serial KISS TNC
func connectSerial(devicePath string, baud int) (io.ReadWriteCloser, error) {
	if devicePath == "" {
		return nil, errors.New("no device path (e.g., /dev/ttyUSB0 or COM3) provided for KISS serial")
	}
	if baud <= 0 {
		baud = defaultBaud
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(devicePath, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", devicePath, err)
	}

	// Read() must not block forever or Close() can hang on some platforms
	if err := port.SetReadTimeout(time.Second); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &serialConn{port: port}, nil
}

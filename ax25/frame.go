package ax25

import (
	"errors"
	"fmt"
)

// UI frame control and protocol fields.
const (
	ControlUI   byte = 0x03
	PIDNoLayer3 byte = 0xF0
)

// MaxDigipeaters is the longest path a frame may carry.
const MaxDigipeaters = 8

// minFrameLen covers destination, source, control and PID.
const minFrameLen = 2*AddressLen + 2

var (
	ErrFrameTooShort        = errors.New("frame too short")
	ErrUnsupportedFrameType = errors.New("not a UI frame")
	ErrTooManyDigipeaters   = errors.New("too many digipeaters")
)

// Frame is a decoded UI frame.
type Frame struct {
	Destination Address
	Source      Address
	Path        []Address
	Control     byte
	PID         byte
	Info        []byte
}

// PathStrings renders the digipeater path, marking repeated hops with '*'.
func (f Frame) PathStrings() []string {
	path := make([]string, 0, len(f.Path))
	for _, digi := range f.Path {
		s := digi.String()
		if digi.Repeated {
			s += "*"
		}
		path = append(path, s)
	}
	return path
}

// EncodeFrame assembles a UI frame. Each address may carry a -SSID suffix.
func EncodeFrame(destination, source string, path []string, info []byte) ([]byte, error) {
	if len(path) > MaxDigipeaters {
		return nil, fmt.Errorf("%w: %d", ErrTooManyDigipeaters, len(path))
	}

	frame := make([]byte, 0, (2+len(path))*AddressLen+2+len(info))

	call, ssid := ParseCallsign(destination)
	frame = append(frame, EncodeAddress(call, ssid, false)...)

	call, ssid = ParseCallsign(source)
	frame = append(frame, EncodeAddress(call, ssid, len(path) == 0)...)

	for i, digi := range path {
		call, ssid = ParseCallsign(digi)
		frame = append(frame, EncodeAddress(call, ssid, i == len(path)-1)...)
	}

	frame = append(frame, ControlUI, PIDNoLayer3)
	return append(frame, info...), nil
}

// DecodeFrame parses a raw UI frame (no flags, no FCS).
func DecodeFrame(raw []byte) (Frame, error) {
	if len(raw) < minFrameLen {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(raw))
	}

	// Walk the address list until the extension bit is seen
	var addrs []Address
	idx := 0
	for idx+AddressLen <= len(raw) {
		addr, err := DecodeAddress(raw[idx : idx+AddressLen])
		if err != nil {
			return Frame{}, err
		}
		addrs = append(addrs, addr)
		idx += AddressLen
		if addr.IsLast {
			break
		}
	}

	if len(addrs) == 0 || !addrs[len(addrs)-1].IsLast {
		return Frame{}, fmt.Errorf("%w: address list never terminates", ErrFrameTooShort)
	}
	if len(addrs) < 2 {
		return Frame{}, fmt.Errorf("%w: need destination and source", ErrFrameTooShort)
	}
	if idx+2 > len(raw) {
		return Frame{}, fmt.Errorf("%w: no control/PID after addresses", ErrUnsupportedFrameType)
	}

	control, pid := raw[idx], raw[idx+1]
	if control != ControlUI || pid != PIDNoLayer3 {
		return Frame{}, fmt.Errorf("%w: control 0x%02X pid 0x%02X", ErrUnsupportedFrameType, control, pid)
	}

	info := make([]byte, len(raw)-idx-2)
	copy(info, raw[idx+2:])

	return Frame{
		Destination: addrs[0],
		Source:      addrs[1],
		Path:        addrs[2:],
		Control:     control,
		PID:         pid,
		Info:        info,
	}, nil
}

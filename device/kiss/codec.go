package kiss

// KISS protocol constants
const (
	FEND  byte = 0xC0 // Frame End
	FESC  byte = 0xDB // Frame Escape
	TFEND byte = 0xDC // Transposed Frame End
	TFESC byte = 0xDD // Transposed Frame Escape
)

// TypeData is the frame type byte of a data frame on port 0.
const TypeData byte = 0x00

// Frame is one unescaped KISS frame.
type Frame struct {
	Type    byte
	Payload []byte
}

// Encode wraps an AX.25 frame in a KISS data frame, escaping FEND and FESC.
func Encode(frame []byte) []byte {
	out := make([]byte, 0, len(frame)+4)
	out = append(out, FEND, TypeData)
	for _, b := range frame {
		switch b {
		case FEND:
			out = append(out, FESC, TFEND)
		case FESC:
			out = append(out, FESC, TFESC)
		default:
			out = append(out, b)
		}
	}
	return append(out, FEND)
}

// Unframe scans carry+stream for complete KISS frames and returns the data
// frame payloads plus the carry for the next call. The carry holds the raw
// bytes of a frame that has been opened but not yet closed, so a frame split
// across any number of reads decodes the same as if it arrived in one.
//
// Bytes outside a frame are dropped. An FESC followed by anything other
// than TFEND or TFESC drops both bytes.
func Unframe(stream, carry []byte) ([][]byte, []byte) {
	all, newCarry := scan(stream, carry)

	var frames [][]byte
	for _, f := range all {
		if f.Type == TypeData {
			frames = append(frames, f.Payload)
		}
	}
	return frames, newCarry
}

// scan does the work for Unframe, returning frames of every type.
func scan(stream, carry []byte) ([]Frame, []byte) {
	buf := make([]byte, 0, len(carry)+len(stream))
	buf = append(buf, carry...)
	buf = append(buf, stream...)

	var (
		frames  []Frame
		current []byte // nil while outside a frame
		start   int    // index of the FEND that opened current
	)

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == FEND {
			switch {
			case current == nil:
				current = []byte{}
				start = i
			case len(current) == 0:
				// FEND FEND, keep waiting
			default:
				frames = append(frames, Frame{Type: current[0], Payload: current[1:]})
				current = nil
			}
			continue
		}

		if current == nil {
			continue
		}

		if b == FESC {
			if i+1 >= len(buf) {
				// Escape split across reads, let the carry pick it up
				break
			}
			i++
			switch buf[i] {
			case TFEND:
				current = append(current, FEND)
			case TFESC:
				current = append(current, FESC)
			}
			continue
		}

		current = append(current, b)
	}

	if current == nil {
		return frames, nil
	}
	return frames, append([]byte(nil), buf[start:]...)
}

// Stream owns the carry for one byte stream. It is not safe for
// concurrent use; give each connection its own.
type Stream struct {
	carry []byte
}

// Write feeds the next chunk read from the connection and returns any
// data frames it completed.
func (s *Stream) Write(chunk []byte) [][]byte {
	frames, carry := Unframe(chunk, s.carry)
	s.carry = carry
	return frames
}

// Pending reports how many raw bytes are buffered waiting for a closing FEND.
func (s *Stream) Pending() int {
	return len(s.carry)
}

package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTNC2(t *testing.T) {
	p := &Packet{
		Destination: "APZ001",
		Source:      "IK2ABC-7",
		Path:        []string{"WIDE1-1*", "WIDE2-1"},
		Info:        []byte(">status"),
	}
	assert.Equal(t, "IK2ABC-7>APZ001,WIDE1-1*,WIDE2-1:>status", p.TNC2())

	p.Path = nil
	assert.Equal(t, "IK2ABC-7>APZ001:>status", p.TNC2())
}

func TestLatLon(t *testing.T) {
	p := &Packet{}
	_, _, ok := p.LatLon()
	assert.False(t, ok)

	p.MicE = &MicEReport{Latitude: 42.5, Longitude: -71.1}
	lat, lon, ok := p.LatLon()
	assert.True(t, ok)
	assert.Equal(t, 42.5, lat)
	assert.Equal(t, -71.1, lon)
}

func TestSummary(t *testing.T) {
	msg := &Packet{Type: TypeMessage, Message: &Message{Addressee: "N0CALL", Text: "hello", ID: "005"}}
	assert.Equal(t, "msg to N0CALL: hello {005", msg.Summary())

	ack := &Packet{Type: TypeAck, Message: &Message{Addressee: "N0CALL", ID: "005"}}
	assert.Equal(t, "ack 005 to N0CALL", ack.Summary())

	raw := &Packet{Info: []byte(">hi")}
	assert.Equal(t, ">hi", raw.Summary())
	assert.Equal(t, "unknown", raw.Type.String())
}

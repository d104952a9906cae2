package station

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packetchat/config"
	"packetchat/packet"
)

func newTestStation(t *testing.T) *Station {
	t.Helper()
	conf := config.Default().Station
	conf.Callsign = "IK2ABC-7"
	conf.Path = []string{"WIDE1-1", "WIDE2-1"}
	conf.Latitude = 45.5
	conf.Longitude = 9.25
	conf.Comment = "portable"

	s, err := New(conf)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func TestNewRejectsInvalidStation(t *testing.T) {
	_, err := New(config.Default().Station)
	assert.Error(t, err, "default station has no callsign")
}

func TestMessageIDsWrap(t *testing.T) {
	s := newTestStation(t)
	s.nextID = 998
	assert.Equal(t, 998, s.NextMessageID())
	assert.Equal(t, 999, s.NextMessageID())
	assert.Equal(t, 1, s.NextMessageID())
}

func TestMessage(t *testing.T) {
	s := newTestStation(t)

	pkt := s.Message("n0call", "hello", true)
	assert.Equal(t, "APZ001", pkt.Destination)
	assert.Equal(t, "IK2ABC-7", pkt.Source)
	assert.Equal(t, []string{"WIDE1-1", "WIDE2-1"}, pkt.Path)
	assert.Equal(t, ":N0CALL   :hello{001", string(pkt.Info))
	assert.Equal(t, packet.TypeMessage, pkt.Type)
	assert.Equal(t, "001", pkt.Message.ID)
	assert.Equal(t, time.Unix(1700000000, 0), pkt.Timestamp)

	noAck := s.Message("N0CALL", "no ack", false)
	assert.Equal(t, ":N0CALL   :no ack", string(noAck.Info))
	assert.Empty(t, noAck.Message.ID)

	next := s.Message("N0CALL", QuickQuery, true)
	assert.Equal(t, ":N0CALL   :QSL? 73{002", string(next.Info))
}

func TestRepeatMessageKeepsID(t *testing.T) {
	s := newTestStation(t)
	assert.Nil(t, s.RepeatMessage(true))

	s.Message("N0CALL", "hello", true)
	again := s.RepeatMessage(true)
	require.NotNil(t, again)
	assert.Equal(t, ":N0CALL   :hello{001", string(again.Info))

	off := s.RepeatMessage(false)
	assert.Equal(t, ":N0CALL   :hello", string(off.Info))
	assert.Equal(t, 2, s.NextMessageID(), "repeat must not consume ids")
}

func TestAck(t *testing.T) {
	s := newTestStation(t)
	pkt := s.Ack("N0CALL", "042")
	assert.Equal(t, ":N0CALL   :ack042", string(pkt.Info))
	assert.Equal(t, packet.TypeAck, pkt.Type)
}

func TestPosition(t *testing.T) {
	s := newTestStation(t)
	assert.Equal(t, "!4530.00N/00915.00E>portable", string(s.Position("").Info))
	assert.Equal(t, "!4530.00N/00915.00E>QRV", string(s.Position("QRV").Info))
}

func TestRaw(t *testing.T) {
	s := newTestStation(t)
	assert.Nil(t, s.RepeatRaw())

	pkt, err := s.Raw(">café")
	require.NoError(t, err)
	assert.Equal(t, []byte{'>', 'c', 'a', 'f', 0xE9}, pkt.Info)

	again := s.RepeatRaw()
	require.NotNil(t, again)
	assert.Equal(t, pkt.Info, again.Info)

	_, err = s.Raw("snowman ☃")
	assert.Error(t, err)
}

func TestPathIsCopied(t *testing.T) {
	s := newTestStation(t)
	pkt := s.Message("N0CALL", "x", false)
	pkt.Path[0] = "CHANGED"
	assert.Equal(t, "WIDE1-1", s.Message("N0CALL", "y", false).Path[0])
}

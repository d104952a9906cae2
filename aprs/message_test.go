package aprs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packetchat/packet"
)

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name      string
		addressee string
		text      string
		id        int
		want      string
	}{
		{"with id", "N0CALL", "hello", 5, ":N0CALL   :hello{005"},
		{"no id", "n0call-9", "hi", 0, ":N0CALL-9 :hi"},
		{"id wraps", "N0CALL", "hi", 1234, ":N0CALL   :hi{234"},
		{"long addressee", "ABCDEFGHIJK", "hi", 0, ":ABCDEFGHI:hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(BuildMessage(tt.addressee, tt.text, tt.id)))
		})
	}
}

func TestBuildMessageTruncatesText(t *testing.T) {
	info := BuildMessage("N0CALL", strings.Repeat("x", 80), 0)
	assert.Len(t, info, 1+9+1+67)
}

func TestBuildAck(t *testing.T) {
	assert.Equal(t, ":IK2ABC-7 :ack005", string(BuildAck("ik2abc-7", "005")))
}

func TestParseMessage(t *testing.T) {
	msg, isAck, err := parseMessage([]byte(":N0CALL   :hello there{042"))
	require.NoError(t, err)
	assert.False(t, isAck)
	assert.Equal(t, packet.Message{Addressee: "N0CALL", Text: "hello there", ID: "042"}, msg)

	msg, _, err = parseMessage([]byte(":N0CALL   :no id here"))
	require.NoError(t, err)
	assert.Equal(t, "no id here", msg.Text)
	assert.Empty(t, msg.ID)

	msg, _, err = parseMessage([]byte(":N0CALL   :reply{MM}AA"))
	require.NoError(t, err)
	assert.Equal(t, "MM", msg.ID)
}

func TestParseMessageAck(t *testing.T) {
	msg, isAck, err := parseMessage([]byte(":IK2ABC-7 :ack005\r"))
	require.NoError(t, err)
	assert.True(t, isAck)
	assert.Equal(t, packet.Message{Addressee: "IK2ABC-7", ID: "005"}, msg)

	msg, isAck, err = parseMessage([]byte(":IK2ABC-7 :rej7"))
	require.NoError(t, err)
	assert.True(t, isAck)
	assert.True(t, msg.Rejected)

	// "acknowledged" is a normal message, not an ack
	msg, isAck, err = parseMessage([]byte(":IK2ABC-7 :acknowledged"))
	require.NoError(t, err)
	assert.False(t, isAck)
	assert.Equal(t, "acknowledged", msg.Text)
}

func TestParseMessageErrors(t *testing.T) {
	for _, payload := range []string{
		":N0CALL",
		":         :blank addressee",
		":N0CALL   xno separator",
		":N0CALL   :",
	} {
		_, _, err := parseMessage([]byte(payload))
		assert.Error(t, err, payload)
	}
}

func TestRoundTripBuiltMessage(t *testing.T) {
	msg, isAck, err := parseMessage(BuildMessage("n0call", "QSL? 73", 12))
	require.NoError(t, err)
	assert.False(t, isAck)
	assert.Equal(t, packet.Message{Addressee: "N0CALL", Text: "QSL? 73", ID: "012"}, msg)
}

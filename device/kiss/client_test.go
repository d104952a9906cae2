package kiss

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packetchat/ax25"
	"packetchat/config"
	"packetchat/packet"
)

func recvPacket(t *testing.T, ch <-chan *packet.Packet) *packet.Packet {
	t.Helper()
	select {
	case pkt, ok := <-ch:
		require.True(t, ok, "channel closed")
		return pkt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for packet")
		return nil
	}
}

func TestClientReceives(t *testing.T) {
	local, remote := net.Pipe()
	client := NewClient(local)
	defer client.Close()

	packets := make(chan *packet.Packet, 4)
	go client.Start(packets)

	good, err := ax25.EncodeFrame("APZ001", "IK2ABC-7", []string{"WIDE1-1"}, []byte("!4530.00N/00915.00E>hi"))
	require.NoError(t, err)
	wire := append([]byte{FEND, 0x00, 0x01, FEND}, Encode(good)...) // short frame is skipped

	go func() {
		// Split the frame to exercise the carry
		remote.Write(wire[:7])
		remote.Write(wire[7:])
	}()

	pkt := recvPacket(t, packets)
	assert.Equal(t, "IK2ABC-7", pkt.Source)
	assert.Equal(t, packet.TypePosition, pkt.Type)
	assert.InDelta(t, 9.25, pkt.Position.Longitude, 1e-9)

	remote.Close()
	select {
	case _, ok := <-packets:
		assert.False(t, ok, "channel should close at EOF")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestClientSend(t *testing.T) {
	local, remote := net.Pipe()
	client := NewClient(local)

	pkt := &packet.Packet{
		Destination: "APZ001",
		Source:      "IK2ABC-7",
		Path:        []string{"WIDE1-1"},
		Info:        []byte(":N0CALL   :hi"),
	}

	done := make(chan error, 1)
	go func() { done <- client.Send(pkt) }()

	want, err := ax25.EncodeFrame(pkt.Destination, pkt.Source, pkt.Path, pkt.Info)
	require.NoError(t, err)
	got := make([]byte, len(Encode(want)))
	_, err = io.ReadFull(remote, got)
	require.NoError(t, err)
	assert.Equal(t, Encode(want), got)
	require.NoError(t, <-done)

	client.Close()
	assert.ErrorIs(t, client.Send(pkt), ErrClosed)
}

func TestClientSendRejectsBadPacket(t *testing.T) {
	local, _ := net.Pipe()
	client := NewClient(local)
	defer client.Close()

	path := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	err := client.Send(&packet.Packet{Destination: "APZ001", Source: "N0CALL", Path: path})
	assert.ErrorIs(t, err, ax25.ErrTooManyDigipeaters)
}

func TestConnectTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	client, err := Connect(config.InterfaceConfig{Type: "kiss", Device: ln.Addr().String()})
	require.NoError(t, err)
	defer client.Close()

	conn := <-accepted
	conn.Close()
}

func TestConnectErrors(t *testing.T) {
	_, err := Connect(config.InterfaceConfig{Type: "APRSIS"})
	assert.Error(t, err)

	_, err = Connect(config.InterfaceConfig{Type: "KISS", Device: ""})
	assert.Error(t, err)
}

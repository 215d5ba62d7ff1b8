package ipc

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Magic:     ProtocolMagic,
		Version:   ProtocolVersion,
		Type:      MsgStatusRequest,
		RequestID: 42,
		Length:    17,
	}

	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))
	assert.Equal(t, HeaderSize, buf.Len())

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h, *got)
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	h := Header{Magic: 0xdeadbeef, Version: ProtocolVersion}
	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))

	_, err := ReadHeader(&buf)
	assert.ErrorContains(t, err, "invalid magic")
}

func TestReadHeaderRejectsFutureVersion(t *testing.T) {
	h := Header{Magic: ProtocolMagic, Version: ProtocolVersion + 1}
	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))

	_, err := ReadHeader(&buf)
	assert.ErrorContains(t, err, "unsupported protocol version")
}

func TestMessageRoundTrip(t *testing.T) {
	msg, err := Marshal(MsgStatusResponse, 7, StatusResponse{
		Running:    true,
		KeypadOn:   true,
		Brightness: "half",
		Layout:     "m433ia",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, msg.Write(&buf))

	got, err := ReadMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, MsgStatusResponse, got.Header.Type)
	assert.Equal(t, uint32(7), got.Header.RequestID)

	var st StatusResponse
	require.NoError(t, Unmarshal(got, &st))
	assert.True(t, st.KeypadOn)
	assert.Equal(t, "half", st.Brightness)
}

func TestReadMessageRejectsOversizedPayload(t *testing.T) {
	h := Header{
		Magic:   ProtocolMagic,
		Version: ProtocolVersion,
		Length:  maxPayload + 1,
	}
	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))

	_, err := ReadMessage(&buf)
	assert.ErrorContains(t, err, "payload too large")
}

// echoHandler answers pings and serves a canned status.
type echoHandler struct{}

func (echoHandler) HandleMessage(_ context.Context, msg *Message) (*Message, error) {
	switch msg.Header.Type {
	case MsgPing:
		return NewMessage(MsgPong, msg.Header.RequestID, nil), nil
	case MsgStatusRequest:
		return Marshal(MsgStatusResponse, msg.Header.RequestID, StatusResponse{
			Running:  true,
			KeypadOn: true,
			Layout:   "m433ia",
		})
	case MsgSetMode:
		var req SetModeRequest
		if err := Unmarshal(msg, &req); err != nil {
			return nil, err
		}
		if req.Mode != "on" && req.Mode != "off" && req.Mode != "toggle" {
			return nil, fmt.Errorf("unknown mode %q", req.Mode)
		}
		return Marshal(MsgSetModeResp, msg.Header.RequestID, SetModeResponse{KeypadOn: req.Mode != "off"})
	default:
		return nil, fmt.Errorf("unhandled message type %#04x", uint16(msg.Header.Type))
	}
}

func startTestServer(t *testing.T) *Client {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "numpadd.sock")

	srv := NewServer(ServerConfig{SocketPath: socket, Timeout: 2 * time.Second}, echoHandler{})
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	client, err := Dial(socket, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClientServerPing(t *testing.T) {
	client := startTestServer(t)
	require.NoError(t, client.Ping())
}

func TestClientServerStatus(t *testing.T) {
	client := startTestServer(t)

	st, err := client.Status()
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, "m433ia", st.Layout)
}

func TestClientServerSetMode(t *testing.T) {
	client := startTestServer(t)

	on, err := client.SetMode("on")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = client.SetMode("off")
	require.NoError(t, err)
	assert.False(t, on)
}

func TestClientSurfacesHandlerErrors(t *testing.T) {
	client := startTestServer(t)

	_, err := client.SetMode("sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestSequentialRequestsOnOneConnection(t *testing.T) {
	client := startTestServer(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, client.Ping())
	}
	_, err := client.Status()
	require.NoError(t, err)
}

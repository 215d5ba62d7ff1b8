package ipc

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// Client is a connection to the daemon's control socket.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	nextID  atomic.Uint32
}

// Dial connects to the daemon's unix socket.
func Dial(socketPath string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon at %s: %w", socketPath, err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

// Call sends a request and waits for the correlated response.
func (c *Client) Call(msgType MessageType, req any) (*Message, error) {
	id := c.nextID.Add(1)
	msg, err := Marshal(msgType, id, req)
	if err != nil {
		return nil, err
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := msg.Write(c.conn); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	resp, err := ReadMessage(c.conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Header.RequestID != id {
		return nil, fmt.Errorf("response id %d does not match request id %d", resp.Header.RequestID, id)
	}
	if resp.Header.Type == MsgError {
		var e ErrorResponse
		if err := Unmarshal(resp, &e); err != nil {
			return nil, fmt.Errorf("daemon returned an undecodable error: %w", err)
		}
		return nil, fmt.Errorf("daemon: %s", e.Error)
	}
	return resp, nil
}

// Ping checks the daemon is alive.
func (c *Client) Ping() error {
	resp, err := c.Call(MsgPing, nil)
	if err != nil {
		return err
	}
	if resp.Header.Type != MsgPong {
		return fmt.Errorf("unexpected response type %#04x", uint16(resp.Header.Type))
	}
	return nil
}

// Status fetches the daemon's current state.
func (c *Client) Status() (*StatusResponse, error) {
	resp, err := c.Call(MsgStatusRequest, nil)
	if err != nil {
		return nil, err
	}
	var st StatusResponse
	if err := Unmarshal(resp, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// SetMode turns the keypad on or off, or toggles it.
func (c *Client) SetMode(mode string) (bool, error) {
	resp, err := c.Call(MsgSetMode, SetModeRequest{Mode: mode})
	if err != nil {
		return false, err
	}
	var r SetModeResponse
	if err := Unmarshal(resp, &r); err != nil {
		return false, err
	}
	return r.KeypadOn, nil
}

// SetBrightness changes the backlight level.
func (c *Client) SetBrightness(level string) (string, error) {
	resp, err := c.Call(MsgSetBrightness, SetBrightnessRequest{Level: level})
	if err != nil {
		return "", err
	}
	var r SetBrightnessResponse
	if err := Unmarshal(resp, &r); err != nil {
		return "", err
	}
	return r.Level, nil
}

// Shutdown asks the daemon to exit.
func (c *Client) Shutdown() error {
	_, err := c.Call(MsgShutdown, nil)
	return err
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

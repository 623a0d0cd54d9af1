// ABOUTME: WebSocket client for the tone control protocol
// ABOUTME: Connects to a generator, reads its hello and issues requests
package protocol

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultPath is the control endpoint path
	DefaultPath = "/tone"

	replyTimeout = 5 * time.Second
)

// ErrRejected wraps an error message sent back by the generator
var ErrRejected = errors.New("request rejected")

// Client is a request/response connection to one generator
type Client struct {
	conn  *websocket.Conn
	mu    sync.Mutex
	hello ServerHello
}

// Dial connects to addr (host:port) and waits for server/hello
func Dial(addr, path string) (*Client, error) {
	if path == "" {
		path = DefaultPath
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: path}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	c := &Client{conn: conn}

	msg, err := c.read()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read server/hello: %w", err)
	}
	if msg.Type != TypeServerHello {
		conn.Close()
		return nil, fmt.Errorf("expected %s, got %s", TypeServerHello, msg.Type)
	}
	if err := DecodePayload(msg, &c.hello); err != nil {
		conn.Close()
		return nil, err
	}

	log.Printf("Connected to %s (ID: %s)", c.hello.Name, c.hello.ServerID)
	return c, nil
}

// Hello returns the generator's greeting
func (c *Client) Hello() ServerHello {
	return c.hello
}

// Set changes frequency and/or volume and returns the resulting status
func (c *Client) Set(req ToneSet) (ToneStatus, error) {
	return c.request(Message{Type: TypeToneSet, Payload: req})
}

// Status fetches the current status
func (c *Client) Status() (ToneStatus, error) {
	return c.request(Message{Type: TypeStatusRequest, Payload: struct{}{}})
}

func (c *Client) request(msg Message) (ToneStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var st ToneStatus
	if err := c.conn.WriteJSON(msg); err != nil {
		return st, fmt.Errorf("failed to send %s: %w", msg.Type, err)
	}

	reply, err := c.read()
	if err != nil {
		return st, fmt.Errorf("failed to read reply: %w", err)
	}

	switch reply.Type {
	case TypeToneStatus:
		err = DecodePayload(reply, &st)
		return st, err
	case TypeError:
		var e Error
		if err := DecodePayload(reply, &e); err != nil {
			return st, err
		}
		return st, fmt.Errorf("%w: %s", ErrRejected, e.Message)
	default:
		return st, fmt.Errorf("unexpected reply %s", reply.Type)
	}
}

func (c *Client) read() (Message, error) {
	var msg Message
	c.conn.SetReadDeadline(time.Now().Add(replyTimeout))
	defer c.conn.SetReadDeadline(time.Time{})
	err := c.conn.ReadJSON(&msg)
	return msg, err
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

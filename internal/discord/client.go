// Package discord is a minimal client for the chat client's local Rich Presence
// IPC socket: handshake, SET_ACTIVITY and close.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DialFunc opens a connection to the chat client's IPC socket.
type DialFunc func(ctx context.Context) (net.Conn, error)

var snowflakePattern = regexp.MustCompile(`^[0-9]{17,20}$`)

// ValidClientID reports whether id looks like a platform-issued snowflake.
func ValidClientID(id string) bool {
	return snowflakePattern.MatchString(id)
}

// Client holds one IPC session for one application identifier.
type Client struct {
	clientID string
	dial     DialFunc
	pid      int

	mu   sync.Mutex
	conn net.Conn
	user *User
}

// Option configures a Client.
type Option func(*Client)

// WithDialer replaces socket discovery, mostly for tests.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		c.dial = dial
	}
}

// WithPID sets the process ID reported with each activity.
func WithPID(pid int) Option {
	return func(c *Client) {
		c.pid = pid
	}
}

// NewClient creates a disconnected client for the given application identifier.
func NewClient(clientID string, opts ...Option) *Client {
	c := &Client{
		clientID: clientID,
		dial:     DialIPC,
		pid:      os.Getpid(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientID returns the application identifier this client was created with.
func (c *Client) ClientID() string {
	return c.clientID
}

// Connected reports whether a session is open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// User returns the account reported in the READY event, or nil before Connect.
func (c *Client) User() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Connect dials the IPC socket and performs the handshake. It is a no-op when
// already connected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}
	if !ValidClientID(c.clientID) {
		return fmt.Errorf("%w: %q", ErrInvalidClientID, c.clientID)
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}

	user, err := c.handshake(ctx, conn)
	if err != nil {
		conn.Close()
		return err
	}

	c.conn = conn
	c.user = user
	return nil
}

func (c *Client) handshake(ctx context.Context, conn net.Conn) (*User, error) {
	stop := bindContext(ctx, conn)
	defer stop()

	if err := writeFrame(conn, OpHandshake, handshake{V: 1, ClientID: c.clientID}); err != nil {
		return nil, contextError(ctx, err)
	}

	for {
		resp, err := readResponse(conn)
		if err != nil {
			return nil, contextError(ctx, err)
		}
		if resp == nil {
			continue
		}
		switch resp.Evt {
		case "READY":
			return resp.Data.User, nil
		case "ERROR":
			return nil, &Error{Code: resp.Data.Code, Message: resp.Data.Message}
		}
	}
}

// SetActivity replaces the displayed activity. A nil or empty activity clears it.
func (c *Client) SetActivity(ctx context.Context, activity *Activity) error {
	if activity.IsEmpty() {
		activity = nil
	}
	return c.send(ctx, "SET_ACTIVITY", setActivityArgs{PID: c.pid, Activity: activity})
}

// ClearActivity removes the displayed activity.
func (c *Client) ClearActivity(ctx context.Context) error {
	return c.SetActivity(ctx, nil)
}

func (c *Client) send(ctx context.Context, cmd string, args interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	stop := bindContext(ctx, c.conn)
	defer stop()

	nonce := uuid.NewString()
	if err := writeFrame(c.conn, OpFrame, command{Cmd: cmd, Args: args, Nonce: nonce}); err != nil {
		return c.fail(ctx, err)
	}

	for {
		resp, err := readResponse(c.conn)
		if err != nil {
			return c.fail(ctx, err)
		}
		if resp == nil || resp.Nonce != nonce {
			continue
		}
		if resp.Evt == "ERROR" {
			return &Error{Code: resp.Data.Code, Message: resp.Data.Message}
		}
		return nil
	}
}

// fail drops the connection after a transport error or a CLOSE frame.
// Caller must hold c.mu.
func (c *Client) fail(ctx context.Context, err error) error {
	c.conn.Close()
	c.conn = nil
	c.user = nil
	return contextError(ctx, err)
}

// Close sends a CLOSE frame and releases the socket. Safe to call repeatedly.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	_ = writeFrame(c.conn, OpClose, struct{}{})
	err := c.conn.Close()
	c.conn = nil
	c.user = nil
	return err
}

// readResponse reads one frame. PINGs are answered and reported as a nil
// response; a CLOSE frame becomes an *Error with Closed set.
func readResponse(conn net.Conn) (*response, error) {
	op, body, err := readFrame(conn)
	if err != nil {
		return nil, err
	}

	switch op {
	case OpFrame:
		var resp response
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode frame: %w", err)
		}
		return &resp, nil
	case OpPing:
		return nil, writeRawFrame(conn, OpPong, body)
	case OpClose:
		var cp closePayload
		_ = json.Unmarshal(body, &cp)
		return nil, &Error{Code: cp.Code, Message: cp.Message, Closed: true}
	default:
		return nil, nil
	}
}

// bindContext applies the context deadline to conn and interrupts blocked I/O
// when ctx is cancelled. The returned func undoes both.
func bindContext(ctx context.Context, conn net.Conn) func() {
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	} else {
		_ = conn.SetDeadline(time.Time{})
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	return func() {
		stop()
		_ = conn.SetDeadline(time.Time{})
	}
}

// contextError prefers the context's error when I/O failed because of it.
func contextError(ctx context.Context, err error) error {
	var derr *Error
	if errors.As(err, &derr) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

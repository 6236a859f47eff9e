// Package presence owns the Rich Presence session: connecting to the chat
// client, pushing and clearing the two-line status, and releasing the session
// on exit.
package presence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/digirp/digirp/internal/models"
)

// State is the controller's connection state.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// closeClearTimeout bounds the best-effort clear sent while disconnecting.
const closeClearTimeout = time.Second

// Controller holds at most one session. UI commands run on goroutines, so
// every method is safe for concurrent use, though callers issue one at a time.
type Controller struct {
	connector Connector
	clip      bool
	limit     int
	now       func() time.Time

	mu          sync.Mutex
	session     Session
	appID       string
	connectedAt time.Time
	current     models.Presence
	hasPresence bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClipping selects whether over-long lines are clipped (true) or rejected.
func WithClipping(clip bool) Option {
	return func(c *Controller) {
		c.clip = clip
	}
}

// WithClock replaces time.Now for timer stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a disconnected controller.
func NewController(connector Connector, opts ...Option) *Controller {
	c := &Controller{
		connector: connector,
		clip:      true,
		limit:     models.MaxFieldLength,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current connection state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Disconnected
	}
	return Connected
}

// ApplicationID returns the identifier of the live session, or "".
func (c *Controller) ApplicationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appID
}

// AccountName returns the chat account of the live session when known.
func (c *Controller) AccountName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.session.(AccountNamer); ok {
		return n.AccountName()
	}
	return ""
}

// Current returns the payload the chat client last accepted.
func (c *Controller) Current() models.Presence {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Connect opens a session for applicationID. Connecting again with the same
// identifier is a no-op; a different identifier replaces the session. On
// failure the controller stays disconnected.
func (c *Controller) Connect(ctx context.Context, applicationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	applicationID = strings.TrimSpace(applicationID)
	if c.session != nil {
		if c.appID == applicationID {
			return nil
		}
		log.Printf("Switching application %s -> %s", c.appID, applicationID)
		c.releaseLocked()
	}

	if applicationID == "" {
		return fmt.Errorf("%w: empty application ID", ErrConnection)
	}

	session, err := c.connector.Connect(ctx, applicationID)
	if err != nil {
		log.Printf("Connect failed: %v", err)
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	c.session = session
	c.appID = applicationID
	c.connectedAt = c.now()
	c.current = models.Presence{}
	c.hasPresence = false
	log.Printf("Connected to chat client (application %s)", applicationID)
	return nil
}

// SetPresence replaces the displayed status with p and returns what was sent.
// The lines differ from p only when one had to be clipped. Start and End are
// stamped from p.Timer: elapsed counts from connect, remaining ends one
// CountdownDuration from now.
func (c *Controller) SetPresence(ctx context.Context, p models.Presence) (models.Presence, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return models.Presence{}, ErrNotConnected
	}

	if p.Exceeds(c.limit) {
		if !c.clip {
			return models.Presence{}, ErrFieldTooLong
		}
		p, _ = p.Clip(c.limit)
	}
	if p.TooShort(models.MinFieldLength) {
		return models.Presence{}, ErrFieldTooShort
	}
	p = c.stampLocked(p)

	if err := c.session.Update(ctx, p); err != nil {
		return models.Presence{}, c.requestFailedLocked("update", err)
	}

	c.current = p
	c.hasPresence = p.Visible()
	return p, nil
}

func (c *Controller) stampLocked(p models.Presence) models.Presence {
	p.Start, p.End = time.Time{}, time.Time{}
	switch p.Timer {
	case models.TimerElapsed:
		p.Start = c.connectedAt
	case models.TimerRemaining:
		p.End = c.now().Add(models.CountdownDuration)
	}
	return p
}

// ClearPresence removes the displayed status. Clearing when nothing is shown
// does not touch the chat client.
func (c *Controller) ClearPresence(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return ErrNotConnected
	}
	if !c.hasPresence {
		return nil
	}

	if err := c.session.Clear(ctx); err != nil {
		return c.requestFailedLocked("clear", err)
	}

	c.current = models.Presence{}
	c.hasPresence = false
	return nil
}

// Disconnect clears any shown status and closes the session. It is safe to
// call in any state and more than once.
func (c *Controller) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	err := c.releaseLocked()
	log.Printf("Disconnected from chat client")
	return err
}

func (c *Controller) releaseLocked() error {
	if c.hasPresence {
		ctx, cancel := context.WithTimeout(context.Background(), closeClearTimeout)
		if err := c.session.Clear(ctx); err != nil {
			log.Printf("Failed to clear presence before close: %v", err)
		}
		cancel()
	}

	err := c.session.Close()
	c.dropLocked()
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

func (c *Controller) dropLocked() {
	c.session = nil
	c.appID = ""
	c.connectedAt = time.Time{}
	c.current = models.Presence{}
	c.hasPresence = false
}

// requestFailedLocked maps a session error. A remote rejection keeps the
// session unless the chat client closed it; any transport failure drops it.
// An error reply carrying CodeInvalidIdentifier to a live session refers to
// the payload, not the identifier.
func (c *Controller) requestFailedLocked(op string, err error) error {
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		log.Printf("Chat client rejected %s: %v", op, rerr)
		if rerr.Closed {
			_ = c.session.Close()
			c.dropLocked()
		}
		return fmt.Errorf("%w: %w", ErrRemoteRejected, err)
	}

	log.Printf("Presence %s failed, dropping session: %v", op, err)
	_ = c.session.Close()
	c.dropLocked()
	return fmt.Errorf("%w: %s failed: %w", ErrSession, op, err)
}

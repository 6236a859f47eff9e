// Package presencetest provides an in-memory chat client for tests.
package presencetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/digirp/digirp/internal/discord"
	"github.com/digirp/digirp/internal/models"
	"github.com/digirp/digirp/internal/presence"
)

// Chat is a fake chat client. It implements presence.Connector and records
// what it would display.
type Chat struct {
	mu        sync.Mutex
	reachable bool
	rejected  map[string]bool
	failNext  error
	displayed models.Presence
	open      bool
	connects  int
	updates   int
	account   string
}

// NewChat returns a reachable fake chat client.
func NewChat() *Chat {
	return &Chat{
		reachable: true,
		rejected:  map[string]bool{},
		account:   "tester",
	}
}

// SetReachable toggles whether Connect finds a socket.
func (c *Chat) SetReachable(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reachable = ok
}

// Reject makes the handshake for id fail with the invalid-identifier code.
func (c *Chat) Reject(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejected[id] = true
}

// FailNext makes the next Update or Clear return err.
func (c *Chat) FailNext(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = err
}

// Displayed returns the payload currently shown.
func (c *Chat) Displayed() models.Presence {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayed
}

// Open reports whether a session is attached.
func (c *Chat) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Connects returns how many handshakes succeeded.
func (c *Chat) Connects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects
}

// Updates returns how many Update and Clear requests reached the fake.
func (c *Chat) Updates() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates
}

// Connect implements presence.Connector.
func (c *Chat) Connect(ctx context.Context, applicationID string) (presence.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.reachable {
		return nil, discord.ErrNoSocket
	}
	if !discord.ValidClientID(applicationID) {
		return nil, fmt.Errorf("%w: %q", discord.ErrInvalidClientID, applicationID)
	}
	if c.rejected[applicationID] {
		return nil, &presence.RemoteError{Code: presence.CodeInvalidIdentifier, Message: "Invalid Client ID", Closed: true}
	}

	c.open = true
	c.connects++
	return &session{chat: c}, nil
}

type session struct {
	chat *Chat
}

func (s *session) Update(ctx context.Context, p models.Presence) error {
	return s.apply(ctx, p)
}

func (s *session) Clear(ctx context.Context) error {
	return s.apply(ctx, models.Presence{})
}

func (s *session) apply(ctx context.Context, p models.Presence) error {
	c := s.chat
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	c.updates++
	if err := c.failNext; err != nil {
		c.failNext = nil
		return err
	}
	c.displayed = p
	return nil
}

// Close drops the session; the chat client stops showing its presence.
func (s *session) Close() error {
	c := s.chat
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.displayed = models.Presence{}
	return nil
}

func (s *session) AccountName() string {
	c := s.chat
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.account
}

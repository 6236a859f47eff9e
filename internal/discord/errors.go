package discord

import (
	"errors"
	"fmt"
)

// Codes the chat client sends in ERROR events and CLOSE frames.
const (
	CodeUnknown         = 1000
	CodeInvalidClientID = 4000
	CodeInvalidOrigin   = 4001
	CodeRateLimited     = 4002
	CodeTokenRevoked    = 4003
	CodeInvalidVersion  = 4004
	CodeInvalidEncoding = 4005
)

var (
	// ErrNoSocket is returned when no IPC socket answers on this machine.
	ErrNoSocket = errors.New("no chat client IPC socket found")

	// ErrNotConnected is returned by calls made before Connect or after Close.
	ErrNotConnected = errors.New("not connected")

	// ErrInvalidClientID is returned before dialing when the identifier is not a snowflake.
	ErrInvalidClientID = errors.New("invalid client ID")
)

// Error is an error reported by the chat client itself.
type Error struct {
	Code    int
	Message string

	// Closed is set when the chat client closed the connection along with the error.
	Closed bool
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat client error %d", e.Code)
	}
	return fmt.Sprintf("chat client error %d: %s", e.Code, e.Message)
}

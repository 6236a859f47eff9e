package presence

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/digirp/digirp/internal/discord"
	"github.com/digirp/digirp/internal/models"
)

// CodeInvalidIdentifier is the chat client's code for an unknown application ID.
const CodeInvalidIdentifier = discord.CodeInvalidClientID

var (
	// ErrConnection means no chat client could be reached or it refused the identifier at connect time.
	ErrConnection = errors.New("connection error")

	// ErrSession means an operation needed a live session and there was none.
	ErrSession = errors.New("session error")

	// ErrRemoteRejected means the chat client answered a request with an error.
	ErrRemoteRejected = errors.New("rejected by chat client")

	// ErrNotConnected is the ErrSession returned before Connect or after Disconnect.
	ErrNotConnected = fmt.Errorf("%w: not connected", ErrSession)

	// ErrFieldTooLong is returned when clipping is disabled and a line is over the limit.
	ErrFieldTooLong = fmt.Errorf("field longer than %d characters", models.MaxFieldLength)

	// ErrFieldTooShort is returned for a non-empty line the chat client would refuse as too short.
	ErrFieldTooShort = fmt.Errorf("field shorter than %d characters", models.MinFieldLength)
)

// RemoteError carries the code and message the chat client replied with.
type RemoteError struct {
	Code    int
	Message string
	Closed  bool
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("code %d", e.Code)
	}
	return fmt.Sprintf("code %d: %s", e.Code, e.Message)
}

// UserMessage turns a controller error into a sentence fit for a status bar or dialog.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var rerr *RemoteError
	remote := errors.As(err, &rerr)

	switch {
	case errors.Is(err, ErrFieldTooLong):
		return fmt.Sprintf("Details and state are limited to %d characters.", models.MaxFieldLength)

	case errors.Is(err, ErrFieldTooShort):
		return fmt.Sprintf("Details and state need at least %d characters when set.", models.MinFieldLength)

	case errors.Is(err, ErrNotConnected):
		return "Not connected to the chat client. Connect first."

	case remote && rerr.Code == CodeInvalidIdentifier && (rerr.Closed || errors.Is(err, ErrConnection)):
		return "The chat client rejected the application ID. Check it in the developer portal."

	case remote && rerr.Code == CodeInvalidIdentifier:
		return "The chat client rejected the status text. Change details or state and try again."

	case errors.Is(err, ErrConnection) && errors.Is(err, discord.ErrInvalidClientID):
		return "The application ID is malformed. Use the numeric ID from the developer portal."

	case errors.Is(err, ErrConnection) && errors.Is(err, discord.ErrNoSocket):
		return "Chat client not found. Start the desktop app (the browser version cannot be reached) and try again."

	case isTimeout(err):
		return "The chat client did not answer in time."

	case remote:
		return fmt.Sprintf("The chat client rejected the request (code %d).", rerr.Code)

	case errors.Is(err, ErrConnection):
		return "Could not connect to the chat client."

	case errors.Is(err, ErrSession):
		return "Lost the connection to the chat client. Reconnect and try again."
	}
	return err.Error()
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
}

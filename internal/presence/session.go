//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=mocks/mock_session.go -package=mocks
package presence

import (
	"context"

	"github.com/digirp/digirp/internal/models"
)

// Connector opens a presence session with the local chat client.
type Connector interface {
	Connect(ctx context.Context, applicationID string) (Session, error)
}

// Session is one live IPC connection to the chat client.
type Session interface {
	Update(ctx context.Context, p models.Presence) error
	Clear(ctx context.Context) error
	Close() error
}

// AccountNamer is implemented by sessions that know which account they are
// attached to.
type AccountNamer interface {
	AccountName() string
}

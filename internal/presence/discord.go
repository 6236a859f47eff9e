package presence

import (
	"context"
	"errors"
	"time"

	"github.com/digirp/digirp/internal/discord"
	"github.com/digirp/digirp/internal/models"
)

// DiscordConnector opens sessions over the Discord desktop client's IPC socket.
type DiscordConnector struct {
	opts []discord.Option
}

// NewDiscordConnector creates a connector; opts are passed to every client.
func NewDiscordConnector(opts ...discord.Option) *DiscordConnector {
	return &DiscordConnector{opts: opts}
}

// Connect dials the IPC socket and completes the handshake for applicationID.
func (d *DiscordConnector) Connect(ctx context.Context, applicationID string) (Session, error) {
	client := discord.NewClient(applicationID, d.opts...)
	if err := client.Connect(ctx); err != nil {
		return nil, remoteError(err)
	}
	return &discordSession{client: client}, nil
}

type discordSession struct {
	client *discord.Client
}

func (s *discordSession) Update(ctx context.Context, p models.Presence) error {
	return remoteError(s.client.SetActivity(ctx, activity(p)))
}

func activity(p models.Presence) *discord.Activity {
	a := &discord.Activity{
		Details: p.Details,
		State:   p.State,
	}
	if !p.Start.IsZero() || !p.End.IsZero() {
		a.Timestamps = &discord.Timestamps{
			Start: unixMilli(p.Start),
			End:   unixMilli(p.End),
		}
	}
	return a
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func (s *discordSession) Clear(ctx context.Context) error {
	return remoteError(s.client.ClearActivity(ctx))
}

func (s *discordSession) Close() error {
	return s.client.Close()
}

func (s *discordSession) AccountName() string {
	return s.client.User().DisplayName()
}

// remoteError converts the IPC client's error type into RemoteError, keeping
// everything else as is.
func remoteError(err error) error {
	var derr *discord.Error
	if errors.As(err, &derr) {
		return &RemoteError{Code: derr.Code, Message: derr.Message, Closed: derr.Closed}
	}
	return err
}

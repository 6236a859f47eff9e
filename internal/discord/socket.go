package discord

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// maxSocketIndex is the highest N tried for discord-ipc-N.
const maxSocketIndex = 9

// DialIPC connects to the first chat client IPC socket that accepts.
func DialIPC(ctx context.Context) (net.Conn, error) {
	var lastErr error
	for _, path := range socketCandidates() {
		conn, err := dialSocket(ctx, path)
		if err == nil {
			return conn, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err
	}
	if lastErr != nil && !errors.Is(lastErr, ErrNoSocket) {
		return nil, fmt.Errorf("%w: %v", ErrNoSocket, lastErr)
	}
	return nil, ErrNoSocket
}

func socketName(i int) string {
	return fmt.Sprintf("discord-ipc-%d", i)
}

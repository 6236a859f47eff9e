//go:build windows

package discord

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

func socketCandidates() []string {
	paths := make([]string, 0, maxSocketIndex+1)
	for i := 0; i <= maxSocketIndex; i++ {
		paths = append(paths, `\\.\pipe\`+socketName(i))
	}
	return paths
}

func dialSocket(ctx context.Context, path string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, path)
}

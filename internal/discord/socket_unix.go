//go:build !windows

package discord

import (
	"context"
	"net"
	"os"
	"path/filepath"
)

// Sandboxed installs put the socket in a subdirectory of the runtime dir.
var socketSubdirs = []string{
	"",
	"app/com.discordapp.Discord",
	"snap.discord",
	".flatpak/dev.vencord.Vesktop/xdg-run",
}

func socketBaseDirs() []string {
	var dirs []string
	seen := map[string]bool{}
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if dir := os.Getenv(env); dir != "" && !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	if !seen["/tmp"] {
		dirs = append(dirs, "/tmp")
	}
	return dirs
}

func socketCandidates() []string {
	var paths []string
	for _, base := range socketBaseDirs() {
		for _, sub := range socketSubdirs {
			for i := 0; i <= maxSocketIndex; i++ {
				path := filepath.Join(base, sub, socketName(i))
				if _, err := os.Stat(path); err == nil {
					paths = append(paths, path)
				}
			}
		}
	}
	return paths
}

func dialSocket(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}

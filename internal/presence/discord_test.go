package presence_test

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digirp/digirp/internal/discord"
	"github.com/digirp/digirp/internal/models"
	"github.com/digirp/digirp/internal/presence"
)

// ipcServer answers the Discord IPC protocol on one end of a pipe. It refuses
// any activity whose details it is told to reject with an ERROR 4000 reply, as
// the desktop client does for invalid payloads.
type ipcServer struct {
	reject string

	mu         sync.Mutex
	activities []json.RawMessage
}

func (s *ipcServer) dial(ctx context.Context) (net.Conn, error) {
	client, server := net.Pipe()
	go s.serve(server)
	return client, nil
}

func (s *ipcServer) serve(conn net.Conn) {
	defer conn.Close()
	for {
		op, body, err := readIPCFrame(conn)
		if err != nil {
			return
		}
		switch op {
		case uint32(discord.OpHandshake):
			writeIPCFrame(conn, discord.OpFrame, map[string]interface{}{
				"cmd": "DISPATCH", "evt": "READY",
				"data": map[string]interface{}{"user": map[string]string{"username": "tester"}},
			})
		case uint32(discord.OpFrame):
			var cmd struct {
				Cmd   string `json:"cmd"`
				Nonce string `json:"nonce"`
				Args  struct {
					Activity json.RawMessage `json:"activity"`
				} `json:"args"`
			}
			_ = json.Unmarshal(body, &cmd)

			var a discord.Activity
			_ = json.Unmarshal(cmd.Args.Activity, &a)
			if s.reject != "" && a.Details == s.reject {
				writeIPCFrame(conn, discord.OpFrame, map[string]interface{}{
					"cmd": cmd.Cmd, "evt": "ERROR", "nonce": cmd.Nonce,
					"data": map[string]interface{}{"code": 4000, "message": "child \"activity\" fails because [child \"details\" fails because [\"details\" length must be at least 2 characters long]]"},
				})
				continue
			}

			s.mu.Lock()
			s.activities = append(s.activities, cmd.Args.Activity)
			s.mu.Unlock()
			writeIPCFrame(conn, discord.OpFrame, map[string]interface{}{
				"cmd": cmd.Cmd, "nonce": cmd.Nonce, "data": cmd.Args.Activity,
			})
		case uint32(discord.OpClose):
			return
		}
	}
}

func (s *ipcServer) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.activities) == 0 {
		return ""
	}
	return string(s.activities[len(s.activities)-1])
}

func readIPCFrame(r io.Reader) (uint32, []byte, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}
	body := make([]byte, binary.LittleEndian.Uint32(header[4:8]))
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return binary.LittleEndian.Uint32(header[0:4]), body, nil
}

func writeIPCFrame(w io.Writer, op discord.Opcode, v interface{}) {
	body, _ := json.Marshal(v)
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], uint32(op))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(body)))
	_, _ = w.Write(append(header, body...))
}

func discordController(t *testing.T, server *ipcServer, opts ...presence.Option) *presence.Controller {
	t.Helper()
	connector := presence.NewDiscordConnector(discord.WithDialer(server.dial), discord.WithPID(4242))
	c := presence.NewController(connector, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx, appID))
	t.Cleanup(func() { _ = c.Disconnect() })
	return c
}

func TestDiscordPayloadRejectionKeepsSession(t *testing.T) {
	server := &ipcServer{reject: "rejected"}
	c := discordController(t, server)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := c.SetPresence(ctx, models.Presence{Details: "rejected", State: "DigiRP"})
	require.ErrorIs(t, err, presence.ErrRemoteRejected)

	var rerr *presence.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, presence.CodeInvalidIdentifier, rerr.Code)
	assert.False(t, rerr.Closed)
	assert.Contains(t, presence.UserMessage(err), "rejected the status text")
	assert.NotContains(t, presence.UserMessage(err), "application ID")
	assert.Equal(t, presence.Connected, c.State())
	assert.Equal(t, appID, c.ApplicationID())

	_, err = c.SetPresence(ctx, models.Presence{Details: "Coding", State: "DigiRP"})
	require.NoError(t, err, "the same session accepts the next update")
	assert.JSONEq(t, `{"details":"Coding","state":"DigiRP"}`, server.last())
}

func TestDiscordSingleCharacterDetailsNeverSent(t *testing.T) {
	server := &ipcServer{reject: "a"}
	c := discordController(t, server)

	_, err := c.SetPresence(context.Background(), models.Presence{Details: "a"})
	require.ErrorIs(t, err, presence.ErrFieldTooShort)
	assert.Empty(t, server.last())
	assert.Equal(t, presence.Connected, c.State())
}

func TestDiscordElapsedTimerSendsConnectTime(t *testing.T) {
	connectedAt := time.UnixMilli(1767225600000)
	server := &ipcServer{}
	c := discordController(t, server, presence.WithClock(func() time.Time { return connectedAt }))

	_, err := c.SetPresence(context.Background(), models.Presence{Details: "Coding", Timer: models.TimerElapsed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"details":"Coding","timestamps":{"start":1767225600000}}`, server.last())
}

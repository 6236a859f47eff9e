package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "123456789012345678"

// fakeChat plays the chat client side of the IPC socket.
type fakeChat struct {
	mu         sync.Mutex
	handshakes []handshake
	activities []*Activity

	rejectHandshake *closePayload
	rejectActivity  *closePayload
	pingFirst       bool
	silent          bool
}

type receivedCommand struct {
	Cmd   string          `json:"cmd"`
	Nonce string          `json:"nonce"`
	Args  setActivityArgs `json:"args"`
}

func (f *fakeChat) dialer() DialFunc {
	return func(ctx context.Context) (net.Conn, error) {
		client, server := net.Pipe()
		go f.serve(server)
		return client, nil
	}
}

func (f *fakeChat) serve(conn net.Conn) {
	defer conn.Close()
	for {
		op, body, err := readFrame(conn)
		if err != nil {
			return
		}
		switch op {
		case OpHandshake:
			var hs handshake
			_ = json.Unmarshal(body, &hs)
			f.mu.Lock()
			f.handshakes = append(f.handshakes, hs)
			f.mu.Unlock()
			if f.rejectHandshake != nil {
				_ = writeFrame(conn, OpClose, f.rejectHandshake)
				return
			}
			if f.pingFirst {
				_ = writeRawFrame(conn, OpPing, []byte(`{}`))
				if op, _, err := readFrame(conn); err != nil || op != OpPong {
					return
				}
			}
			_ = writeRawFrame(conn, OpFrame, []byte(`{"cmd":"DISPATCH","evt":"READY","data":{"v":1,"user":{"id":"1","username":"tester","global_name":"Tester"}}}`))
		case OpFrame:
			var cmd receivedCommand
			_ = json.Unmarshal(body, &cmd)
			f.mu.Lock()
			f.activities = append(f.activities, cmd.Args.Activity)
			f.mu.Unlock()
			if f.silent {
				continue
			}
			if f.rejectActivity != nil {
				resp, _ := json.Marshal(map[string]interface{}{
					"cmd": cmd.Cmd, "evt": "ERROR", "nonce": cmd.Nonce,
					"data": f.rejectActivity,
				})
				_ = writeRawFrame(conn, OpFrame, resp)
				continue
			}
			// An unrelated event first; the client must skip it.
			_ = writeRawFrame(conn, OpFrame, []byte(`{"cmd":"DISPATCH","evt":"ACTIVITY_JOIN","nonce":null}`))
			resp, _ := json.Marshal(map[string]interface{}{"cmd": cmd.Cmd, "nonce": cmd.Nonce, "data": cmd.Args.Activity})
			_ = writeRawFrame(conn, OpFrame, resp)
		case OpClose:
			return
		}
	}
}

func (f *fakeChat) lastActivity() *Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.activities) == 0 {
		return nil
	}
	return f.activities[len(f.activities)-1]
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, OpHandshake, handshake{V: 1, ClientID: testClientID}))

	raw := buf.Bytes()
	assert.Equal(t, []byte{0, 0, 0, 0}, raw[0:4], "opcode is little-endian uint32")

	op, body, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, OpHandshake, op)
	assert.JSONEq(t, `{"v":1,"client_id":"123456789012345678"}`, string(body))
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	header := []byte{1, 0, 0, 0, 0xff, 0xff, 0xff, 0x7f}
	_, _, err := readFrame(bytes.NewReader(header))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame too large")
}

func TestValidClientID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "18 digits", id: testClientID, want: true},
		{name: "19 digits", id: "1234567890123456789", want: true},
		{name: "too short", id: "12345", want: false},
		{name: "letters", id: "bad-id", want: false},
		{name: "empty", id: "", want: false},
		{name: "spaces", id: " 123456789012345678", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidClientID(tt.id))
		})
	}
}

func TestConnectAndSetActivity(t *testing.T) {
	fake := &fakeChat{}
	c := NewClient(testClientID, WithDialer(fake.dialer()), WithPID(4242))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, c.Connect(ctx))
	assert.True(t, c.Connected())
	assert.Equal(t, "Tester", c.User().DisplayName())

	require.NoError(t, c.SetActivity(ctx, &Activity{Details: "Coding", State: "DigiRP"}))
	assert.Equal(t, &Activity{Details: "Coding", State: "DigiRP"}, fake.lastActivity())

	require.NoError(t, c.ClearActivity(ctx))
	assert.Nil(t, fake.lastActivity())

	require.NoError(t, c.Close())
	assert.False(t, c.Connected())
	require.NoError(t, c.Close(), "second close is a no-op")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.handshakes, 1)
	assert.Equal(t, testClientID, fake.handshakes[0].ClientID)
	assert.Equal(t, 1, fake.handshakes[0].V)
}

func TestSetActivityTimestamps(t *testing.T) {
	fake := &fakeChat{}
	c := NewClient(testClientID, WithDialer(fake.dialer()))
	ctx := context.Background()

	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	a := &Activity{Timestamps: &Timestamps{Start: 1767225600000}}
	assert.False(t, a.IsEmpty(), "a timer alone is displayable")
	require.NoError(t, c.SetActivity(ctx, a))
	assert.Equal(t, a, fake.lastActivity())

	body, err := json.Marshal(&Activity{Details: "Coding", Timestamps: &Timestamps{End: 42}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"details":"Coding","timestamps":{"end":42}}`, string(body))
}

func TestSetActivityEmptyClears(t *testing.T) {
	fake := &fakeChat{}
	c := NewClient(testClientID, WithDialer(fake.dialer()))
	ctx := context.Background()

	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	require.NoError(t, c.SetActivity(ctx, &Activity{}))
	assert.Nil(t, fake.lastActivity())
}

func TestConnectIsIdempotent(t *testing.T) {
	fake := &fakeChat{}
	c := NewClient(testClientID, WithDialer(fake.dialer()))
	ctx := context.Background()

	require.NoError(t, c.Connect(ctx))
	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.handshakes, 1)
}

func TestConnectAnswersPing(t *testing.T) {
	fake := &fakeChat{pingFirst: true}
	c := NewClient(testClientID, WithDialer(fake.dialer()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, c.Connect(ctx))
	c.Close()
}

func TestConnectRejectedClientID(t *testing.T) {
	fake := &fakeChat{rejectHandshake: &closePayload{Code: CodeInvalidClientID, Message: "Invalid Client ID"}}
	c := NewClient(testClientID, WithDialer(fake.dialer()))

	err := c.Connect(context.Background())
	require.Error(t, err)

	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, CodeInvalidClientID, derr.Code)
	assert.True(t, derr.Closed)
	assert.False(t, c.Connected())
}

func TestConnectMalformedIDSkipsDial(t *testing.T) {
	dialed := false
	c := NewClient("bad-id", WithDialer(func(ctx context.Context) (net.Conn, error) {
		dialed = true
		return nil, errors.New("unexpected dial")
	}))

	err := c.Connect(context.Background())
	require.ErrorIs(t, err, ErrInvalidClientID)
	assert.False(t, dialed)
}

func TestConnectDialFailure(t *testing.T) {
	c := NewClient(testClientID, WithDialer(func(ctx context.Context) (net.Conn, error) {
		return nil, ErrNoSocket
	}))

	err := c.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoSocket)
	assert.False(t, c.Connected())
}

func TestSetActivityRemoteError(t *testing.T) {
	fake := &fakeChat{rejectActivity: &closePayload{Code: CodeInvalidClientID, Message: "Invalid Client ID"}}
	c := NewClient(testClientID, WithDialer(fake.dialer()))
	ctx := context.Background()

	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	err := c.SetActivity(ctx, &Activity{Details: "x"})
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, CodeInvalidClientID, derr.Code)
	assert.False(t, derr.Closed)
	assert.True(t, c.Connected(), "an ERROR event leaves the socket open")
}

func TestSetActivityTimeoutDropsConnection(t *testing.T) {
	fake := &fakeChat{silent: true}
	c := NewClient(testClientID, WithDialer(fake.dialer()))

	require.NoError(t, c.Connect(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.SetActivity(ctx, &Activity{Details: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded))
	assert.False(t, c.Connected())
}

func TestSetActivityNotConnected(t *testing.T) {
	c := NewClient(testClientID)
	require.ErrorIs(t, c.SetActivity(context.Background(), &Activity{Details: "x"}), ErrNotConnected)
}

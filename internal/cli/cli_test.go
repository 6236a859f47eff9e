package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digirp/digirp/internal/config"
	"github.com/digirp/digirp/internal/models"
	"github.com/digirp/digirp/internal/presence"
	"github.com/digirp/digirp/internal/presence/presencetest"
)

const testAppID = "123456789012345678"

func withAppIDFlag(t *testing.T, value string) {
	t.Helper()
	old := appIDFlag
	appIDFlag = value
	t.Cleanup(func() { appIDFlag = old })
}

func TestNewAppFlagOverridesSettings(t *testing.T) {
	withAppIDFlag(t, testAppID)
	settings := models.NewSettings()
	settings.ApplicationID = "876543210987654321"

	a, err := newAppWith(settings, presencetest.NewChat())
	require.NoError(t, err)
	assert.Equal(t, testAppID, a.applicationID)
}

func TestNewAppWithoutIdentifier(t *testing.T) {
	withAppIDFlag(t, "")

	_, err := newAppWith(models.NewSettings(), presencetest.NewChat())
	require.ErrorIs(t, err, config.ErrNoApplicationID)
}

func TestPushPresence(t *testing.T) {
	withAppIDFlag(t, testAppID)
	chat := presencetest.NewChat()
	a, err := newAppWith(models.NewSettings(), chat)
	require.NoError(t, err)
	defer a.disconnect()

	var out bytes.Buffer
	p := models.Presence{Details: "Coding", State: "DigiRP"}
	sent, err := pushPresence(context.Background(), a, p, &out)
	require.NoError(t, err)

	assert.Equal(t, p, sent)
	assert.Equal(t, p, chat.Displayed())
	assert.Contains(t, out.String(), "Presence set for tester")
	assert.Contains(t, out.String(), "Details: Coding")
	assert.NotContains(t, out.String(), "clipped")

	a.disconnect()
	assert.Equal(t, models.Presence{}, chat.Displayed())
	assert.False(t, chat.Open())
}

func TestPushPresenceClipped(t *testing.T) {
	withAppIDFlag(t, testAppID)
	chat := presencetest.NewChat()
	a, err := newAppWith(models.NewSettings(), chat)
	require.NoError(t, err)
	defer a.disconnect()

	var out bytes.Buffer
	sent, err := pushPresence(context.Background(), a, models.Presence{Details: strings.Repeat("x", 200)}, &out)
	require.NoError(t, err)
	assert.Len(t, sent.Details, models.MaxFieldLength)
	assert.Contains(t, out.String(), "clipped")
}

func TestPushPresenceRejectsWhenClippingDisabled(t *testing.T) {
	withAppIDFlag(t, testAppID)
	settings := models.NewSettings()
	settings.ClipLongFields = false
	chat := presencetest.NewChat()
	a, err := newAppWith(settings, chat)
	require.NoError(t, err)
	defer a.disconnect()

	var out bytes.Buffer
	_, err = pushPresence(context.Background(), a, models.Presence{Details: strings.Repeat("x", 200)}, &out)
	require.Error(t, err)
	assert.Equal(t, presence.UserMessage(presence.ErrFieldTooLong), err.Error())
	assert.Zero(t, chat.Updates())
	assert.Empty(t, out.String())
}

func TestPushPresenceUnreachable(t *testing.T) {
	withAppIDFlag(t, testAppID)
	chat := presencetest.NewChat()
	chat.SetReachable(false)
	a, err := newAppWith(models.NewSettings(), chat)
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = pushPresence(context.Background(), a, models.Presence{Details: "Coding"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Chat client not found")
	assert.Equal(t, presence.Disconnected, a.controller.State())
}

func TestHoldPresenceClearsWhenInterrupted(t *testing.T) {
	withAppIDFlag(t, testAppID)
	chat := presencetest.NewChat()
	a, err := newAppWith(models.NewSettings(), chat)
	require.NoError(t, err)
	defer a.disconnect()

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- holdPresence(ctx, a, models.Presence{Details: "Coding", Timer: models.TimerElapsed}, &out, true)
	}()

	require.Eventually(t, func() bool {
		return chat.Displayed().Details == "Coding"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, models.TimerElapsed, chat.Displayed().Timer)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("holdPresence did not return after the interrupt")
	}
	assert.Equal(t, models.Presence{}, chat.Displayed())
	assert.Contains(t, out.String(), "Timer:   elapsed since connect")
	assert.Contains(t, out.String(), "Presence cleared.")
}

func TestHoldPresenceInterruptedDuringConnect(t *testing.T) {
	withAppIDFlag(t, testAppID)
	chat := presencetest.NewChat()
	a, err := newAppWith(models.NewSettings(), chat)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err = holdPresence(ctx, a, models.Presence{Details: "Coding"}, &out, true)
	require.Error(t, err)
	assert.Equal(t, presence.Disconnected, a.controller.State())
	assert.Zero(t, chat.Connects())
	assert.NotContains(t, out.String(), "Presence set")
}

func TestHoldPresenceWithoutHoldReturnsAfterPush(t *testing.T) {
	withAppIDFlag(t, testAppID)
	chat := presencetest.NewChat()
	a, err := newAppWith(models.NewSettings(), chat)
	require.NoError(t, err)
	defer a.disconnect()

	var out bytes.Buffer
	require.NoError(t, holdPresence(context.Background(), a, models.Presence{Details: "Coding"}, &out, false))
	assert.Equal(t, "Coding", chat.Displayed().Details)
	assert.NotContains(t, out.String(), "Ctrl+C")
}

func TestApplySetting(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(t *testing.T, s *models.Settings)
		wantErr string
	}{
		{
			name:  "application id",
			key:   "application_id",
			value: " " + testAppID + " ",
			check: func(t *testing.T, s *models.Settings) { assert.Equal(t, testAppID, s.ApplicationID) },
		},
		{
			name:  "unset application id",
			key:   "application_id",
			value: "",
			check: func(t *testing.T, s *models.Settings) { assert.Empty(t, s.ApplicationID) },
		},
		{name: "malformed application id", key: "application_id", value: "abc", wantErr: "invalid application ID"},
		{
			name:  "connect timeout",
			key:   "connect_timeout",
			value: "10s",
			check: func(t *testing.T, s *models.Settings) { assert.Equal(t, 10*time.Second, s.ConnectTimeout) },
		},
		{
			name:  "request timeout",
			key:   "request_timeout",
			value: "750ms",
			check: func(t *testing.T, s *models.Settings) { assert.Equal(t, 750*time.Millisecond, s.RequestTimeout) },
		},
		{name: "bad duration", key: "request_timeout", value: "soon", wantErr: "invalid duration"},
		{name: "negative duration", key: "connect_timeout", value: "-1s", wantErr: "must be positive"},
		{
			name:  "clip long fields",
			key:   "clip_long_fields",
			value: "false",
			check: func(t *testing.T, s *models.Settings) { assert.False(t, s.ClipLongFields) },
		},
		{name: "bad bool", key: "clip_long_fields", value: "maybe", wantErr: "expected true or false"},
		{name: "unknown key", key: "colour", value: "red", wantErr: "unknown setting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewSettings()
			s.ApplicationID = "876543210987654321"

			err := applySetting(s, tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

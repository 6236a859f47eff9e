package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digirp/digirp/internal/models"
)

func receiveSettings(t *testing.T, w *SettingsWatcher) *models.Settings {
	t.Helper()
	select {
	case s := <-w.Updates():
		return s
	case <-time.After(3 * time.Second):
		t.Fatal("no settings reload within 3s")
		return nil
	}
}

func TestWatchSettingsReloadsOnSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".digirp", SettingsFileName)

	w, err := WatchSettings(path)
	require.NoError(t, err)
	defer w.Stop()

	s := models.NewSettings()
	s.ApplicationID = "123456789012345678"
	require.NoError(t, SaveYAML(path, s))

	got := receiveSettings(t, w)
	assert.Equal(t, "123456789012345678", got.ApplicationID)

	s.ApplicationID = "876543210987654321"
	require.NoError(t, SaveYAML(path, s))
	assert.Equal(t, "876543210987654321", receiveSettings(t, w).ApplicationID)
}

func TestWatchSettingsIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SettingsFileName)

	w, err := WatchSettings(path)
	require.NoError(t, err)
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "other.yaml"), "application_id: \"1\"\n")

	select {
	case s := <-w.Updates():
		t.Fatalf("unexpected reload: %+v", s)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchSettingsSkipsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)

	w, err := WatchSettings(path)
	require.NoError(t, err)
	defer w.Stop()

	writeFile(t, path, "application_id: [unterminated\n")
	select {
	case s := <-w.Updates():
		t.Fatalf("invalid file was delivered: %+v", s)
	case <-time.After(300 * time.Millisecond):
	}

	writeFile(t, path, "application_id: \"123456789012345678\"\n")
	assert.Equal(t, "123456789012345678", receiveSettings(t, w).ApplicationID)
}

func TestSettingsWatcherStopIsIdempotent(t *testing.T) {
	w, err := WatchSettings(filepath.Join(t.TempDir(), SettingsFileName))
	require.NoError(t, err)
	w.Stop()
	w.Stop()
}

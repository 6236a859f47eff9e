package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/digirp/digirp/internal/buildinfo"
	"github.com/digirp/digirp/internal/models"
)

// ErrNoApplicationID is returned when no identifier is configured anywhere.
var ErrNoApplicationID = errors.New("no application ID configured")

// LoadSettings loads the global settings from ~/.digirp/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom loads settings from an explicit path.
func LoadSettingsFrom(path string) (*models.Settings, error) {
	s, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	return s, nil
}

// SaveSettings saves the global settings to ~/.digirp/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// ResolveApplicationID picks the identifier to connect with: the flag value,
// then the settings file, then the one compiled into the binary.
func ResolveApplicationID(flagValue string, settings *models.Settings) (string, error) {
	if id := strings.TrimSpace(flagValue); id != "" {
		return id, nil
	}
	if settings != nil {
		if id := strings.TrimSpace(settings.ApplicationID); id != "" {
			return id, nil
		}
	}
	if id := strings.TrimSpace(buildinfo.ApplicationID); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: pass --app-id, run 'digirp settings set application_id <id>', or build with -ldflags", ErrNoApplicationID)
}

package models

import "time"

// Settings represents global application settings.
// This corresponds to ~/.digirp/settings.yaml.
type Settings struct {
	Version int `yaml:"version"`

	// ApplicationID overrides the identifier compiled into the binary.
	ApplicationID string `yaml:"application_id"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ClipLongFields cuts over-long lines instead of rejecting them.
	ClipLongFields bool `yaml:"clip_long_fields"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:        1,
		ApplicationID:  "",
		ConnectTimeout: 3 * time.Second,
		RequestTimeout: 5 * time.Second,
		ClipLongFields: true,
	}
}

// ApplyDefaults fills zero values left by a partial settings file.
func (s *Settings) ApplyDefaults() {
	d := NewSettings()
	if s.Version == 0 {
		s.Version = d.Version
	}
	if s.ConnectTimeout <= 0 {
		s.ConnectTimeout = d.ConnectTimeout
	}
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = d.RequestTimeout
	}
}

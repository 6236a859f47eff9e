// Package config locates and reads the files under ~/.digirp.
package config

import (
	"os"
	"path/filepath"
)

// Layout of the global directory:
//
//	~/.digirp/
//	├── settings.yaml
//	└── logs/
//	    └── digirp.log
const (
	GlobalDirName    = ".digirp"
	LogsDirName      = "logs"
	SettingsFileName = "settings.yaml"
	LogFileName      = "digirp.log"
)

// GlobalDir returns ~/.digirp.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

func globalPath(elem ...string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// GlobalSettingsFile returns ~/.digirp/settings.yaml.
func GlobalSettingsFile() (string, error) {
	return globalPath(SettingsFileName)
}

// GlobalLogsDir returns ~/.digirp/logs.
func GlobalLogsDir() (string, error) {
	return globalPath(LogsDirName)
}

// GlobalLogFile returns the log file written while the TUI owns the terminal.
func GlobalLogFile() (string, error) {
	return globalPath(LogsDirName, LogFileName)
}

// EnsureGlobalLogsDir creates ~/.digirp/logs if needed.
func EnsureGlobalLogsDir() error {
	dir, err := GlobalLogsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

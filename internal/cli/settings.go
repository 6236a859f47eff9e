package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/digirp/digirp/internal/config"
	"github.com/digirp/digirp/internal/discord"
	"github.com/digirp/digirp/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show global settings",
	Long: `Show the settings stored in ~/.digirp/settings.yaml.

Only configuration is stored there. Presence text is never saved.`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting and save it.

Keys:
  application_id     numeric application ID from the developer portal ("" to unset)
  connect_timeout    how long to wait for the chat client to answer the handshake (e.g. 3s)
  request_timeout    how long to wait for a presence update (e.g. 5s)
  clip_long_fields   clip lines over 128 characters instead of rejecting them (true/false)`,
	Example: `  digirp settings set application_id 123456789012345678
  digirp settings set request_timeout 10s`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	path, err := config.GlobalSettingsFile()
	if err != nil {
		return err
	}

	appID := settings.ApplicationID
	if appID == "" {
		appID = styleHint.Render("(built-in)")
	}

	fmt.Println(styleBrand.Render("Settings") + " " + styleHint.Render(path))
	printSetting("application_id", appID)
	printSetting("connect_timeout", settings.ConnectTimeout.String())
	printSetting("request_timeout", settings.RequestTimeout.String())
	printSetting("clip_long_fields", strconv.FormatBool(settings.ClipLongFields))
	return nil
}

func printSetting(key, value string) {
	fmt.Printf("  %s %s\n", styleLabel.Render(fmt.Sprintf("%-17s", key+":")), styleValue.Render(value))
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := applySetting(settings, args[0], args[1]); err != nil {
		return err
	}

	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println(styleSuccess.Render(fmt.Sprintf("Saved %s.", args[0])))
	return nil
}

// applySetting parses value and stores it under key.
func applySetting(s *models.Settings, key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "application_id":
		if value != "" && !discord.ValidClientID(value) {
			return fmt.Errorf("invalid application ID %q: expected the numeric ID from the developer portal", value)
		}
		s.ApplicationID = value

	case "connect_timeout", "request_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
		if key == "connect_timeout" {
			s.ConnectTimeout = d
		} else {
			s.RequestTimeout = d
		}

	case "clip_long_fields":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value %q: expected true or false", value)
		}
		s.ClipLongFields = b

	default:
		return fmt.Errorf("unknown setting: %s", key)
	}

	return nil
}

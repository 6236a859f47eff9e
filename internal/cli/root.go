// Package cli implements the digirp commands.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/digirp/digirp/internal/config"
	"github.com/digirp/digirp/internal/tui"
)

var (
	appIDFlag   string
	verboseFlag bool

	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "digirp",
	Short: "Set a Rich Presence status on the desktop chat client",
	Long: `DigiRP sets the two-line Rich Presence status (details and state) shown
next to your name in the desktop chat client.

Without a subcommand it opens an interactive form. The status stays visible
while digirp is running and disappears when it exits.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              runTUI,
}

// Execute runs the CLI.
func Execute() error {
	defer func() {
		if logFile != nil {
			_ = logFile.Close()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&appIDFlag, "app-id", "", "application ID to publish as (overrides settings)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "write logs to stderr instead of the log file")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(trayCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging sends the standard logger to ~/.digirp/logs/digirp.log, or to
// stderr with --verbose. The TUI owns the terminal, so it always logs to file.
func setupLogging(cmd *cobra.Command, args []string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetPrefix("[digirp] ")

	if verboseFlag && cmd != rootCmd {
		log.SetOutput(os.Stderr)
		return nil
	}

	if err := config.EnsureGlobalLogsDir(); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	path, err := config.GlobalLogFile()
	if err != nil {
		return err
	}
	f, err := tea.LogToFile(path, "[digirp]")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the interactive form needs a terminal; use 'digirp set' from scripts")
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	updates, stop := watchSettings()
	defer stop()

	return tui.Run(tui.Options{
		Controller:      a.controller,
		ApplicationID:   a.applicationID,
		ConnectTimeout:  a.settings.ConnectTimeout,
		RequestTimeout:  a.settings.RequestTimeout,
		AutoConnect:     true,
		AppIDFlag:       appIDFlag,
		SettingsUpdates: updates,
	})
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/digirp/digirp/internal/models"
	"github.com/digirp/digirp/internal/tray"
)

var (
	trayDetails string
	trayState   string
	trayTimer   string
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Keep the presence alive from the system tray",
	Long: `Connect, show the given status and keep the session open behind a system
tray icon. The tray menu shows the current status and offers Reconnect,
Clear presence and Quit.`,
	Args: cobra.NoArgs,
	RunE: runTray,
}

func init() {
	trayCmd.Flags().StringVarP(&trayDetails, "details", "d", "", "first status line")
	trayCmd.Flags().StringVarP(&trayState, "state", "s", "", "second status line")
	trayCmd.Flags().StringVar(&trayTimer, "timer", "none", "timer under the lines: none, elapsed or remaining")
}

func runTray(cmd *cobra.Command, args []string) error {
	timer, err := models.ParseTimer(trayTimer)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	updates, stop := watchSettings()
	defer stop()

	// This blocks until the tray exits; the tray disconnects on exit.
	tray.Run(tray.Options{
		Controller:     a.controller,
		ApplicationID:  a.applicationID,
		ConnectTimeout: a.settings.ConnectTimeout,
		RequestTimeout: a.settings.RequestTimeout,
		Initial: models.Presence{
			Details: strings.TrimSpace(trayDetails),
			State:   strings.TrimSpace(trayState),
			Timer:   timer,
		},
		AppIDFlag:       appIDFlag,
		SettingsUpdates: updates,
	})
	return nil
}

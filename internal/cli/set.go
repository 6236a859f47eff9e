package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/digirp/digirp/internal/models"
)

var (
	setDetails string
	setState   string
	setHold    bool
	setTimer   string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the presence from the command line",
	Long: `Connect to the chat client and show the given details and state lines.

The chat client drops the status as soon as digirp disconnects, so by default
the command keeps the session open until interrupted (Ctrl+C), then clears the
status and exits. Use --hold=false to only check that the update goes through.

--timer elapsed shows the time since digirp connected; --timer remaining shows
a one hour countdown.`,
	Example: `  digirp set --details "Coding" --state "DigiRP"
  digirp set --details "Deep work" --timer elapsed
  digirp set --state "Away" --app-id 123456789012345678`,
	Args: cobra.NoArgs,
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVarP(&setDetails, "details", "d", "", "first status line")
	setCmd.Flags().StringVarP(&setState, "state", "s", "", "second status line")
	setCmd.Flags().BoolVar(&setHold, "hold", true, "keep the session open until interrupted")
	setCmd.Flags().StringVar(&setTimer, "timer", "none", "timer under the lines: none, elapsed or remaining")
}

func runSet(cmd *cobra.Command, args []string) error {
	timer, err := models.ParseTimer(setTimer)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.disconnect()

	// Interrupts during connect or update cancel the request instead of
	// killing the process, so the deferred disconnect still runs.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := models.Presence{
		Details: strings.TrimSpace(setDetails),
		State:   strings.TrimSpace(setState),
		Timer:   timer,
	}
	return holdPresence(ctx, a, p, os.Stdout, setHold)
}

// holdPresence pushes p and, with hold set, keeps it shown until ctx is done,
// then clears it.
func holdPresence(ctx context.Context, a *app, p models.Presence, w io.Writer, hold bool) error {
	if _, err := pushPresence(ctx, a, p, w); err != nil {
		return err
	}
	if !hold {
		return nil
	}

	fmt.Fprintln(w, styleHint.Render("Press Ctrl+C to clear the status and exit."))
	<-ctx.Done()
	log.Printf("Interrupted, clearing presence")
	if err := a.clear(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(w, styleSuccess.Render("Presence cleared."))
	return nil
}

// pushPresence connects and shows p, then prints what the chat client displays.
func pushPresence(ctx context.Context, a *app, p models.Presence, w io.Writer) (models.Presence, error) {
	if err := a.connect(ctx); err != nil {
		return models.Presence{}, err
	}

	sent, err := a.set(ctx, p)
	if err != nil {
		return models.Presence{}, err
	}

	if account := a.controller.AccountName(); account != "" {
		fmt.Fprintf(w, "%s %s\n", styleSuccess.Render("Presence set for"), styleValue.Render(account))
	} else {
		fmt.Fprintln(w, styleSuccess.Render("Presence set"))
	}
	printPresence(w, sent)
	if !sent.SameLines(p) {
		fmt.Fprintln(w, styleWarning.Render(fmt.Sprintf("Lines longer than %d characters were clipped.", models.MaxFieldLength)))
	}
	return sent, nil
}

func printPresence(w io.Writer, p models.Presence) {
	if !p.Visible() {
		fmt.Fprintf(w, "  %s\n", styleHint.Render("(empty status)"))
		return
	}
	if p.Details != "" {
		fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Details:"), styleValue.Render(p.Details))
	}
	if p.State != "" {
		fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("State:  "), styleValue.Render(p.State))
	}
	if p.Timer != models.TimerNone {
		fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Timer:  "), styleValue.Render(p.Timer.Label()))
	}
}

// Package tui implements the interactive presence form.
package tui

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/digirp/digirp/internal/models"
)

// Run shows the form until the user quits. The controller is disconnected on
// every exit path: quit key, interrupt, program error, or SIGHUP.
func Run(opts Options) error {
	defer func() {
		if err := opts.Controller.Disconnect(); err != nil {
			log.Printf("Failed to disconnect: %v", err)
		}
	}()

	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
	)

	done := make(chan struct{})
	defer close(done)

	// Bubbletea handles SIGINT/SIGTERM itself; a closed terminal must also
	// end the program so the deferred disconnect runs.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go quitOnSignal(p, sigCh, done)

	if opts.SettingsUpdates != nil {
		go forwardSettings(p, opts.SettingsUpdates, done)
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	if err != nil {
		log.Printf("TUI exited with error: %v", err)
	}
	return err
}

// quitOnSignal quits p on the first signal. It returns once done is closed.
func quitOnSignal(p *tea.Program, sigCh <-chan os.Signal, done <-chan struct{}) {
	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, quitting", sig)
		p.Quit()
	case <-done:
	}
}

func forwardSettings(p *tea.Program, updates <-chan *models.Settings, done <-chan struct{}) {
	for {
		select {
		case s := <-updates:
			p.Send(SettingsChangedMsg{Settings: s})
		case <-done:
			return
		}
	}
}

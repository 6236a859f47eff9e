package tui

import (
	"os"
	"testing"
	"time"

	"github.com/digirp/digirp/internal/models"
)

func TestBackgroundGoroutinesReturnWhenProgramEnds(t *testing.T) {
	done := make(chan struct{})
	returned := make(chan string, 2)

	go func() {
		quitOnSignal(nil, make(chan os.Signal), done)
		returned <- "signal"
	}()
	go func() {
		forwardSettings(nil, make(chan *models.Settings), done)
		returned <- "settings"
	}()

	close(done)
	for i := 0; i < 2; i++ {
		select {
		case <-returned:
		case <-time.After(time.Second):
			t.Fatal("goroutine still blocked after the program ended")
		}
	}
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/digirp/digirp/internal/models"
)

// Form field indices.
const (
	fieldDetails = 0
	fieldState   = 1
	fieldCount   = 2
)

// PresenceForm holds the details and state inputs.
type PresenceForm struct {
	detailsInput textinput.Model
	stateInput   textinput.Model

	timer models.Timer

	focusIndex int
	width      int
}

// NewPresenceForm creates an empty form with the details field focused.
func NewPresenceForm(width int) *PresenceForm {
	di := textinput.New()
	di.Placeholder = "What are you doing? (optional)"
	di.CharLimit = models.MaxFieldLength
	di.Prompt = "› "

	si := textinput.New()
	si.Placeholder = "Second line (optional)"
	si.CharLimit = models.MaxFieldLength
	si.Prompt = "› "

	pf := &PresenceForm{
		detailsInput: di,
		stateInput:   si,
	}
	pf.SetWidth(width)

	// Focus details first
	pf.detailsInput.Focus()

	return pf
}

// SetWidth resizes the inputs.
func (pf *PresenceForm) SetWidth(width int) {
	pf.width = width
	inputWidth := formWidth(width) - 10
	if inputWidth < 10 {
		inputWidth = 10
	}
	pf.detailsInput.Width = inputWidth
	pf.stateInput.Width = inputWidth
}

// PreFill fills the form, e.g. from command-line flags.
func (pf *PresenceForm) PreFill(p models.Presence) {
	pf.detailsInput.SetValue(p.Details)
	pf.stateInput.SetValue(p.State)
	pf.timer = p.Timer
}

// CycleTimer switches to the next timer mode.
func (pf *PresenceForm) CycleTimer() {
	pf.timer = pf.timer.Next()
}

// Reset empties both fields and focuses details.
func (pf *PresenceForm) Reset() {
	pf.detailsInput.Reset()
	pf.stateInput.Reset()
	pf.timer = models.TimerNone
	pf.blurAll()
	pf.focusIndex = fieldDetails
	pf.focusCurrent()
}

// FocusNext moves to the next field.
func (pf *PresenceForm) FocusNext() {
	pf.blurAll()
	pf.focusIndex = (pf.focusIndex + 1) % fieldCount
	pf.focusCurrent()
}

// FocusPrev moves to the previous field.
func (pf *PresenceForm) FocusPrev() {
	pf.blurAll()
	pf.focusIndex--
	if pf.focusIndex < 0 {
		pf.focusIndex = fieldCount - 1
	}
	pf.focusCurrent()
}

func (pf *PresenceForm) blurAll() {
	pf.detailsInput.Blur()
	pf.stateInput.Blur()
}

func (pf *PresenceForm) focusCurrent() {
	switch pf.focusIndex {
	case fieldDetails:
		pf.detailsInput.Focus()
	case fieldState:
		pf.stateInput.Focus()
	}
}

// Presence returns the current field values with surrounding whitespace trimmed.
func (pf *PresenceForm) Presence() models.Presence {
	return models.Presence{
		Details: strings.TrimSpace(pf.detailsInput.Value()),
		State:   strings.TrimSpace(pf.stateInput.Value()),
		Timer:   pf.timer,
	}
}

// FocusIndex returns the currently focused field index.
func (pf *PresenceForm) FocusIndex() int {
	return pf.focusIndex
}

// FocusedInput returns the focused input for update forwarding.
func (pf *PresenceForm) FocusedInput() *textinput.Model {
	if pf.focusIndex == fieldState {
		return &pf.stateInput
	}
	return &pf.detailsInput
}

// View renders the form.
func (pf *PresenceForm) View() string {
	parts := make([]string, 0, 8)

	label := formLabelStyle.Render("Details")
	parts = append(parts, label, pf.detailsInput.View(), "")

	label = formLabelStyle.Render("State")
	parts = append(parts, label, pf.stateInput.View(), "")

	label = formLabelStyle.Render("Timer")
	parts = append(parts, label+"  "+pf.timer.Label())

	content := strings.Join(parts, "\n")
	return formStyle.Width(formWidth(pf.width)).Render(content)
}

func formWidth(width int) int {
	w := width - 4
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf16"
)

// Line length limits of the chat client, in UTF-16 code units.
const (
	MaxFieldLength = 128
	MinFieldLength = 2
)

// CountdownDuration is how far ahead a TimerRemaining status ends.
const CountdownDuration = time.Hour

// Timer selects the timestamp shown under the status lines.
type Timer string

const (
	TimerNone      Timer = ""
	TimerElapsed   Timer = "elapsed"
	TimerRemaining Timer = "remaining"
)

// ParseTimer accepts "", "none", "elapsed" or "remaining".
func ParseTimer(s string) (Timer, error) {
	switch t := Timer(strings.ToLower(strings.TrimSpace(s))); t {
	case "none", TimerNone:
		return TimerNone, nil
	case TimerElapsed, TimerRemaining:
		return t, nil
	}
	return TimerNone, fmt.Errorf("invalid timer %q: expected none, elapsed or remaining", s)
}

// Next cycles none -> elapsed -> remaining -> none.
func (t Timer) Next() Timer {
	switch t {
	case TimerNone:
		return TimerElapsed
	case TimerElapsed:
		return TimerRemaining
	default:
		return TimerNone
	}
}

// Label is the short name shown in the UI.
func (t Timer) Label() string {
	switch t {
	case TimerElapsed:
		return "elapsed since connect"
	case TimerRemaining:
		return "1 hour countdown"
	default:
		return "off"
	}
}

// Presence is the Rich Presence payload pushed to the chat client.
// An empty line is omitted from the displayed status.
type Presence struct {
	Details string
	State   string
	Timer   Timer

	// Start and End are filled in by the controller from Timer.
	Start time.Time
	End   time.Time
}

// IsEmpty reports whether neither line has visible text.
func (p Presence) IsEmpty() bool {
	return strings.TrimSpace(p.Details) == "" && strings.TrimSpace(p.State) == ""
}

// Visible reports whether the chat client shows anything for p.
func (p Presence) Visible() bool {
	return p.Details != "" || p.State != "" || p.Timer != TimerNone
}

// SameLines reports whether p and q carry the same text.
func (p Presence) SameLines(q Presence) bool {
	return p.Details == q.Details && p.State == q.State
}

// Clip returns a copy with each line cut to at most limit UTF-16 units, and
// whether anything was cut. Surrogate pairs are never split.
func (p Presence) Clip(limit int) (Presence, bool) {
	details, dCut := clipUTF16(p.Details, limit)
	state, sCut := clipUTF16(p.State, limit)
	p.Details, p.State = details, state
	return p, dCut || sCut
}

// Exceeds reports whether either line is longer than limit UTF-16 units.
func (p Presence) Exceeds(limit int) bool {
	return FieldLength(p.Details) > limit || FieldLength(p.State) > limit
}

// TooShort reports whether a non-empty line is shorter than minLen UTF-16 units.
func (p Presence) TooShort(minLen int) bool {
	short := func(s string) bool {
		return s != "" && FieldLength(s) < minLen
	}
	return short(p.Details) || short(p.State)
}

// FieldLength is the length of s as the chat client counts it.
func FieldLength(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

func runeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

func clipUTF16(s string, limit int) (string, bool) {
	if limit < 0 {
		return s, false
	}
	n := 0
	for i, r := range s {
		n += runeUnits(r)
		if n > limit {
			return s[:i], true
		}
	}
	return s, false
}

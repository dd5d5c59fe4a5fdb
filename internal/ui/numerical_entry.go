package ui

import (
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-age-calculator/internal/ui/form"
)

// NumericalEntry is an Entry that only accepts typed digits, up to MaxDigits.
type NumericalEntry struct {
	widget.Entry

	// MaxDigits caps the typed length. Zero means unlimited.
	MaxDigits int
}

// NewNumericalEntry creates an entry for a field of at most maxDigits digits.
func NewNumericalEntry(maxDigits int) *NumericalEntry {
	entry := &NumericalEntry{MaxDigits: maxDigits}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune drops anything but digits and stops accepting once the entry is full.
// Pasted text bypasses this filter; ParseField copes with it at submission.
func (e *NumericalEntry) TypedRune(r rune) {
	if r < '0' || r > '9' {
		return
	}
	if e.MaxDigits > 0 && len([]rune(e.Text)) >= e.MaxDigits {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// Value parses the current text the same way a submission does.
func (e *NumericalEntry) Value() int {
	return form.ParseField(e.Text)
}

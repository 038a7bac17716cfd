// Package display holds the fixed grid of text slots the classifier writes
// its labels into.
package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Faultbox/vector-classifier/pkg/slots"
)

// Board is a fixed number of text slots.
type Board struct {
	texts []string

	active *color.Color
	empty  *color.Color
}

// NewBoard creates a board with n empty slots.
func NewBoard(n int) *Board {
	return &Board{
		texts:  make([]string, n),
		active: color.New(color.FgGreen, color.Bold),
		empty:  color.New(color.FgHiBlack),
	}
}

// SetColor enables or disables colored output for Render.
func (b *Board) SetColor(enabled bool) {
	if enabled {
		b.active.EnableColor()
		b.empty.EnableColor()
		return
	}
	b.active.DisableColor()
	b.empty.DisableColor()
}

// Apply writes the changes to the board. Changes for slots outside the
// board are ignored.
func (b *Board) Apply(changes []slots.Change) {
	for _, c := range changes {
		if c.Slot < 0 || c.Slot >= len(b.texts) {
			continue
		}
		b.texts[c.Slot] = c.Label
	}
}

// Clear blanks every slot.
func (b *Board) Clear() {
	for i := range b.texts {
		b.texts[i] = ""
	}
}

// Len returns the number of slots.
func (b *Board) Len() int { return len(b.texts) }

// Text returns the text shown in slot i.
func (b *Board) Text(i int) string { return b.texts[i] }

// Texts returns a copy of all slot texts.
func (b *Board) Texts() []string {
	out := make([]string, len(b.texts))
	copy(out, b.texts)
	return out
}

// Render writes one line per slot.
func (b *Board) Render(w io.Writer) error {
	for i, text := range b.texts {
		var err error
		if text == "" {
			_, err = b.empty.Fprintf(w, "[%d] -\n", i)
		} else {
			_, err = b.active.Fprintf(w, "[%d] %s\n", i, text)
		}
		if err != nil {
			return fmt.Errorf("render slot %d: %w", i, err)
		}
	}
	return nil
}

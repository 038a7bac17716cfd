package slots

// Change describes a display update for one slot. An empty Label means the
// slot is cleared.
type Change struct {
	Slot  int
	Label string
}

// Cleared reports whether the change blanks the slot.
func (c Change) Cleared() bool { return c.Label == "" }

// Diff returns the slot updates needed to go from prev to next, in
// ascending slot order. Slots whose label is unchanged are omitted.
func Diff(prev, next Assignment, slotCount int) []Change {
	before := Slots(prev, slotCount)
	after := Slots(next, slotCount)

	var changes []Change
	for i := range after {
		if before[i] != after[i] {
			changes = append(changes, Change{Slot: i, Label: after[i]})
		}
	}
	return changes
}

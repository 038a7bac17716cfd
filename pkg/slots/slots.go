// Package slots maps per-frame classification labels onto a fixed number of
// display slots, keeping a label in the same slot for as long as it keeps
// being observed.
package slots

import (
	"fmt"
	"sort"
)

// DefaultCount is the number of text slots on the classifier display.
const DefaultCount = 8

// Assignment maps a label to the slot it occupies.
type Assignment map[string]int

// Allocate computes the assignment for the current frame.
//
// Labels present in both prev and current keep their slot. The remaining
// labels of current take the lowest free slot in insertion order; once the
// slots run out the rest are left unassigned. Labels missing from current
// release their slot, which may be reused by this same call.
//
// Allocate panics if slotCount is not positive or prev is not a valid
// assignment for slotCount. Neither prev nor current is modified.
func Allocate(prev Assignment, current *LabelSet, slotCount int) Assignment {
	if slotCount <= 0 {
		panic(fmt.Sprintf("slots: invalid slot count %d", slotCount))
	}
	if err := prev.Validate(slotCount); err != nil {
		panic("slots: " + err.Error())
	}

	next := make(Assignment, min(current.Len(), slotCount))
	used := make([]bool, slotCount)

	// Retain the slot of every label that is still visible.
	for _, label := range current.Labels() {
		if idx, ok := prev[label]; ok {
			next[label] = idx
			used[idx] = true
		}
	}

	free := 0
	for _, label := range current.Labels() {
		if _, ok := next[label]; ok {
			continue
		}
		for free < slotCount && used[free] {
			free++
		}
		if free == slotCount {
			break
		}
		next[label] = free
		used[free] = true
	}
	return next
}

// Dropped returns the labels of current that have no slot in a, in
// insertion order.
func Dropped(a Assignment, current *LabelSet) []string {
	var out []string
	for _, label := range current.Labels() {
		if _, ok := a[label]; !ok {
			out = append(out, label)
		}
	}
	return out
}

// Validate reports whether a is injective and every slot lies in
// [0, slotCount).
func (a Assignment) Validate(slotCount int) error {
	owner := make(map[int]string, len(a))
	for _, label := range a.sortedLabels() {
		idx := a[label]
		if idx < 0 || idx >= slotCount {
			return fmt.Errorf("label %q has slot %d outside [0,%d)", label, idx, slotCount)
		}
		if other, ok := owner[idx]; ok {
			return fmt.Errorf("labels %q and %q share slot %d", other, label, idx)
		}
		owner[idx] = label
	}
	return nil
}

// Clone returns a copy of a.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func (a Assignment) sortedLabels() []string {
	labels := make([]string, 0, len(a))
	for label := range a {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Slots returns the slot-indexed view of a: the label in each slot, or ""
// for a free slot. Entries outside [0, slotCount) are ignored.
func Slots(a Assignment, slotCount int) []string {
	out := make([]string, slotCount)
	for label, idx := range a {
		if idx >= 0 && idx < slotCount {
			out[idx] = label
		}
	}
	return out
}

package slots

// LabelSet is a set of labels that remembers insertion order.
// The zero value is an empty set ready to use.
type LabelSet struct {
	order []string
	index map[string]struct{}
}

// NewLabelSet returns a set holding labels, duplicates collapsed.
func NewLabelSet(labels ...string) *LabelSet {
	s := &LabelSet{}
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

// Add inserts label. It returns false if the label was already present,
// in which case its position is unchanged.
func (s *LabelSet) Add(label string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[label]; ok {
		return false
	}
	s.index[label] = struct{}{}
	s.order = append(s.order, label)
	return true
}

// Contains reports whether label is in the set.
func (s *LabelSet) Contains(label string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[label]
	return ok
}

// Len returns the number of labels.
func (s *LabelSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Labels returns the labels in insertion order. The slice must not be
// modified.
func (s *LabelSet) Labels() []string {
	if s == nil {
		return nil
	}
	return s.order
}

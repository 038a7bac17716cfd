// Package classify reduces the output of classifier stages for one frame
// to the labels shown on the display and the localization overlay.
package classify

import (
	"fmt"

	"github.com/Faultbox/vector-classifier/pkg/slots"
)

// Kind identifies what a processing stage produces.
type Kind int

const (
	// Categorization stages rank labels for the whole frame.
	Categorization Kind = iota
	// Localization stages score each cell of a grid laid over the frame.
	Localization
)

// String returns the lowercase name used in session files.
func (k Kind) String() string {
	switch k {
	case Categorization:
		return "categorization"
	case Localization:
		return "localization"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "categorization":
		return Categorization, nil
	case "localization":
		return Localization, nil
	}
	return 0, fmt.Errorf("unknown stage kind %q", s)
}

// Classification is one label with the probability a stage gave it.
type Classification struct {
	Label       string
	Probability float64
}

// StageResult is the output of one stage for one frame. Categorizers fill
// a single row ordered by rank; localizers fill rows x cols cells.
type StageResult struct {
	Stage string
	Kind  Kind
	Grid  [][]Classification
}

// Thresholds control which classifications reach the display.
type Thresholds struct {
	Label    float64 // minimum probability when a stage reports several labels
	TopLabel float64 // minimum probability when a stage reports a single label
	Cell     float64 // minimum probability for a localization cell to be drawn
}

// DefaultThresholds returns the thresholds used by the classifier demo.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Label:    0.05,
		TopLabel: 0.5,
		Cell:     0.25,
	}
}

// Labels collects the labels to display from the categorization results,
// in stage order then rank order. A stage reporting several labels
// contributes every label at or above th.Label. A stage reporting a single
// label contributes it when it reaches th.TopLabel; the classifier demo
// this replaces showed nothing for such stages. Empty labels are skipped.
func Labels(results []StageResult, th Thresholds) *slots.LabelSet {
	set := slots.NewLabelSet()
	for _, r := range results {
		if r.Kind != Categorization {
			continue
		}
		cats := flatten(r.Grid)
		switch {
		case len(cats) > 1:
			for _, c := range cats {
				if c.Label != "" && c.Probability >= th.Label {
					set.Add(c.Label)
				}
			}
		case len(cats) == 1:
			if cats[0].Label != "" && cats[0].Probability >= th.TopLabel {
				set.Add(cats[0].Label)
			}
		}
	}
	return set
}

// LocalizationGrid returns the grid of the last localization stage, or nil
// if no stage localized.
func LocalizationGrid(results []StageResult) [][]Classification {
	var grid [][]Classification
	for _, r := range results {
		if r.Kind == Localization {
			grid = r.Grid
		}
	}
	return grid
}

func flatten(grid [][]Classification) []Classification {
	if len(grid) == 1 {
		return grid[0]
	}
	var out []Classification
	for _, row := range grid {
		out = append(out, row...)
	}
	return out
}

// Package frame runs the per-frame classifier pipeline: stage results in,
// slot assignment and display updates out.
package frame

import (
	"go.uber.org/zap"

	"github.com/Faultbox/vector-classifier/internal/classify"
	"github.com/Faultbox/vector-classifier/internal/display"
	"github.com/Faultbox/vector-classifier/pkg/slots"
)

// Frame is the classifier output for one captured image.
type Frame struct {
	Seq     int
	Width   int
	Height  int
	Results []classify.StageResult
}

// Update describes what changed on the display for one frame.
type Update struct {
	Seq        int
	Assignment slots.Assignment
	Changes    []slots.Change
	Dropped    []string
	Overlay    []classify.Cell
}

// Processor carries the slot assignment from one frame to the next.
// It is not safe for concurrent use.
type Processor struct {
	thresholds classify.Thresholds
	board      *display.Board
	prev       slots.Assignment
	log        *zap.Logger
}

// NewProcessor creates a processor writing into board. The board's slot
// count is the allocator's slot count.
func NewProcessor(board *display.Board, th classify.Thresholds, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		thresholds: th,
		board:      board,
		prev:       slots.Assignment{},
		log:        log,
	}
}

// Process handles one frame and updates the board.
func (p *Processor) Process(f Frame) Update {
	labels := classify.Labels(f.Results, p.thresholds)
	next := slots.Allocate(p.prev, labels, p.board.Len())
	changes := slots.Diff(p.prev, next, p.board.Len())
	p.board.Apply(changes)

	u := Update{
		Seq:        f.Seq,
		Assignment: next,
		Changes:    changes,
		Dropped:    slots.Dropped(next, labels),
	}
	if grid := classify.LocalizationGrid(f.Results); grid != nil {
		u.Overlay = classify.Overlay(grid, f.Width, f.Height, p.thresholds.Cell)
	}

	if len(u.Dropped) > 0 {
		p.log.Debug("labels dropped, no free slot",
			zap.Int("frame", f.Seq),
			zap.Strings("labels", u.Dropped))
	}
	if len(changes) > 0 {
		p.log.Debug("slots changed",
			zap.Int("frame", f.Seq),
			zap.Int("changes", len(changes)),
			zap.Int("labels", len(next)))
	}

	p.prev = next
	return u
}

// Assignment returns the assignment produced by the last Process call.
func (p *Processor) Assignment() slots.Assignment {
	return p.prev.Clone()
}

// Reset forgets the previous assignment and blanks the board.
func (p *Processor) Reset() {
	p.prev = slots.Assignment{}
	p.board.Clear()
}

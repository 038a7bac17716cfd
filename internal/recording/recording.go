// Package recording loads recorded classifier sessions and replays them as
// a frame source.
package recording

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/vector-classifier/internal/classify"
	"github.com/Faultbox/vector-classifier/internal/frame"
)

// ErrInvalidSession is returned when a session file is malformed.
var ErrInvalidSession = errors.New("invalid session")

// Session is a recorded sequence of classifier outputs.
type Session struct {
	FrameWidth  int          `yaml:"frame_width"`
	FrameHeight int          `yaml:"frame_height"`
	Frames      []FrameEntry `yaml:"frames"`
}

// FrameEntry is the output of every stage for one frame.
type FrameEntry struct {
	Stages []StageEntry `yaml:"stages"`
}

// StageEntry is the output of one stage. Categorizers list Classes,
// localizers fill Grid with per-cell probabilities.
type StageEntry struct {
	Name    string       `yaml:"name"`
	Kind    string       `yaml:"kind"`
	Label   string       `yaml:"label,omitempty"` // label of localization cells
	Classes []ClassEntry `yaml:"classes,omitempty"`
	Grid    [][]float64  `yaml:"grid,omitempty"`
}

// ClassEntry is one ranked classification.
type ClassEntry struct {
	Label       string  `yaml:"label"`
	Probability float64 `yaml:"p"`
}

// Load reads and validates a session file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a session.
func Parse(data []byte) (*Session, error) {
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Session) validate() error {
	if s.FrameWidth < 0 || s.FrameHeight < 0 {
		return fmt.Errorf("%w: negative frame size %dx%d", ErrInvalidSession, s.FrameWidth, s.FrameHeight)
	}
	for i, f := range s.Frames {
		for _, st := range f.Stages {
			kind, err := classify.ParseKind(st.Kind)
			if err != nil {
				return fmt.Errorf("%w: frame %d stage %q: %v", ErrInvalidSession, i, st.Name, err)
			}
			for _, c := range st.Classes {
				if c.Label == "" {
					return fmt.Errorf("%w: frame %d stage %q: class with empty label", ErrInvalidSession, i, st.Name)
				}
				if c.Probability < 0 || c.Probability > 1 {
					return fmt.Errorf("%w: frame %d stage %q: probability %v out of range", ErrInvalidSession, i, st.Name, c.Probability)
				}
			}
			for y, cells := range st.Grid {
				for x, p := range cells {
					if p < 0 || p > 1 {
						return fmt.Errorf("%w: frame %d stage %q: cell (%d,%d) probability %v out of range", ErrInvalidSession, i, st.Name, y, x, p)
					}
				}
			}
			if kind == classify.Categorization && len(st.Grid) > 0 {
				return fmt.Errorf("%w: frame %d stage %q: categorization stage has a grid", ErrInvalidSession, i, st.Name)
			}
		}
	}
	return nil
}

// StageNames returns the distinct stage names in order of first
// appearance.
func (s *Session) StageNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range s.Frames {
		for _, st := range f.Stages {
			if !seen[st.Name] {
				seen[st.Name] = true
				names = append(names, st.Name)
			}
		}
	}
	return names
}

// UnknownStages returns the names that no frame of the session uses.
func (s *Session) UnknownStages(names []string) []string {
	known := make(map[string]bool)
	for _, name := range s.StageNames() {
		known[name] = true
	}
	var unknown []string
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// Replay returns a source over the session frames. If stages is non-empty
// only the named stages are replayed.
func (s *Session) Replay(stages ...string) *Replay {
	var keep map[string]bool
	if len(stages) > 0 {
		keep = make(map[string]bool, len(stages))
		for _, name := range stages {
			keep[name] = true
		}
	}
	return &Replay{session: s, keep: keep}
}

// Replay plays back a session. It implements frame.Source and
// frame.Rewinder.
type Replay struct {
	session *Session
	keep    map[string]bool
	pos     int
}

// Next returns the next recorded frame, or io.EOF.
func (r *Replay) Next(ctx context.Context) (frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return frame.Frame{}, err
	}
	if r.pos >= len(r.session.Frames) {
		return frame.Frame{}, io.EOF
	}
	entry := r.session.Frames[r.pos]
	r.pos++

	f := frame.Frame{
		Seq:    r.pos,
		Width:  r.session.FrameWidth,
		Height: r.session.FrameHeight,
	}
	for _, st := range entry.Stages {
		if r.keep != nil && !r.keep[st.Name] {
			continue
		}
		f.Results = append(f.Results, st.result())
	}
	return f, nil
}

// Rewind restarts playback from the first frame.
func (r *Replay) Rewind() { r.pos = 0 }

func (st StageEntry) result() classify.StageResult {
	kind, _ := classify.ParseKind(st.Kind)
	res := classify.StageResult{Stage: st.Name, Kind: kind}

	if kind == classify.Categorization {
		row := make([]classify.Classification, len(st.Classes))
		for i, c := range st.Classes {
			row[i] = classify.Classification{Label: c.Label, Probability: c.Probability}
		}
		res.Grid = [][]classify.Classification{row}
		return res
	}

	res.Grid = make([][]classify.Classification, len(st.Grid))
	for y, cells := range st.Grid {
		res.Grid[y] = make([]classify.Classification, len(cells))
		for x, p := range cells {
			res.Grid[y][x] = classify.Classification{Label: st.Label, Probability: p}
		}
	}
	return res
}

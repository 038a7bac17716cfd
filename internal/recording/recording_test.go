package recording

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/vector-classifier/internal/classify"
	"github.com/Faultbox/vector-classifier/internal/display"
	"github.com/Faultbox/vector-classifier/internal/frame"
)

const sessionYAML = `
frame_width: 120
frame_height: 60
frames:
  - stages:
      - name: mobilenet_v1_0
        kind: categorization
        classes:
          - {label: spatula, p: 0.8}
          - {label: mug, p: 0.1}
      - name: dfp
        kind: localization
        label: person
        grid:
          - [0.1, 0.9]
  - stages:
      - name: hand
        kind: categorization
        classes:
          - {label: hand, p: 0.7}
`

func TestParseAndReplay(t *testing.T) {
	s, err := Parse([]byte(sessionYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if diff := cmp.Diff([]string{"mobilenet_v1_0", "dfp", "hand"}, s.StageNames()); diff != "" {
		t.Errorf("StageNames mismatch (-want +got):\n%s", diff)
	}

	r := s.Replay()
	ctx := context.Background()

	f, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	want := frame.Frame{
		Seq:    1,
		Width:  120,
		Height: 60,
		Results: []classify.StageResult{
			{
				Stage: "mobilenet_v1_0",
				Kind:  classify.Categorization,
				Grid: [][]classify.Classification{{
					{Label: "spatula", Probability: 0.8},
					{Label: "mug", Probability: 0.1},
				}},
			},
			{
				Stage: "dfp",
				Kind:  classify.Localization,
				Grid: [][]classify.Classification{{
					{Label: "person", Probability: 0.1},
					{Label: "person", Probability: 0.9},
				}},
			},
		},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("frame 1 mismatch (-want +got):\n%s", diff)
	}

	if f, err = r.Next(ctx); err != nil || f.Seq != 2 {
		t.Fatalf("frame 2: seq %d, err %v", f.Seq, err)
	}
	if _, err = r.Next(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}

	r.Rewind()
	if f, err = r.Next(ctx); err != nil || f.Seq != 1 {
		t.Fatalf("after rewind: seq %d, err %v", f.Seq, err)
	}
}

func TestReplayStageFilter(t *testing.T) {
	s, err := Parse([]byte(sessionYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	r := s.Replay("hand")
	f, err := r.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(f.Results) != 0 {
		t.Errorf("frame 1 should have no results, got %d", len(f.Results))
	}

	f, err = r.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(f.Results) != 1 || f.Results[0].Stage != "hand" {
		t.Errorf("frame 2 results = %+v, want only hand", f.Results)
	}
}

func TestUnknownStages(t *testing.T) {
	s, err := Parse([]byte(sessionYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := s.UnknownStages([]string{"hand", "mobilnet_v1_0", "dfp", "face"})
	if diff := cmp.Diff([]string{"mobilnet_v1_0", "face"}, got); diff != "" {
		t.Errorf("UnknownStages mismatch (-want +got):\n%s", diff)
	}
	if got := s.UnknownStages(nil); got != nil {
		t.Errorf("expected no unknown stages, got %v", got)
	}
}

func TestReplayCancelled(t *testing.T) {
	s, err := Parse([]byte(sessionYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Replay().Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "frames: [\n"},
		{"unknown kind", "frames:\n  - stages:\n      - {name: x, kind: segmentation}\n"},
		{"probability out of range", "frames:\n  - stages:\n      - name: x\n        kind: categorization\n        classes: [{label: a, p: 1.5}]\n"},
		{"categorization with grid", "frames:\n  - stages:\n      - name: x\n        kind: categorization\n        grid: [[0.5]]\n"},
		{"negative size", "frame_width: -1\n"},
		{"empty class label", "frames:\n  - stages:\n      - name: x\n        kind: categorization\n        classes: [{label: '', p: 0.9}, {label: cat, p: 0.8}]\n"},
		{"cell probability above one", "frames:\n  - stages:\n      - name: x\n        kind: localization\n        grid: [[0.2, 1.4]]\n"},
		{"negative cell probability", "frames:\n  - stages:\n      - name: x\n        kind: localization\n        grid: [[-0.1]]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidSession) {
				t.Errorf("expected ErrInvalidSession, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte(sessionYAML), 0644); err != nil {
		t.Fatalf("failed to write session: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Frames) != 2 {
		t.Errorf("expected 2 frames, got %d", len(s.Frames))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReplayDrivesProcessor(t *testing.T) {
	s, err := Parse([]byte(sessionYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	board := display.NewBoard(3)
	p := frame.NewProcessor(board, classify.DefaultThresholds(), nil)
	var last frame.Update
	r := frame.NewRunner(s.Replay(), p, frame.RunnerConfig{
		OnUpdate: func(u frame.Update) error {
			last = u
			return nil
		},
	}, nil)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if last.Seq != 2 {
		t.Errorf("last frame = %d, want 2", last.Seq)
	}
	if diff := cmp.Diff([]string{"hand", "", ""}, board.Texts()); diff != "" {
		t.Errorf("board mismatch (-want +got):\n%s", diff)
	}
}

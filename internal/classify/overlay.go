package classify

import (
	"image"
	"math"
)

// Cell is one highlighted localization cell, in frame pixel coordinates.
type Cell struct {
	Row, Col  int
	Rect      image.Rectangle
	Intensity uint8
}

// Overlay returns the cells of grid whose probability reaches threshold,
// scaled onto a width x height frame. Rows may have different lengths;
// each row is divided by its own cell count.
func Overlay(grid [][]Classification, width, height int, threshold float64) []Cell {
	rows := len(grid)
	if rows == 0 || width <= 0 || height <= 0 {
		return nil
	}

	var cells []Cell
	for y, row := range grid {
		cols := len(row)
		for x, c := range row {
			if c.Probability < threshold {
				continue
			}
			x0 := x * width / cols
			y0 := y * height / rows
			cells = append(cells, Cell{
				Row:       y,
				Col:       x,
				Rect:      image.Rect(x0, y0, x0+width/cols, y0+height/rows),
				Intensity: intensity(c.Probability),
			})
		}
	}
	return cells
}

func intensity(p float64) uint8 {
	v := math.Round(255 * p)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

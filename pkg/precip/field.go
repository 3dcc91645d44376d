// Package precip provides the precipitation field consumed by the radar
// detection-range model: a 2D scalar grid of rain rates (mm/h) keyed by
// world position, plus a synthetic field generator for scenarios that do
// not supply measured data.
package precip

import (
	"fmt"
)

// Field is a uniform 2D grid of rain rates in mm/h.
//
// World coordinates (km) map to field space through the grid origin and
// resolution. Samples between cell centers are bilinearly interpolated;
// samples outside the grid clamp to the nearest edge cell.
type Field struct {
	// cells[row][col] is the rain rate at grid cell (col, row), mm/h.
	cells [][]float64

	// originX, originY is the world position (km) of cell (0, 0).
	originX float64
	originY float64

	// cellsPerKm is the grid resolution.
	cellsPerKm float64

	// maxRate caps every sampled value, mm/h.
	maxRate float64
}

// NewField wraps a rain-rate grid in a sampler.
// cells must be rectangular and non-empty; rates above maxRate are
// clamped at sample time rather than rewritten.
func NewField(cells [][]float64, originX, originY, cellsPerKm, maxRate float64) (*Field, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, fmt.Errorf("precip: empty grid")
	}
	width := len(cells[0])
	for i, row := range cells {
		if len(row) != width {
			return nil, fmt.Errorf("precip: ragged grid at row %d (%d cells, expected %d)", i, len(row), width)
		}
	}
	if cellsPerKm <= 0 {
		return nil, fmt.Errorf("precip: invalid resolution %v cells/km", cellsPerKm)
	}
	if maxRate <= 0 {
		return nil, fmt.Errorf("precip: invalid rain-rate cap %v mm/h", maxRate)
	}

	return &Field{
		cells:      cells,
		originX:    originX,
		originY:    originY,
		cellsPerKm: cellsPerKm,
		maxRate:    maxRate,
	}, nil
}

// Sample returns the rain rate in mm/h at a world position (km),
// bilinearly interpolated and clamped to [0, cap].
func (f *Field) Sample(worldX, worldY float64) float64 {
	// World -> field space.
	fx := (worldX - f.originX) * f.cellsPerKm
	fy := (worldY - f.originY) * f.cellsPerKm

	cols := len(f.cells[0])
	rows := len(f.cells)

	fx = clamp(fx, 0, float64(cols-1))
	fy = clamp(fy, 0, float64(rows-1))

	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > cols-1 {
		x1 = cols - 1
	}
	if y1 > rows-1 {
		y1 = rows - 1
	}

	tx := fx - float64(x0)
	ty := fy - float64(y0)

	top := f.cells[y0][x0] + (f.cells[y0][x1]-f.cells[y0][x0])*tx
	bottom := f.cells[y1][x0] + (f.cells[y1][x1]-f.cells[y1][x0])*tx
	rate := top + (bottom-top)*ty

	return clamp(rate, 0, f.maxRate)
}

// CellSizeKm returns the world-space size of one grid cell in km.
// The radar ray-march uses this as its range increment.
func (f *Field) CellSizeKm() float64 {
	return 1.0 / f.cellsPerKm
}

// MaxRate returns the rain-rate cap in mm/h.
func (f *Field) MaxRate() float64 {
	return f.maxRate
}

// Bounds returns the world-space extent of the grid in km.
func (f *Field) Bounds() (minX, minY, maxX, maxY float64) {
	return f.originX, f.originY,
		f.originX + float64(len(f.cells[0])-1)/f.cellsPerKm,
		f.originY + float64(len(f.cells)-1)/f.cellsPerKm
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

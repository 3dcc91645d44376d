package precip

import (
	"math"
	"math/rand"
)

// GeneratorConfig controls synthetic rain-field generation.
type GeneratorConfig struct {
	// WidthKm, HeightKm set the world-space extent of the field.
	WidthKm  float64
	HeightKm float64

	// OriginX, OriginY place the field's lower-left corner in world km.
	OriginX float64
	OriginY float64

	// CellsPerKm is the grid resolution.
	CellsPerKm float64

	// MaxRate caps the rain rate, mm/h.
	MaxRate float64

	// NumCells is how many rain cells to synthesize.
	NumCells int

	// Seed makes the generated field reproducible.
	Seed int64
}

// Generate synthesizes a rain field from gaussian-kernel rain cells.
//
// Each cell gets a random center, peak rate and radius; the kernels are
// summed, smoothed with a single box-blur pass and capped. The result is
// deterministic for a given config.
func Generate(cfg GeneratorConfig) (*Field, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	cols := int(cfg.WidthKm*cfg.CellsPerKm) + 1
	rows := int(cfg.HeightKm*cfg.CellsPerKm) + 1
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}

	grid := make([][]float64, rows)
	for y := range grid {
		grid[y] = make([]float64, cols)
	}

	for c := 0; c < cfg.NumCells; c++ {
		cx := rng.Float64() * float64(cols-1)
		cy := rng.Float64() * float64(rows-1)
		peak := (0.3 + 0.7*rng.Float64()) * cfg.MaxRate
		// Radius between 5% and 20% of the smaller field dimension.
		minDim := math.Min(float64(cols), float64(rows))
		sigma := (0.05 + 0.15*rng.Float64()) * minDim

		// Only touch cells within 3 sigma of the center.
		reach := int(3*sigma) + 1
		x0, x1 := maxInt(0, int(cx)-reach), minInt(cols-1, int(cx)+reach)
		y0, y1 := maxInt(0, int(cy)-reach), minInt(rows-1, int(cy)+reach)

		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				dx := float64(x) - cx
				dy := float64(y) - cy
				grid[y][x] += peak * math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
			}
		}
	}

	blurred := boxBlur(grid)
	for y := range blurred {
		for x := range blurred[y] {
			if blurred[y][x] > cfg.MaxRate {
				blurred[y][x] = cfg.MaxRate
			}
		}
	}

	return NewField(blurred, cfg.OriginX, cfg.OriginY, cfg.CellsPerKm, cfg.MaxRate)
}

// boxBlur applies one 3x3 mean-filter pass, clamping the kernel at edges.
func boxBlur(grid [][]float64) [][]float64 {
	rows := len(grid)
	cols := len(grid[0])
	out := make([][]float64, rows)

	for y := 0; y < rows; y++ {
		out[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			sum := 0.0
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= rows || nx < 0 || nx >= cols {
						continue
					}
					sum += grid[ny][nx]
					n++
				}
			}
			out[y][x] = sum / float64(n)
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package sipm

import "math"

// isInSensor reports whether a cell coordinate lies on the grid. The
// original C++ revision used `r*c > 0`, which wrongly rejects legitimate
// hits on row 0 or column 0; this predicate checks each axis independently.
func isInSensor(r, c, nSideCells int32) bool {
	return r >= 0 && r < nSideCells && c >= 0 && c < nSideCells
}

// hitCell returns a (row, col) cell coordinate under the sensor's
// configured spatial distribution. The Circle and Gaussian mappings clamp
// their coordinates into [0, nSideCells-1] (see clampCoord), so every
// returned cell lies on the grid.
func hitCell(p SensorProperties, rng PRNG) (int32, int32) {
	m := int32(p.NSideCells)
	switch p.HitDistribution {
	case Circle:
		return hitCellCircle(m, rng)
	case Gaussian:
		return hitCellGaussian(m, rng)
	default:
		return hitCellUniform(m, rng)
	}
}

func hitCellUniform(m int32, rng PRNG) (int32, int32) {
	return rng.Integer(m - 1), rng.Integer(m - 1)
}

func hitCellCircle(m int32, rng PRNG) (int32, int32) {
	for {
		var x, y float64
		if rng.Uniform() < 0.95 {
			for {
				x = rng.Uniform()*2 - 1
				y = rng.Uniform()*2 - 1
				if x*x+y*y <= 1 {
					break
				}
			}
		} else {
			for {
				x = rng.Uniform()*2 - 1
				y = rng.Uniform()*2 - 1
				if x*x+y*y >= 1 {
					break
				}
			}
		}
		row := int32((x + 1) * float64(m) / 2)
		col := int32((y + 1) * float64(m) / 2)
		row = clampCoord(row, m)
		col = clampCoord(col, m)
		if isInSensor(row, col, m) {
			return row, col
		}
	}
}

func hitCellGaussian(m int32, rng PRNG) (int32, int32) {
	x := rng.Gaussian(0, 1)
	y := rng.Gaussian(0, 1)
	if math.Abs(x) < 3 && math.Abs(y) < 3 {
		row := clampCoord(int32((x+3)*float64(m)/6), m)
		col := clampCoord(int32((y+3)*float64(m)/6), m)
		return row, col
	}
	return hitCellUniform(m, rng)
}

// clampCoord clamps a mapped coordinate into [0, m-1]; the Circle and
// Gaussian mappings can land exactly on row/col == m at the edge of their
// range.
func clampCoord(v, m int32) int32 {
	if v < 0 {
		return 0
	}
	if v >= m {
		return m - 1
	}
	return v
}

// neighbourOffset draws one of the 8 neighbouring cell offsets in
// {-1,0,1}^2, rejecting only the center (0,0). A broader rejection like
// `r+c==0` would also exclude the valid diagonal offsets (-1,+1) and
// (+1,-1), so only the exact zero offset is resampled.
func neighbourOffset(rng PRNG) (int32, int32) {
	for {
		r := rng.Integer(2) - 1
		c := rng.Integer(2) - 1
		if r == 0 && c == 0 {
			continue
		}
		return r, c
	}
}

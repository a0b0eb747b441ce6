package geometry

import (
	"errors"
	"math"
)

// ErrDegenerateGeometry is returned when a quad correspondence cannot define
// a projective map (collinear or coincident corners).
var ErrDegenerateGeometry = errors.New("geometry: degenerate quad correspondence")

const (
	// pivotTolerance is relative to the largest coefficient of the DLT matrix
	pivotTolerance = 1e-11

	// determinantTolerance is relative to the Hadamard bound of the result
	determinantTolerance = 1e-12

	// warpEpsilon is the smallest usable projective denominator
	warpEpsilon = 1e-9
)

// Homography holds the coefficients h0..h8 of a planar projective map,
// row-major, with h8 fixed at 1.
type Homography [9]float64

// IdentityHomography maps every point onto itself
var IdentityHomography = Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}

type matrix8 [8][8]float64

// ComputeHomography solves for the map taking each src corner onto the
// matching dst corner.
//
// The 8x8 direct linear transform system is inverted through an LU
// decomposition with partial pivoting. A pivot that is zero with no usable
// row below it yields ErrDegenerateGeometry; the caller must keep whatever
// homography it had before.
func ComputeHomography(src, dst Quad) (Homography, error) {
	var coef matrix8
	var dstVec [8]float64

	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y

		coef[2*i] = [8]float64{sx, sy, 1, 0, 0, 0, -dx * sx, -dx * sy}
		coef[2*i+1] = [8]float64{0, 0, 0, sx, sy, 1, -dy * sx, -dy * sy}

		dstVec[2*i] = dx
		dstVec[2*i+1] = dy
	}

	inv, err := invert(coef)
	if err != nil {
		return Homography{}, err
	}

	var h Homography
	for i := 0; i < 8; i++ {
		sum := 0.0
		for j := 0; j < 8; j++ {
			sum += inv[i][j] * dstVec[j]
		}
		h[i] = sum
	}
	h[8] = 1

	if !h.usable() {
		return Homography{}, ErrDegenerateGeometry
	}
	return h, nil
}

// decompose factors m in place into unit-lower L and upper U (packed) and
// returns the row permutation applied by pivoting.
func decompose(m matrix8) (matrix8, [8]int, error) {
	lu := m
	var perm [8]int
	for i := range perm {
		perm[i] = i
	}

	largest := 0.0
	for i := range lu {
		for j := range lu[i] {
			largest = math.Max(largest, math.Abs(lu[i][j]))
		}
	}
	tol := pivotTolerance * largest

	for j := 0; j < 8; j++ {
		// Pick the largest magnitude candidate in this column
		pivotRow := j
		colMax := math.Abs(lu[j][j])
		for i := j + 1; i < 8; i++ {
			if v := math.Abs(lu[i][j]); v > colMax {
				colMax = v
				pivotRow = i
			}
		}

		// No usable row at or below j
		if colMax <= tol {
			return lu, perm, ErrDegenerateGeometry
		}

		if pivotRow != j {
			lu[j], lu[pivotRow] = lu[pivotRow], lu[j]
			perm[j], perm[pivotRow] = perm[pivotRow], perm[j]
		}

		for i := j + 1; i < 8; i++ {
			lu[i][j] /= lu[j][j]
			for k := j + 1; k < 8; k++ {
				lu[i][k] -= lu[i][j] * lu[j][k]
			}
		}
	}
	return lu, perm, nil
}

// invert builds the inverse one column at a time by solving against each
// permuted unit basis vector.
func invert(m matrix8) (matrix8, error) {
	lu, perm, err := decompose(m)
	if err != nil {
		return matrix8{}, err
	}

	var result matrix8
	var x [8]float64
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if perm[j] == i {
				x[j] = 1
			} else {
				x[j] = 0
			}
		}

		// Forward elimination with unit-diagonal L
		for k := 1; k < 8; k++ {
			sum := x[k]
			for w := 0; w < k; w++ {
				sum -= lu[k][w] * x[w]
			}
			x[k] = sum
		}

		// Back substitution with U
		for k := 7; k >= 0; k-- {
			sum := x[k]
			for w := k + 1; w < 8; w++ {
				sum -= lu[k][w] * x[w]
			}
			x[k] = sum / lu[k][k]
		}

		for j := 0; j < 8; j++ {
			result[j][i] = x[j]
		}
	}
	return result, nil
}

// usable rejects non-finite coefficients and near-singular maps, which come
// from degenerate destination quads.
func (h Homography) usable() bool {
	for _, v := range h {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	det := h[0]*(h[4]*h[8]-h[5]*h[7]) -
		h[1]*(h[3]*h[8]-h[5]*h[6]) +
		h[2]*(h[3]*h[7]-h[4]*h[6])

	bound := 1.0
	for r := 0; r < 3; r++ {
		bound *= math.Sqrt(h[3*r]*h[3*r] + h[3*r+1]*h[3*r+1] + h[3*r+2]*h[3*r+2])
	}
	return math.Abs(det) > determinantTolerance*bound
}

// Warp applies the projective map to p. A near-zero denominator is treated
// as a degenerate evaluation and p is returned unchanged.
func (h Homography) Warp(p Point) Point {
	d := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(d) < warpEpsilon {
		return p
	}
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / d,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / d,
	}
}

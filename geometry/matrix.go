package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Matrix4 is a homogeneous 3D transform applied to column vectors.
// The zero value is the identity.
type Matrix4 struct {
	m *mat.Dense
}

func identityDense() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

func (a Matrix4) dense() *mat.Dense {
	if a.m == nil {
		return identityDense()
	}
	return a.m
}

// Identity4 returns the identity transform
func Identity4() Matrix4 {
	return Matrix4{m: identityDense()}
}

// At returns the element at row i, column j
func (a Matrix4) At(i, j int) float64 {
	return a.dense().At(i, j)
}

// Mul returns a·b, so b is applied first
func (a Matrix4) Mul(b Matrix4) Matrix4 {
	var out mat.Dense
	out.Mul(a.dense(), b.dense())
	return Matrix4{m: &out}
}

func degrees(deg float64) (float64, float64) {
	return math.Sincos(deg * math.Pi / 180)
}

// RotateX rotates about the X axis by deg degrees
func RotateX(deg float64) Matrix4 {
	s, c := degrees(deg)
	return Matrix4{m: mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	})}
}

// RotateY rotates about the Y axis by deg degrees
func RotateY(deg float64) Matrix4 {
	s, c := degrees(deg)
	return Matrix4{m: mat.NewDense(4, 4, []float64{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	})}
}

// RotateZ rotates about the Z axis by deg degrees
func RotateZ(deg float64) Matrix4 {
	s, c := degrees(deg)
	return Matrix4{m: mat.NewDense(4, 4, []float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})}
}

// Rotation composes X∘Y∘Z: Z is applied first, X last.
func Rotation(xDeg, yDeg, zDeg float64) Matrix4 {
	return RotateX(xDeg).Mul(RotateY(yDeg)).Mul(RotateZ(zDeg))
}

// Translate moves by (x, y, z)
func Translate(x, y, z float64) Matrix4 {
	t := identityDense()
	t.Set(0, 3, x)
	t.Set(1, 3, y)
	t.Set(2, 3, z)
	return Matrix4{m: t}
}

// Apply transforms v as a point (w = 1)
func (a Matrix4) Apply(v r3.Vec) r3.Vec {
	in := mat.NewVecDense(4, []float64{v.X, v.Y, v.Z, 1})
	var out mat.VecDense
	out.MulVec(a.dense(), in)
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// Project rotates p about the DAC center, divides by zDist+z and scales by
// zDist. A point on the eye plane is returned unchanged.
func (a Matrix4) Project(p Point, zDist float64) Point {
	v := a.Apply(r3.Vec{X: p.X - Center, Y: p.Y - Center})
	d := zDist + v.Z
	if math.Abs(d) < warpEpsilon {
		return p
	}
	return Point{
		X: zDist*v.X/d + Center,
		Y: zDist*v.Y/d + Center,
	}
}

package geom

import "math"

// Mat3 is a 3x3 matrix in row-major order, used for linear approximations
// (Jacobians) of nonlinear coordinate mappings.
type Mat3 struct {
	M [3][3]float64
}

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Mat3FromColumns builds a matrix from three column vectors.
func Mat3FromColumns(c0, c1, c2 Vec3) Mat3 {
	return Mat3{M: [3][3]float64{
		{c0.X, c1.X, c2.X},
		{c0.Y, c1.Y, c2.Y},
		{c0.Z, c1.Z, c2.Z},
	}}
}

// MulVec returns m * v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// Column returns the i-th column vector.
func (m Mat3) Column(i int) Vec3 {
	return Vec3{m.M[0][i], m.M[1][i], m.M[2][i]}
}

// MaxColumnNorm returns the largest Euclidean norm among the columns. For a
// Jacobian this bounds how much the mapping stretches local distances.
func (m Mat3) MaxColumnNorm() float64 {
	n := 0.0
	for i := 0; i < 3; i++ {
		n = math.Max(n, m.Column(i).Length())
	}
	return n
}

// MinColumnNorm returns the smallest Euclidean norm among the columns.
func (m Mat3) MinColumnNorm() float64 {
	n := math.Inf(1)
	for i := 0; i < 3; i++ {
		n = math.Min(n, m.Column(i).Length())
	}
	return n
}

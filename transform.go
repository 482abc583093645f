package thicket

import "math"

// Matrix is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Matrix [6]float64

// IdentityMatrix is the identity affine matrix.
var IdentityMatrix = Matrix{1, 0, 0, 1, 0, 0}

// TranslateMatrix returns T(x, y).
func TranslateMatrix(x, y float64) Matrix {
	return Matrix{1, 0, 0, 1, x, y}
}

// RotateMatrix returns R(theta), counter-clockwise in a Y-up space.
func RotateMatrix(theta float64) Matrix {
	sin, cos := math.Sincos(theta)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// ScaleMatrix returns S(sx, sy).
func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Mul returns m * o, i.e. o is applied first.
func (m Matrix) Mul(o Matrix) Matrix {
	return multiplyAffine(m, o)
}

// Invert returns the inverse of m, or the identity if m is singular.
func (m Matrix) Invert() Matrix {
	return invertAffine(m)
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return transformPoint(m, x, y)
}

// Det returns the determinant of the linear part. A negative value means the
// matrix mirrors, which flips triangle winding.
func (m Matrix) Det() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Mat4 expands m into a column-major 4x4 matrix for GL-style shader uniforms.
func (m Matrix) Mat4() [16]float32 {
	return [16]float32{
		float32(m[0]), float32(m[1]), 0, 0,
		float32(m[2]), float32(m[3]), 0, 0,
		0, 0, 1, 0,
		float32(m[4]), float32(m[5]), 0, 1,
	}
}

// computeLocalTransform returns T(position) * R(rotation) * S(scale).
func computeLocalTransform(pos Vec2, rotation float64, scale Vec2) Matrix {
	sin, cos := math.Sincos(rotation)
	return Matrix{
		cos * scale.X,
		sin * scale.X,
		-sin * scale.Y,
		cos * scale.Y,
		pos.X,
		pos.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
func multiplyAffine(p, c Matrix) Matrix {
	return Matrix{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m Matrix) Matrix {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityMatrix
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformedAABB returns the axis-aligned bounds of the given local points
// after transformation by m.
func transformedAABB(m Matrix, pts []Vec2) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := transformPoint(m, pts[0].X, pts[0].Y)
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		x, y := transformPoint(m, p.X, p.Y)
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

package thicket

import "math"

// Triangulate ear-clips a simple polygon and returns a triangle list of
// indices into pts. Counter-clockwise input is expected; clockwise input is
// clipped in reverse and the triangles keep the input winding. It returns
// ErrDegeneratePolygon for fewer than three points or zero area and
// ErrSelfIntersecting when two non-adjacent edges cross.
func Triangulate(pts []Vec2) ([]uint32, error) {
	return appendTriangulation(nil, pts)
}

func appendTriangulation(dst []uint32, pts []Vec2) ([]uint32, error) {
	n := len(pts)
	if n < 3 {
		return dst, ErrDegeneratePolygon
	}
	area := signedArea(pts)
	if math.Abs(area) < 1e-12 {
		return dst, ErrDegeneratePolygon
	}
	clockwise := area < 0
	if selfIntersects(pts) {
		return dst, ErrSelfIntersecting
	}
	remaining := make([]int, n)
	for i := range remaining {
		if clockwise {
			remaining[i] = n - 1 - i
		} else {
			remaining[i] = i
		}
	}
	emit := func(a, b, c int) {
		if clockwise {
			a, c = c, a
		}
		dst = append(dst, uint32(a), uint32(b), uint32(c))
	}

	// Each pass removes one ear. A lap without one means a collinear run.
	for guard := 0; len(remaining) > 3; {
		m := len(remaining)
		clipped := false
		for i := 0; i < m; i++ {
			prev := remaining[(i+m-1)%m]
			cur := remaining[i]
			next := remaining[(i+1)%m]
			if !isEar(pts, remaining, prev, cur, next) {
				continue
			}
			emit(prev, cur, next)
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			guard++
			if guard > 1 {
				return dst, ErrDegeneratePolygon
			}
			// Drop a collinear vertex and try again.
			if !dropCollinear(pts, &remaining) {
				return dst, ErrDegeneratePolygon
			}
			continue
		}
		guard = 0
	}
	emit(remaining[0], remaining[1], remaining[2])
	return dst, nil
}

func isEar(pts []Vec2, remaining []int, prev, cur, next int) bool {
	a, b, c := pts[prev], pts[cur], pts[next]
	if cross(a, b, c) <= 1e-12 {
		return false
	}
	for _, idx := range remaining {
		if idx == prev || idx == cur || idx == next {
			continue
		}
		if pointInTriangle(pts[idx], a, b, c) {
			return false
		}
	}
	return true
}

func dropCollinear(pts []Vec2, remaining *[]int) bool {
	r := *remaining
	m := len(r)
	for i := 0; i < m; i++ {
		a, b, c := pts[r[(i+m-1)%m]], pts[r[i]], pts[r[(i+1)%m]]
		if math.Abs(cross(a, b, c)) <= 1e-12 {
			*remaining = append(r[:i], r[i+1:]...)
			return true
		}
	}
	return false
}

// cross returns the z component of (b-a) x (c-b).
func cross(a, b, c Vec2) float64 {
	return (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
}

func pointInTriangle(p, a, b, c Vec2) bool {
	d1 := orient(a, b, p)
	d2 := orient(b, c, p)
	d3 := orient(c, a, p)
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

// orient is the signed area of triangle (a, b, p), doubled.
func orient(a, b, p Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// selfIntersects reports whether any two non-adjacent edges cross.
func selfIntersects(pts []Vec2) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		a1, a2 := pts[i], pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := pts[j], pts[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(p1, p2, q1, q2 Vec2) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

package raster

import "math"

// flattenTolerance is the maximum distance, in pixels, between a curve and
// the polyline replacing it.
const flattenTolerance = 0.25

// polyline is a flattened subpath.
type polyline struct {
	pts    []Point
	closed bool
}

// flatten converts a path into polylines.
func flatten(path []segment) []polyline {
	var (
		out []polyline
		cur *polyline
	)
	last := Point{}
	for _, s := range path {
		switch s.op {
		case segMove:
			out = append(out, polyline{pts: []Point{s.pts[0]}})
			cur = &out[len(out)-1]
			last = s.pts[0]
		case segLine:
			if cur == nil {
				continue
			}
			cur.pts = append(cur.pts, s.pts[0])
			last = s.pts[0]
		case segQuad:
			if cur == nil {
				continue
			}
			p0, p1, p2 := last, s.pts[0], s.pts[1]
			n := curveSteps(dist(p0, p1) + dist(p1, p2))
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				u := 1 - t
				cur.pts = append(cur.pts, Point{
					X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
					Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
				})
			}
			last = p2
		case segCube:
			if cur == nil {
				continue
			}
			p0, p1, p2, p3 := last, s.pts[0], s.pts[1], s.pts[2]
			n := curveSteps(dist(p0, p1) + dist(p1, p2) + dist(p2, p3))
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				u := 1 - t
				a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
				cur.pts = append(cur.pts, Point{
					X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
					Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
				})
			}
			last = p3
		case segClose:
			if cur == nil {
				continue
			}
			cur.closed = true
			last = cur.pts[0]
		}
	}
	return out
}

func curveSteps(length float64) int {
	n := int(math.Ceil(math.Sqrt(length / flattenTolerance)))
	return min(max(n, 1), 256)
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// strokeOutline expands path into filled polygons covering a stroke of the
// given width: one quad per segment plus a disc at every joint. All
// polygons share one winding direction so overlaps never cancel out.
func strokeOutline(path []segment, width float64) []segment {
	hw := width / 2
	var out []segment
	for _, pl := range flatten(path) {
		pts := pl.pts
		if pl.closed && len(pts) > 1 {
			pts = append(pts, pts[0])
		}
		for i := 1; i < len(pts); i++ {
			p, q := pts[i-1], pts[i]
			d := dist(p, q)
			if d == 0 {
				continue
			}
			nx, ny := -(q.Y-p.Y)/d*hw, (q.X-p.X)/d*hw
			out = appendPolygon(out, []Point{
				{p.X + nx, p.Y + ny},
				{q.X + nx, q.Y + ny},
				{q.X - nx, q.Y - ny},
				{p.X - nx, p.Y - ny},
			})
		}
		if hw < 0.5 {
			continue
		}
		// Round joins. Open polylines have butt caps, so the end points
		// get no disc.
		first, last := 1, len(pts)-1
		if pl.closed {
			first = 0
		}
		for i := first; i < last; i++ {
			out = appendPolygon(out, disc(pts[i], hw))
		}
	}
	return out
}

func disc(c Point, r float64) []Point {
	n := min(max(int(math.Ceil(r*2)), 8), 64)
	pts := make([]Point, n)
	for i := range n {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = Point{c.X + r*cos, c.Y + r*sin}
	}
	return pts
}

// appendPolygon appends pts as a closed subpath with positive signed area.
func appendPolygon(dst []segment, pts []Point) []segment {
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	dst = append(dst, segment{op: segMove, pts: [3]Point{pts[0]}})
	for _, p := range pts[1:] {
		dst = append(dst, segment{op: segLine, pts: [3]Point{p}})
	}
	return append(dst, segment{op: segClose})
}

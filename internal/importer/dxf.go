package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// segment is a line segment between two points, used for chaining
// disconnected LINE and ARC entities into closed rings.
type segment struct {
	start orb.Point
	end   orb.Point
}

// minRingArea is the area below which a DXF shape is treated as degenerate.
const minRingArea = 1e-9

// ImportDXF imports AoI polygons from a DXF file. Each closed shape
// (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs) becomes one
// polygon in drawing coordinates. DXF has no CRS of its own, so crs is
// used as given.
func ImportDXF(path, crs string) ImportResult {
	result := ImportResult{}
	result.AoI.CRS = crs

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var rings []orb.Ring
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			ring := lwPolylineToRing(e)
			if len(ring) >= 3 {
				rings = append(rings, ring)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			rings = append(rings, circleToRing(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: orb.Point{e.Start[0], e.Start[1]},
				end:   orb.Point{e.End[0], e.End[1]},
			})
		}
	}

	rings = append(rings, chainSegments(segments, 0.01)...)

	if len(rings) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, ring := range rings {
		ring = closeRing(ring)
		if math.Abs(planar.Area(ring)) < minRingArea {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped degenerate shape %d", i+1))
			continue
		}
		result.addPolygon(orb.Polygon{ring})
	}

	if result.AoI.IsEmpty() {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
	}
	return result
}

// closeRing repeats the first point at the end when needed.
func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// lwPolylineToRing converts a DXF LWPOLYLINE entity to a ring.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToRing(lw *entity.LwPolyline) orb.Ring {
	var ring orb.Ring

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := orb.Point{v[0], v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := orb.Point{lw.Vertices[nextIdx][0], lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// the next vertex is added by its own iteration
			ring = append(ring, arcPts[:len(arcPts)-1]...)
		} else {
			ring = append(ring, current)
		}
	}

	return ring
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 orb.Point, bulge float64, numSegments int) []orb.Point {
	mx := (p1.X() + p2.X()) / 2
	my := (p1.Y() + p2.Y()) / 2
	dx := p2.X() - p1.X()
	dy := p2.Y() - p1.Y()
	chordLen := math.Hypot(dx, dy)
	if chordLen < 1e-9 {
		return []orb.Point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	// center lies on the chord's perpendicular
	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y()-cy, p1.X()-cx)
	endAngle := math.Atan2(p2.Y()-cy, p2.X()-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([]orb.Point, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, orb.Point{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)})
	}
	return pts
}

// circleToRing approximates a circle as a regular polygon.
func circleToRing(c *entity.Circle, numSegments int) orb.Ring {
	ring := make(orb.Ring, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		ring[i] = orb.Point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return ring
}

// arcToPoints converts a DXF ARC entity to a series of points.
func arcToPoints(a *entity.Arc, numSegments int) []orb.Point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]orb.Point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = orb.Point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []orb.Point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed rings. tolerance
// is the maximum distance between endpoints to consider them connected.
// Chains that do not close are dropped.
func chainSegments(segs []segment, tolerance float64) []orb.Ring {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var rings []orb.Ring

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := orb.Ring{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain[len(chain)-1] = chain[0]
			rings = append(rings, chain)
		}
	}

	// largest first for a stable order
	sort.SliceStable(rings, func(i, j int) bool {
		return math.Abs(planar.Area(rings[i])) > math.Abs(planar.Area(rings[j]))
	})

	return rings
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b orb.Point, tolerance float64) bool {
	return math.Hypot(a.X()-b.X(), a.Y()-b.Y()) <= tolerance
}

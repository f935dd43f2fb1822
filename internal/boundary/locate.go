package boundary

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Locate returns the first feature whose polygon contains the lon/lat point.
func (d *Document) Locate(lon, lat float64) (*Feature, bool) {
	p := geom.Coord{lon, lat}
	for i := range d.Features {
		f := &d.Features[i]
		if !f.bounds.OverlapsPoint(geom.XY, p) {
			continue // quick bbox reject
		}
		if f.containsCoord(p) {
			return f, true
		}
	}
	return nil, false
}

// Contains reports whether the point lies inside a shell of the feature and
// outside that shell's holes. Points on a shell edge count as inside.
func (f *Feature) Contains(lon, lat float64) bool {
	return f.containsCoord(geom.Coord{lon, lat})
}

func (f *Feature) containsCoord(p geom.Coord) bool {
	for _, poly := range f.polygons() {
		if poly.NumLinearRings() == 0 || !xy.IsPointInRing(geom.XY, p, poly.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for i := 1; i < poly.NumLinearRings(); i++ {
			if xy.IsPointInRing(geom.XY, p, poly.LinearRing(i).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

func (f *Feature) polygons() []*geom.Polygon {
	switch g := f.Geometry.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{g}
	case *geom.MultiPolygon:
		out := make([]*geom.Polygon, g.NumPolygons())
		for i := range out {
			out[i] = g.Polygon(i)
		}
		return out
	}
	return nil
}

package boundary

import (
	"fmt"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"zipmarket/internal/market"
)

// LoadShapefile reads a polygon shapefile (with its .dbf alongside) such as the
// Census ZCTA layer and keys each feature by the key DBF field.
func LoadShapefile(path, key string) (*Document, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open shapefile %s: %w", ErrLoad, path, err)
	}
	defer r.Close()

	fields := r.Fields()
	keyIdx := -1
	for i, f := range fields {
		if strings.EqualFold(f.String(), key) {
			keyIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, fmt.Errorf("%w: shapefile %s has no %s field", ErrLoad, path, key)
	}

	var feats []Feature
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			// only polygon layers carry ZIP areas
			continue
		}
		g, err := polygonGeometry(poly)
		if err != nil {
			return nil, fmt.Errorf("%w: shape %d: %w", ErrLoad, idx, err)
		}
		if g == nil {
			continue
		}

		attrs := make(map[string]string, len(fields))
		for i, f := range fields {
			attrs[f.String()] = strings.TrimSpace(r.ReadAttribute(idx, i))
		}
		zip := market.CanonicalZIP(attrs[fields[keyIdx].String()])
		if zip == "" {
			continue
		}
		feats = append(feats, Feature{ZIP: zip, Geometry: g, Attrs: attrs})
	}
	return newDocument(key, feats), nil
}

// polygonGeometry splits the flat shapefile point list into rings. Clockwise
// rings open a new polygon; counter-clockwise rings are holes of the polygon
// before them.
func polygonGeometry(poly *shp.Polygon) (geom.T, error) {
	numParts := len(poly.Parts)
	var polys [][][]geom.Coord
	for partIdx := 0; partIdx < numParts; partIdx++ {
		start := poly.Parts[partIdx]
		end := int32(len(poly.Points))
		if partIdx+1 < numParts {
			end = poly.Parts[partIdx+1]
		}
		if start < 0 || end > int32(len(poly.Points)) || end-start < 4 {
			continue
		}
		ring := make([]geom.Coord, 0, end-start)
		flat := make([]float64, 0, 2*(end-start))
		for i := start; i < end; i++ {
			pt := poly.Points[i]
			ring = append(ring, geom.Coord{pt.X, pt.Y})
			flat = append(flat, pt.X, pt.Y)
		}
		if !xy.IsRingCounterClockwise(geom.XY, flat) || len(polys) == 0 {
			polys = append(polys, [][]geom.Coord{ring})
			continue
		}
		last := len(polys) - 1
		polys[last] = append(polys[last], ring)
	}

	switch len(polys) {
	case 0:
		return nil, nil
	case 1:
		p, err := geom.NewPolygon(geom.XY).SetCoords(polys[0])
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	mp, err := geom.NewMultiPolygon(geom.XY).SetCoords(polys)
	if err != nil {
		return nil, err
	}
	return mp, nil
}

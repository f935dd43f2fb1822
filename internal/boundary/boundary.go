// Package boundary loads ZIP code (ZCTA) polygons and answers point lookups
// against them.
package boundary

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/twpayne/go-geom"
)

// ErrLoad marks a boundary file that is missing, unreadable or malformed.
var ErrLoad = errors.New("load boundaries")

// DefaultKey is the ZCTA property carried by Census-derived ZIP boundary files.
const DefaultKey = "ZCTA5CE10"

// Feature is one ZIP polygon together with its attribute values.
type Feature struct {
	ZIP      string
	Geometry geom.T // *geom.Polygon or *geom.MultiPolygon, lon/lat
	Attrs    map[string]string
	bounds   *geom.Bounds
}

// Document is an immutable collection of ZIP features.
type Document struct {
	Key      string
	Features []Feature
	byZIP    map[string]int
}

// Load dispatches on the file extension: .shp files are read as ESRI
// shapefiles, everything else as GeoJSON.
func Load(path, key string) (*Document, error) {
	if key == "" {
		key = DefaultKey
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return LoadShapefile(path, key)
	default:
		return LoadGeoJSON(path, key)
	}
}

func newDocument(key string, feats []Feature) *Document {
	d := &Document{Key: key, Features: feats, byZIP: make(map[string]int, len(feats))}
	for i := range d.Features {
		f := &d.Features[i]
		f.bounds = f.Geometry.Bounds()
		if _, dup := d.byZIP[f.ZIP]; !dup {
			d.byZIP[f.ZIP] = i
		}
	}
	return d
}

// Feature returns the polygon for zip.
func (d *Document) Feature(zip string) (*Feature, bool) {
	i, ok := d.byZIP[zip]
	if !ok {
		return nil, false
	}
	return &d.Features[i], true
}

// ZIPs returns the distinct ZIP keys, sorted.
func (d *Document) ZIPs() []string {
	out := make([]string, 0, len(d.byZIP))
	for z := range d.byZIP {
		out = append(out, z)
	}
	sort.Strings(out)
	return out
}

// Bounds returns the lon/lat envelope of every feature.
func (d *Document) Bounds() *geom.Bounds {
	b := geom.NewBounds(geom.XY)
	for _, f := range d.Features {
		b.Extend(f.Geometry)
	}
	return b
}

// Polygons flattens a feature's geometry into polygons of rings of lon/lat points.
// The first ring of each polygon is the shell; the rest are holes.
func (f *Feature) Polygons() [][][]geom.Coord {
	switch g := f.Geometry.(type) {
	case *geom.Polygon:
		return [][][]geom.Coord{g.Coords()}
	case *geom.MultiPolygon:
		return g.Coords()
	}
	return nil
}

func checkGeometry(g geom.T) error {
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return nil
	case nil:
		return fmt.Errorf("missing geometry")
	}
	return fmt.Errorf("unsupported geometry %T", g)
}

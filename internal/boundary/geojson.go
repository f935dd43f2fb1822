package boundary

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/twpayne/go-geom/encoding/geojson"

	"zipmarket/internal/market"
)

// LoadGeoJSON reads a GeoJSON FeatureCollection and keys each polygon feature
// by its key property. Features without the property or with non-polygon
// geometry are skipped; they simply never match a dataset row.
func LoadGeoJSON(path, key string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoad, path, err)
	}
	return ParseGeoJSON(data, key)
}

// ParseGeoJSON is LoadGeoJSON over an in-memory document.
func ParseGeoJSON(data []byte, key string) (*Document, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: decode geojson: %w", ErrLoad, err)
	}
	if head.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: expected FeatureCollection, got %q", ErrLoad, head.Type)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: decode features: %w", ErrLoad, err)
	}

	feats := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		raw, ok := f.Properties[key]
		if !ok || raw == nil {
			continue
		}
		if checkGeometry(f.Geometry) != nil {
			continue
		}
		attrs := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			attrs[k] = propertyString(v)
		}
		feats = append(feats, Feature{
			ZIP:      market.CanonicalZIP(propertyString(raw)),
			Geometry: f.Geometry,
			Attrs:    attrs,
		})
	}
	return newDocument(key, feats), nil
}

// propertyString renders a decoded JSON property; integral numbers lose their
// exponent form so 75001 stays "75001".
func propertyString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return fmt.Sprintf("%.10g", x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

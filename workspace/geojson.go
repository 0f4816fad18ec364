package workspace

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"morphplan/geometry"
)

// Features is the geometry read from a GeoJSON feature collection.
type Features struct {
	Walls []geometry.Segment
	Goals []geometry.Goal
	Start *geometry.Point
}

// LoadGeoJSON reads walls, goals and an optional start from a feature
// collection. Every edge of a LineString, MultiLineString or Polygon becomes
// a wall. A Point with role "start" sets the start centroid; any other Point
// needs a "radius" property and becomes a goal.
func LoadGeoJSON(data []byte) (*Features, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: geojson: %v", ErrInvalidConfig, err)
	}

	out := &Features{}
	for i, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case nil:
			return nil, fmt.Errorf("%w: geojson feature %d has no geometry", ErrInvalidConfig, i)
		case orb.LineString:
			out.Walls = appendEdges(out.Walls, g)
		case orb.MultiLineString:
			for _, ls := range g {
				out.Walls = appendEdges(out.Walls, ls)
			}
		case orb.Ring:
			out.Walls = appendEdges(out.Walls, orb.LineString(g))
		case orb.Polygon:
			for _, r := range g {
				out.Walls = appendEdges(out.Walls, orb.LineString(r))
			}
		case orb.Point:
			if role, _ := f.Properties["role"].(string); role == "start" {
				if out.Start != nil {
					return nil, fmt.Errorf("%w: geojson feature %d: second start", ErrInvalidConfig, i)
				}
				p := g
				out.Start = &p
				continue
			}
			r, ok := f.Properties["radius"].(float64)
			if !ok {
				return nil, fmt.Errorf("%w: geojson feature %d: point without numeric radius", ErrInvalidConfig, i)
			}
			out.Goals = append(out.Goals, geometry.Goal{Center: g, Radius: r})
		default:
			return nil, fmt.Errorf("%w: geojson feature %d: unsupported geometry %s",
				ErrInvalidConfig, i, f.Geometry.GeoJSONType())
		}
	}
	return out, nil
}

// appendEdges adds one wall per consecutive vertex pair, skipping repeated vertices.
func appendEdges(walls []geometry.Segment, ls orb.LineString) []geometry.Segment {
	for i := 1; i < len(ls); i++ {
		s := geometry.Segment{A: ls[i-1], B: ls[i]}
		if s.Degenerate() {
			continue
		}
		walls = append(walls, s)
	}
	return walls
}

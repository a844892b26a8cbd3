package catalog

import (
	"encoding/json"
	"fmt"
)

// The map overlay endpoint returns a GeoJSON-like feature collection. Only
// point features with a name survive parsing; everything else on the overlay
// (paths, areas, unnamed scratch geometry) is a rendering concern.

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string     `json:"type"`
	Geometry   geometry   `json:"geometry"`
	Properties properties `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type properties struct {
	Name string  `json:"name"`
	Yaw  float64 `json:"yaw"`
}

// parseOverlay extracts classified points from raw overlay JSON.
func parseOverlay(data []byte) ([]Point, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse overlay: %w", err)
	}

	var points []Point
	for _, f := range fc.Features {
		if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
			continue
		}
		if f.Properties.Name == "" {
			continue
		}
		points = append(points, Point{
			ID:          f.Properties.Name,
			X:           f.Geometry.Coordinates[0],
			Y:           f.Geometry.Coordinates[1],
			Orientation: f.Properties.Yaw,
			Role:        Classify(f.Properties.Name),
		})
	}
	return points, nil
}

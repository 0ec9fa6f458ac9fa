package pedestrian

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// Stats - итоги загрузки набора данных
type Stats struct {
	Features int
	Lines    int
	Skipped  int
	Nodes    int
	Edges    int
}

// Build строит граф из коллекции. Не линейные объекты пропускаются.
func Build(fc *geojson.FeatureCollection, opts Options) (*Graph, Stats) {
	g := New(opts)
	var stats Stats
	if fc == nil {
		return g, stats
	}

	for _, f := range fc.Features {
		stats.Features++
		if f == nil || f.Geometry == nil || !g.AddGeometry(f.Geometry) {
			stats.Skipped++
			continue
		}
		stats.Lines++
	}

	stats.Nodes = g.NodeCount()
	stats.Edges = g.EdgeCount()
	return g, stats
}

// Parse разбирает GeoJSON FeatureCollection и строит граф
func Parse(data []byte, opts Options) (*Graph, Stats, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to parse pedestrian network: %w", err)
	}
	g, stats := Build(fc, opts)
	return g, stats, nil
}

// LoadFile читает набор данных пешеходной сети с диска
func LoadFile(path string, opts Options) (*Graph, Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to read pedestrian network: %w", err)
	}
	return Parse(data, opts)
}

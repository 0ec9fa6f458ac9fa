package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/hk-smart-transport/internal/pkg/validator"
	"gopkg.in/yaml.v3"
)

// Виды источников в каталоге
const (
	SourceKindFeed   = "feed"
	SourceKindStatic = "static"
	SourceKindRail   = "rail"
)

//go:embed sources.default.yaml
var defaultCatalog []byte

// SourceCatalog - упорядоченный список источников точек.
// Порядок важен: при дедупликации побеждает первый источник.
type SourceCatalog struct {
	Sources []SourceSpec `yaml:"sources" validate:"required,min=1,dive"`
}

// SourceSpec описывает один источник
type SourceSpec struct {
	Name        string        `yaml:"name" validate:"required"`
	Kind        string        `yaml:"kind" validate:"required,oneof=feed static rail"`
	Category    string        `yaml:"category" validate:"required,category"`
	URL         string        `yaml:"url"`
	RecordsPath string        `yaml:"records_path"`
	Fields      FieldAliases  `yaml:"fields"`
	Timeout     time.Duration `yaml:"timeout"`
	Points      []StaticPoint `yaml:"points" validate:"dive"`
}

// FieldAliases - пути к полям записи в порядке приоритета
type FieldAliases struct {
	Lat  []string `yaml:"lat"`
	Lng  []string `yaml:"lng"`
	Name []string `yaml:"name"`
}

// StaticPoint - точка из фиксированного списка
type StaticPoint struct {
	Name string  `yaml:"name" validate:"required"`
	Lat  float64 `yaml:"lat" validate:"latitude"`
	Lng  float64 `yaml:"lng" validate:"longitude"`
}

// LoadSourceCatalog читает каталог из файла, при пустом пути - встроенный каталог
func LoadSourceCatalog(path string) (*SourceCatalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sources file: %w", err)
		}
		data = b
	}
	return ParseSourceCatalog(data)
}

// ParseSourceCatalog разбирает и валидирует YAML каталог
func ParseSourceCatalog(data []byte) (*SourceCatalog, error) {
	var catalog SourceCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse sources catalog: %w", err)
	}
	if err := validator.Validate(catalog); err != nil {
		return nil, fmt.Errorf("invalid sources catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(catalog.Sources))
	for _, s := range catalog.Sources {
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("invalid sources catalog: duplicate source name %q", s.Name)
		}
		seen[s.Name] = struct{}{}

		switch s.Kind {
		case SourceKindFeed, SourceKindRail:
			if s.URL == "" {
				return nil, fmt.Errorf("invalid sources catalog: source %q needs url", s.Name)
			}
			if len(s.Fields.Lat) == 0 || len(s.Fields.Lng) == 0 {
				return nil, fmt.Errorf("invalid sources catalog: source %q needs lat and lng fields", s.Name)
			}
		case SourceKindStatic:
			if len(s.Points) == 0 {
				return nil, fmt.Errorf("invalid sources catalog: static source %q has no points", s.Name)
			}
		}
	}

	return &catalog, nil
}

// ApplyDefaultTimeouts задает таймаут фидам и rail-источникам без явного timeout
func (c *SourceCatalog) ApplyDefaultTimeouts(feed, rail time.Duration) {
	for i := range c.Sources {
		spec := &c.Sources[i]
		if spec.Timeout > 0 {
			continue
		}
		switch spec.Kind {
		case SourceKindFeed:
			spec.Timeout = feed
		case SourceKindRail:
			spec.Timeout = rail
		}
	}
}

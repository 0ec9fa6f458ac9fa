package usecase

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hk-smart-transport/internal/config"
	"github.com/hk-smart-transport/internal/domain"
	"github.com/hk-smart-transport/internal/pkg/utils"
)

// FieldMapping - пути к полям сырой записи в порядке приоритета.
// Путь может быть составным: "properties.stand_name_en", "geometry.coordinates.1".
type FieldMapping struct {
	Lat  []string
	Lng  []string
	Name []string
}

// FieldMappingFrom переводит описание полей из каталога источников
func FieldMappingFrom(f config.FieldAliases) FieldMapping {
	return FieldMapping{Lat: f.Lat, Lng: f.Lng, Name: f.Name}
}

// Normalizer приводит сырые записи фидов к domain.Point
type Normalizer struct{}

// Normalize возвращает точку или причину, по которой запись отброшена
func (Normalizer) Normalize(record interface{}, mapping FieldMapping, category domain.Category) (domain.Point, domain.SkipReason) {
	if _, ok := record.(map[string]interface{}); !ok {
		return domain.Point{}, domain.SkipNotAnObject
	}

	lat, reason := coordinate(record, mapping.Lat, domain.SkipMissingLat, domain.SkipInvalidLat)
	if reason != domain.SkipNone {
		return domain.Point{}, reason
	}
	lng, reason := coordinate(record, mapping.Lng, domain.SkipMissingLng, domain.SkipInvalidLng)
	if reason != domain.SkipNone {
		return domain.Point{}, reason
	}
	if lat < -90 || lat > 90 {
		return domain.Point{}, domain.SkipInvalidLat
	}
	if !utils.ValidateCoordinates(lat, lng) {
		return domain.Point{}, domain.SkipInvalidLng
	}

	return domain.Point{
		Name:     recordName(record, mapping.Name),
		Category: category,
		Lat:      lat,
		Lng:      lng,
	}, domain.SkipNone
}

// coordinate берет первое непустое значение по алиасам
func coordinate(record interface{}, aliases []string, missing, invalid domain.SkipReason) (float64, domain.SkipReason) {
	for _, alias := range aliases {
		v, ok := Lookup(record, alias)
		if !ok || isEmpty(v) {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return 0, invalid
		}
		return f, domain.SkipNone
	}
	return 0, missing
}

func recordName(record interface{}, aliases []string) string {
	for _, alias := range aliases {
		v, ok := Lookup(record, alias)
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		case json.Number:
			return s.String()
		}
	}
	return ""
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Lookup проходит по составному пути через объекты и массивы
func Lookup(node interface{}, path string) (interface{}, bool) {
	if path == "" {
		return node, true
	}
	cur := node
	for _, part := range strings.Split(path, ".") {
		next, ok := step(cur, part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func step(node interface{}, part string) (interface{}, bool) {
	switch v := node.(type) {
	case map[string]interface{}:
		child, ok := v[part]
		return child, ok
	case []interface{}:
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 || i >= len(v) {
			return nil, false
		}
		return v[i], true
	default:
		return nil, false
	}
}

// ExtractRecords достает записи по пути. "*" раскрывает массив или значения объекта
// (в порядке ключей), массив в конце пути раскрывается в элементы.
// false - путь не найден в документе.
func ExtractRecords(doc interface{}, path string) ([]interface{}, bool) {
	var parts []string
	if path != "" {
		parts = strings.Split(path, ".")
	}
	return extract(doc, parts)
}

func extract(node interface{}, parts []string) ([]interface{}, bool) {
	if len(parts) == 0 {
		if arr, ok := node.([]interface{}); ok {
			return arr, true
		}
		return []interface{}{node}, true
	}

	if parts[0] != "*" {
		child, ok := step(node, parts[0])
		if !ok {
			return nil, false
		}
		return extract(child, parts[1:])
	}

	var children []interface{}
	switch v := node.(type) {
	case []interface{}:
		children = v
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			children = append(children, v[k])
		}
	default:
		return nil, false
	}

	out := []interface{}{}
	for _, child := range children {
		if records, ok := extract(child, parts[1:]); ok {
			out = append(out, records...)
		}
	}
	return out, true
}

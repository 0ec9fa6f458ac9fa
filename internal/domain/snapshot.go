package domain

import (
	"encoding/json"
	"time"
)

// SnapshotStation - станция в файле снапшота
type SnapshotStation struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`

	// noCoords - в файле нет lat или lng
	noCoords bool
}

// UnmarshalJSON принимает как name, так и name_en
func (s *SnapshotStation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string   `json:"name"`
		NameEn string   `json:"name_en"`
		Lat    *float64 `json:"lat"`
		Lng    *float64 `json:"lng"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SnapshotStation{Name: raw.Name}
	if s.Name == "" {
		s.Name = raw.NameEn
	}
	if raw.Lat == nil || raw.Lng == nil {
		s.noCoords = true
		return nil
	}
	s.Lat = *raw.Lat
	s.Lng = *raw.Lng
	return nil
}

// hasCoords - координаты заданы и лежат в допустимых пределах
func (s SnapshotStation) hasCoords() bool {
	return !s.noCoords && s.Lat >= -90 && s.Lat <= 90 && s.Lng >= -180 && s.Lng <= 180
}

// StationSnapshot - сохраненный на диск список станций
type StationSnapshot struct {
	UpdatedAt time.Time
	Stations  []SnapshotStation
}

type snapshotFile struct {
	UpdatedAt       *int64            `json:"updated_at,omitempty"`
	UpdatedAtLegacy *int64            `json:"updatedAtEpochSeconds,omitempty"`
	Stations        []SnapshotStation `json:"stations"`
}

// MarshalJSON пишет формат {"updated_at": epoch, "stations": [...]}
func (s StationSnapshot) MarshalJSON() ([]byte, error) {
	ts := s.UpdatedAt.Unix()
	stations := s.Stations
	if stations == nil {
		stations = []SnapshotStation{}
	}
	return json.Marshal(snapshotFile{UpdatedAt: &ts, Stations: stations})
}

// UnmarshalJSON читает объект со станциями или голый массив станций.
// Если метка времени отсутствует, UpdatedAt остается нулевым.
func (s *StationSnapshot) UnmarshalJSON(data []byte) error {
	var list []SnapshotStation
	if err := json.Unmarshal(data, &list); err == nil {
		s.Stations = withCoords(list)
		s.UpdatedAt = time.Time{}
		return nil
	}

	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	s.Stations = withCoords(f.Stations)
	s.UpdatedAt = time.Time{}
	switch {
	case f.UpdatedAt != nil:
		s.UpdatedAt = time.Unix(*f.UpdatedAt, 0)
	case f.UpdatedAtLegacy != nil:
		s.UpdatedAt = time.Unix(*f.UpdatedAtLegacy, 0)
	}
	return nil
}

func withCoords(stations []SnapshotStation) []SnapshotStation {
	out := stations[:0]
	for _, st := range stations {
		if st.hasCoords() {
			out = append(out, st)
		}
	}
	return out
}

// Points переводит станции в точки указанной категории.
// Станции без допустимых координат пропускаются.
func (s *StationSnapshot) Points(category Category) []Point {
	points := make([]Point, 0, len(s.Stations))
	for _, st := range s.Stations {
		if !st.hasCoords() {
			continue
		}
		points = append(points, Point{Name: st.Name, Category: category, Lat: st.Lat, Lng: st.Lng})
	}
	return points
}

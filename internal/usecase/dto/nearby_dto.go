package dto

// NearbyRequest - запрос точек рядом. Radius nil - радиус по умолчанию.
type NearbyRequest struct {
	Lat    float64  `query:"lat" validate:"min=-90,max=90"`
	Lng    float64  `query:"lng" validate:"min=-180,max=180"`
	Radius *float64 `query:"radius" validate:"omitempty,max=50000"` // meters
	Types  []string `query:"types" validate:"omitempty,max=10,dive,max=32"`
	Limit  int      `query:"limit" validate:"omitempty,min=0,max=500"`
}

// NearbyItem - точка в ответе
type NearbyItem struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Distance int     `json:"distance"`
	WalkMin  int     `json:"walk_min"`
}

// NearbyResponse - ответ на запрос точек рядом
type NearbyResponse struct {
	Results []NearbyItem `json:"results"`
	Count   int          `json:"count"`
	Radius  float64      `json:"radius"`
	Version uint64       `json:"index_version"`
}

// SourceStatus - состояние источника в последней сборке
type SourceStatus struct {
	Name       string         `json:"name"`
	Origin     string         `json:"origin"`
	Points     int            `json:"points"`
	Skipped    map[string]int `json:"skipped,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}

// SourcesResponse - состояние кеша точек
type SourcesResponse struct {
	Built      bool           `json:"built"`
	Version    uint64         `json:"version"`
	RunID      string         `json:"run_id,omitempty"`
	BuiltAt    string         `json:"built_at,omitempty"`
	Points     int            `json:"points"`
	Duplicates int            `json:"duplicates"`
	Sources    []SourceStatus `json:"sources"`
}

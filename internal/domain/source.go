package domain

// SkipReason - причина отбрасывания сырой записи
type SkipReason string

const (
	SkipNone        SkipReason = ""
	SkipNotAnObject SkipReason = "not_an_object"
	SkipMissingLat  SkipReason = "missing_lat"
	SkipMissingLng  SkipReason = "missing_lng"
	SkipInvalidLat  SkipReason = "invalid_lat"
	SkipInvalidLng  SkipReason = "invalid_lng"
)

// SourceOrigin - откуда источник взял данные в последней сборке
type SourceOrigin string

const (
	OriginLive          SourceOrigin = "live"
	OriginStatic        SourceOrigin = "static"
	OriginSnapshot      SourceOrigin = "snapshot"
	OriginStaleSnapshot SourceOrigin = "stale_snapshot"
	OriginBuiltin       SourceOrigin = "builtin"
	OriginDatabase      SourceOrigin = "database"
	OriginNone          SourceOrigin = "none"
)

// SourceBatch - результат одного источника
type SourceBatch struct {
	Points  []Point
	Skipped map[SkipReason]int
	Origin  SourceOrigin
}

// NewSourceBatch создает пустой батч
func NewSourceBatch(origin SourceOrigin) *SourceBatch {
	return &SourceBatch{Skipped: make(map[SkipReason]int), Origin: origin}
}

// Skip учитывает отброшенную запись
func (b *SourceBatch) Skip(reason SkipReason) {
	if b.Skipped == nil {
		b.Skipped = make(map[SkipReason]int)
	}
	b.Skipped[reason]++
}

// SkippedTotal - сколько записей отброшено всего
func (b *SourceBatch) SkippedTotal() int {
	total := 0
	for _, n := range b.Skipped {
		total += n
	}
	return total
}

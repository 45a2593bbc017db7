package models

// Event kinds reported while a conversion or import runs. The caller
// (UI, CLI) decides how to display them; the core only emits.
const (
	EventTierStart   = "tier_start"
	EventTierSkipped = "tier_skipped"
	EventTierFailed  = "tier_failed"
	EventSwapApplied = "swap_applied"
	EventInfo        = "info"
)

// Event is an informational progress notice emitted during a
// conversion or coordinate import.
type Event struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// EventSink receives progress events. A nil sink is valid and drops
// everything.
type EventSink func(Event)

// Emit sends an event through the sink if one is attached.
func (s EventSink) Emit(kind, message string) {
	if s != nil {
		s(Event{Kind: kind, Message: message})
	}
}

// Conversion status values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Conversion method values, one per tier.
const (
	MethodExternal = "external"
	MethodLocal    = "local"
	MethodFallback = "fallback"
)

// ConversionRecord is the persisted outcome of a single convert call.
type ConversionRecord struct {
	ID         int64   `json:"id" db:"id"`
	InputPath  string  `json:"inputPath" db:"input_path"`
	OutputPath string  `json:"outputPath,omitempty" db:"output_path"`
	Method     string  `json:"method,omitempty" db:"method"`
	Status     string  `json:"status" db:"status"`
	Reason     string  `json:"reason,omitempty" db:"reason"`
	Points     int     `json:"points" db:"points"`
	DistanceM  float64 `json:"distanceM" db:"distance_m"`
	DurationMS int64   `json:"durationMs" db:"duration_ms"`
	CreatedAt  string  `json:"createdAt,omitempty" db:"created_at"`
}

// ConversionsResponse is a paginated page of conversion records.
type ConversionsResponse struct {
	Data       []ConversionRecord `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

// ConversionFilter selects conversion records for listing.
type ConversionFilter struct {
	Status   string `form:"status"`
	Method   string `form:"method"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

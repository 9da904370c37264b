package model

// StatsField names one of the three summary statistics.
type StatsField string

const (
	StatsFieldTotal   StatsField = "total"
	StatsFieldAvgRate StatsField = "avg_rate"
	StatsFieldRemote  StatsField = "remote_count"
)

// StatsSource describes how much of a summary came from the live store.
type StatsSource string

const (
	// StatsSourceLive means every field came from the store.
	StatsSourceLive StatsSource = "live"
	// StatsSourcePartial means at least one field was substituted.
	StatsSourcePartial StatsSource = "partial"
	// StatsSourceFallback means every field was substituted.
	StatsSourceFallback StatsSource = "fallback"
)

// StatsSummary is the per-request aggregate rendered on landing pages.
// All counts are non-negative.
type StatsSummary struct {
	Total       int         `json:"total"`
	AvgRate     int         `json:"avgRate"`
	RemoteCount int         `json:"remoteCount"`
	Source      StatsSource `json:"source"`
	// Fallback lists the fields substituted with design-time constants.
	Fallback []StatsField `json:"fallback,omitempty"`
}

// StatsDefaults holds design-time fallback values for a scope.
type StatsDefaults struct {
	Total       int
	AvgRate     int
	RemoteCount int
}

// Summary converts the defaults into a fully substituted summary.
func (d StatsDefaults) Summary() StatsSummary {
	return StatsSummary{
		Total:       d.Total,
		AvgRate:     d.AvgRate,
		RemoteCount: d.RemoteCount,
		Source:      StatsSourceFallback,
		Fallback:    []StatsField{StatsFieldTotal, StatsFieldAvgRate, StatsFieldRemote},
	}
}

// IsLive reports whether no field was substituted.
func (s StatsSummary) IsLive() bool {
	return len(s.Fallback) == 0
}

package model

import "time"

// PeriodSetup holds the materiality benchmarks and staffing assignments for
// one period. On roll-forward the current amounts shift into the prior slots
// and current amounts plus assignments are cleared.
type PeriodSetup struct {
	ClientID           string
	PeriodID           string
	Benchmark          string
	BenchmarkCurrent   *float64
	BenchmarkPrior     *float64
	MaterialityCurrent *float64
	MaterialityPrior   *float64
	PerformanceCurrent *float64
	PerformancePrior   *float64
	PreparerID         string
	ReviewerID         string
	UpdatedAt          time.Time
}

// Package materiality renders the materiality assessment document from a
// period's setup record.
package materiality

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"

	"github.com/shopspring/decimal"
)

// performanceRatio is applied to overall materiality when no performance
// materiality has been set explicitly.
var performanceRatio = decimal.NewFromFloat(0.75)

// trivialRatio derives the clearly-trivial threshold from overall materiality.
var trivialRatio = decimal.NewFromFloat(0.05)

// Generate renders the materiality markdown for a period from its setup
// record, stamped with the given generation time.
func Generate(setup *model.PeriodSetup, at time.Time) *model.Materiality {
	var b strings.Builder

	b.WriteString("# Materiality assessment\n\n")
	benchmark := setup.Benchmark
	if benchmark == "" {
		benchmark = "Not selected"
	}
	fmt.Fprintf(&b, "Benchmark: %s\n\n", benchmark)

	b.WriteString("| Measure | Current | Prior |\n")
	b.WriteString("|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Benchmark amount | %s | %s |\n",
		formatAmount(setup.BenchmarkCurrent), formatAmount(setup.BenchmarkPrior))
	fmt.Fprintf(&b, "| Overall materiality | %s | %s |\n",
		formatAmount(setup.MaterialityCurrent), formatAmount(setup.MaterialityPrior))

	performance := setup.PerformanceCurrent
	derived := false
	if performance == nil && setup.MaterialityCurrent != nil {
		p, _ := performanceRatio.Mul(decimal.NewFromFloat(*setup.MaterialityCurrent)).Float64()
		performance = &p
		derived = true
	}
	fmt.Fprintf(&b, "| Performance materiality | %s | %s |\n",
		formatAmount(performance), formatAmount(setup.PerformancePrior))

	if setup.MaterialityCurrent != nil {
		trivial := trivialRatio.Mul(decimal.NewFromFloat(*setup.MaterialityCurrent))
		fmt.Fprintf(&b, "| Clearly trivial threshold | %s | — |\n", trivial.StringFixed(2))
	}

	if derived {
		fmt.Fprintf(&b, "\nPerformance materiality defaulted to %s%% of overall materiality.\n",
			performanceRatio.Mul(decimal.NewFromInt(100)).StringFixed(0))
	}
	if setup.PreparerID != "" || setup.ReviewerID != "" {
		b.WriteString("\n")
		if setup.PreparerID != "" {
			fmt.Fprintf(&b, "Prepared by: %s\n", setup.PreparerID)
		}
		if setup.ReviewerID != "" {
			fmt.Fprintf(&b, "Reviewed by: %s\n", setup.ReviewerID)
		}
	}

	return &model.Materiality{
		GeneratedMarkdown: b.String(),
		GeneratedAt:       at.UTC(),
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return "—"
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

package schedule

import (
	"testing"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"
)

func amount(v float64) *float64 { return &v }

func singleSection(lines ...model.Line) *model.SimpleSchedule {
	return &model.SimpleSchedule{Sections: []model.Section{{Title: "Main", Lines: lines}}}
}

func TestValuesTotalWithNilInput(t *testing.T) {
	doc := singleSection(
		model.Line{ID: "a", Type: model.LineInput, Label: "A", Amount: amount(10)},
		model.Line{ID: "b", Type: model.LineInput, Label: "B"},
		model.Line{ID: "t", Type: model.LineTotal, Label: "Total", SumOf: []string{"a", "b"}},
	)

	values := Values(doc)
	if values["t"] != 10 {
		t.Errorf("TOTAL with nil input: got %v, want 10", values["t"])
	}
}

func TestValuesCalcSignedSum(t *testing.T) {
	doc := singleSection(
		model.Line{ID: "a", Type: model.LineInput, Label: "A", Amount: amount(10)},
		model.Line{ID: "b", Type: model.LineInput, Label: "B"},
		model.Line{ID: "c", Type: model.LineCalc, Label: "C", Add: []string{"a"}, Subtract: []string{"b"}},
	)

	values := Values(doc)
	if values["c"] != 10 {
		t.Errorf("CALC with nil subtracted input: got %v, want 10", values["c"])
	}
}

func TestValuesCrossSectionReference(t *testing.T) {
	doc := &model.SimpleSchedule{Sections: []model.Section{
		{Title: "Cost", Lines: []model.Line{
			{ID: "cost", Type: model.LineInput, Label: "Cost", Amount: amount(500)},
		}},
		{Title: "Summary", Lines: []model.Line{
			{ID: "total", Type: model.LineTotal, Label: "Total", SumOf: []string{"cost", "other"}},
		}},
	}}

	values := Values(doc)
	if values["total"] != 500 {
		t.Errorf("Cross-section reference: got %v, want 500", values["total"])
	}
}

func TestValuesMultiHopChain(t *testing.T) {
	// A CALC referencing another CALC, declared before its dependency
	// resolves (forward reference).
	doc := singleSection(
		model.Line{ID: "net", Type: model.LineCalc, Label: "Net", Add: []string{"gross"}, Subtract: []string{"allowance"}},
		model.Line{ID: "gross", Type: model.LineCalc, Label: "Gross", Add: []string{"a", "b"}},
		model.Line{ID: "a", Type: model.LineInput, Label: "A", Amount: amount(70)},
		model.Line{ID: "b", Type: model.LineInput, Label: "B", Amount: amount(30)},
		model.Line{ID: "allowance", Type: model.LineInput, Label: "Allowance", Amount: amount(25)},
	)

	values := Values(doc)
	if values["gross"] != 100 {
		t.Errorf("Gross: got %v, want 100", values["gross"])
	}
	if values["net"] != 75 {
		t.Errorf("Net: got %v, want 75", values["net"])
	}
}

func TestValuesSelfCycle(t *testing.T) {
	doc := singleSection(
		model.Line{ID: "c", Type: model.LineCalc, Label: "Self", Add: []string{"c"}},
	)

	values := Values(doc)
	if values["c"] != 0 {
		t.Errorf("Direct self-cycle: got %v, want 0", values["c"])
	}
}

func TestValuesMutualCycle(t *testing.T) {
	doc := singleSection(
		model.Line{ID: "x", Type: model.LineCalc, Label: "X", Add: []string{"y", "a"}},
		model.Line{ID: "y", Type: model.LineCalc, Label: "Y", Add: []string{"x"}},
		model.Line{ID: "a", Type: model.LineInput, Label: "A", Amount: amount(5)},
	)

	// The cycle must not loop forever; the revisited node contributes 0.
	values := Values(doc)
	if values["x"] != 5 {
		t.Errorf("X: got %v, want 5", values["x"])
	}
}

func TestValuesUnknownReference(t *testing.T) {
	doc := singleSection(
		model.Line{ID: "t", Type: model.LineTotal, Label: "Total", SumOf: []string{"missing"}},
	)

	values := Values(doc)
	if values["t"] != 0 {
		t.Errorf("Unknown reference: got %v, want 0", values["t"])
	}
}

func TestAttachSetsOnlyComputedLines(t *testing.T) {
	doc := singleSection(
		model.Line{ID: "a", Type: model.LineInput, Label: "A", Amount: amount(10)},
		model.Line{ID: "t", Type: model.LineTotal, Label: "Total", SumOf: []string{"a"}},
	)

	Attach(doc)

	lines := doc.Sections[0].Lines
	if lines[0].Value != nil {
		t.Error("INPUT lines must not get an attached value")
	}
	if lines[1].Value == nil || *lines[1].Value != 10 {
		t.Errorf("TOTAL value: got %v, want 10", lines[1].Value)
	}
}

func TestValuesIsPure(t *testing.T) {
	doc := singleSection(
		model.Line{ID: "a", Type: model.LineInput, Label: "A", Amount: amount(10)},
		model.Line{ID: "t", Type: model.LineTotal, Label: "Total", SumOf: []string{"a"}},
	)

	_ = Values(doc)
	if doc.Sections[0].Lines[1].Value != nil {
		t.Error("Values must not modify the document")
	}
}

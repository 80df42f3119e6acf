// Package templates holds the static registry of working-paper templates.
// Templates are configuration data: each code maps to a document kind, a
// version, and a blank content constructor used the first time a period
// needs the document.
package templates

import (
	"sort"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"
)

// Template describes one working-paper template.
type Template struct {
	Code    string
	Title   string
	Kind    model.DocumentKind
	Version int
	Blank   func() model.Content
}

// Get returns the template for a code.
func Get(code string) (Template, bool) {
	tpl, ok := registry[code]
	return tpl, ok
}

// Codes returns all registered template codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

var registry = map[string]Template{
	"A10": {
		Code:    "A10",
		Title:   "Planning and acceptance checklist",
		Kind:    model.KindChecklist,
		Version: 1,
		Blank:   blankPlanningChecklist,
	},
	"A20": {
		Code:    "A20",
		Title:   "Materiality assessment",
		Kind:    model.KindMateriality,
		Version: 1,
		Blank:   func() model.Content { return &model.Materiality{} },
	},
	"B10": {
		Code:    "B10",
		Title:   "Bank reconciliation",
		Kind:    model.KindLineItemSchedule,
		Version: 1,
		Blank:   blankBankReconciliation,
	},
	"C10": {
		Code:    "C10",
		Title:   "Property, plant and equipment movement",
		Kind:    model.KindSimpleSchedule,
		Version: 2,
		Blank:   blankPPEMovement,
	},
	"D10": {
		Code:    "D10",
		Title:   "Trade receivables",
		Kind:    model.KindLineItemSchedule,
		Version: 1,
		Blank:   blankTradeReceivables,
	},
	"Z10": {
		Code:    "Z10",
		Title:   "Completion checklist",
		Kind:    model.KindChecklist,
		Version: 1,
		Blank:   blankCompletionChecklist,
	},
}

func blankPlanningChecklist() model.Content {
	return &model.Checklist{Rows: []model.ChecklistRow{
		{ID: "a10-1", Text: "Engagement letter signed and on file"},
		{ID: "a10-2", Text: "Independence and ethics confirmations obtained from the team"},
		{ID: "a10-3", Text: "Prior period working papers reviewed for carried-forward matters"},
		{ID: "a10-4", Text: "Fraud risk discussion held and documented"},
		{ID: "a10-5", Text: "Materiality assessed and approved"},
	}}
}

func blankCompletionChecklist() model.Content {
	return &model.Checklist{Rows: []model.ChecklistRow{
		{ID: "z10-1", Text: "All schedules agreed to the trial balance"},
		{ID: "z10-2", Text: "Subsequent events reviewed to the report date"},
		{ID: "z10-3", Text: "Going concern assessment completed"},
		{ID: "z10-4", Text: "Points forward for next period recorded"},
	}}
}

func blankBankReconciliation() model.Content {
	return &model.LineItemSchedule{
		Title: "Bank reconciliation",
		Rows: []model.LineItemRow{
			{ID: "b10-stmt", Name: "Balance per bank statement"},
			{ID: "b10-deposits", Name: "Add: deposits in transit"},
			{ID: "b10-cheques", Name: "Less: unpresented cheques"},
			{ID: "b10-ledger", Name: "Balance per general ledger"},
		},
	}
}

func blankTradeReceivables() model.Content {
	return &model.LineItemSchedule{
		Title: "Trade receivables",
		Rows: []model.LineItemRow{
			{ID: "d10-gross", Name: "Gross trade receivables"},
			{ID: "d10-allowance", Name: "Allowance for doubtful debts"},
			{ID: "d10-net", Name: "Net trade receivables"},
		},
	}
}

func blankPPEMovement() model.Content {
	return &model.SimpleSchedule{
		Attachments: []model.Attachment{},
		Sections: []model.Section{
			{
				Title: "Cost",
				Lines: []model.Line{
					{ID: "c10-cost-open", Type: model.LineInput, Label: "Opening cost"},
					{ID: "c10-additions", Type: model.LineInput, Label: "Additions"},
					{ID: "c10-disposals", Type: model.LineInput, Label: "Disposals"},
					{ID: "c10-cost-close", Type: model.LineCalc, Label: "Closing cost",
						Add: []string{"c10-cost-open", "c10-additions"}, Subtract: []string{"c10-disposals"}},
				},
			},
			{
				Title: "Accumulated depreciation",
				Lines: []model.Line{
					{ID: "c10-dep-open", Type: model.LineInput, Label: "Opening accumulated depreciation"},
					{ID: "c10-charge", Type: model.LineInput, Label: "Depreciation charge"},
					{ID: "c10-dep-disposals", Type: model.LineInput, Label: "Depreciation on disposals"},
					{ID: "c10-dep-close", Type: model.LineCalc, Label: "Closing accumulated depreciation",
						Add: []string{"c10-dep-open", "c10-charge"}, Subtract: []string{"c10-dep-disposals"}},
				},
			},
			{
				Title: "Carrying amount",
				Lines: []model.Line{
					{ID: "c10-nbv", Type: model.LineCalc, Label: "Closing carrying amount",
						Add: []string{"c10-cost-close"}, Subtract: []string{"c10-dep-close"}},
				},
			},
		},
	}
}

package rollforward

import "github.com/fieldpaper-dev/fieldpaper/internal/model"

// ResetContent returns a deep copy of the content transformed for a new
// period. Identity fields (row ids, names, labels, line definitions) are
// preserved; user-entered values are cleared per kind:
//
//   - line-item schedules keep row id/name, clear description and both amounts
//   - simple schedules clear attachment URLs and INPUT amounts, blank any
//     section notes that were set, and leave TOTAL/CALC definitions untouched
//   - checklists clear every response
//   - materiality content starts blank and is regenerated for the new period
func ResetContent(c model.Content) model.Content {
	switch v := c.(type) {
	case *model.LineItemSchedule:
		clone := v.Clone()
		for i := range clone.Rows {
			clone.Rows[i].Description = ""
			clone.Rows[i].Current = nil
			clone.Rows[i].Prior = nil
		}
		return clone
	case *model.SimpleSchedule:
		clone := v.Clone()
		for i := range clone.Attachments {
			clone.Attachments[i].URL = ""
		}
		for i := range clone.Sections {
			sec := &clone.Sections[i]
			if sec.Notes != nil {
				empty := ""
				sec.Notes = &empty
			}
			for j := range sec.Lines {
				line := &sec.Lines[j]
				if line.Type == model.LineInput {
					line.Amount = nil
				}
				line.Value = nil
			}
		}
		return clone
	case *model.Checklist:
		clone := v.Clone()
		for i := range clone.Rows {
			clone.Rows[i].Response = nil
		}
		return clone
	case *model.Materiality:
		return &model.Materiality{}
	}
	return c
}

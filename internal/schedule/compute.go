// Package schedule computes the derived TOTAL and CALC values of simple
// schedules from their INPUT amounts.
//
// Resolution is by id lookup across the whole document, so a reference may
// name a line in another section. Schedules are user data and may be
// transiently inconsistent: an unresolved reference, a nil amount, or a
// reference cycle contributes 0 rather than failing.
package schedule

import "github.com/fieldpaper-dev/fieldpaper/internal/model"

type resolver struct {
	lines    map[string]*model.Line
	values   map[string]float64
	visiting map[string]bool
}

// Values computes the value of every line in the schedule, keyed by line id.
// INPUT lines evaluate to their amount (nil as 0); TOTAL and CALC lines to
// their signed sums. The computation is pure; the document is not modified.
func Values(doc *model.SimpleSchedule) map[string]float64 {
	r := &resolver{
		lines:    index(doc),
		values:   make(map[string]float64),
		visiting: make(map[string]bool),
	}
	for _, sec := range doc.Sections {
		for _, line := range sec.Lines {
			r.resolve(line.ID)
		}
	}
	return r.values
}

// Attach sets Value on every TOTAL and CALC line from a fresh computation.
// Used on document reads; the attached values are never persisted.
func Attach(doc *model.SimpleSchedule) {
	values := Values(doc)
	for i := range doc.Sections {
		for j := range doc.Sections[i].Lines {
			line := &doc.Sections[i].Lines[j]
			if line.Type != model.LineTotal && line.Type != model.LineCalc {
				continue
			}
			v := values[line.ID]
			line.Value = &v
		}
	}
}

func index(doc *model.SimpleSchedule) map[string]*model.Line {
	lines := make(map[string]*model.Line)
	for i := range doc.Sections {
		for j := range doc.Sections[i].Lines {
			line := &doc.Sections[i].Lines[j]
			if _, ok := lines[line.ID]; !ok {
				lines[line.ID] = line
			}
		}
	}
	return lines
}

// resolve returns the value for an id, memoizing as it goes. Unknown ids and
// ids currently being resolved (a cycle) yield 0.
func (r *resolver) resolve(id string) float64 {
	if v, ok := r.values[id]; ok {
		return v
	}
	line, ok := r.lines[id]
	if !ok || r.visiting[id] {
		return 0
	}
	r.visiting[id] = true
	defer delete(r.visiting, id)

	var v float64
	switch line.Type {
	case model.LineInput:
		if line.Amount != nil {
			v = *line.Amount
		}
	case model.LineTotal:
		for _, ref := range line.SumOf {
			v += r.resolve(ref)
		}
	case model.LineCalc:
		for _, ref := range line.Add {
			v += r.resolve(ref)
		}
		for _, ref := range line.Subtract {
			v -= r.resolve(ref)
		}
	}
	r.values[id] = v
	return v
}

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DocumentKind discriminates the closed set of working-paper document shapes.
type DocumentKind string

// Working-paper document kinds.
const (
	KindLineItemSchedule DocumentKind = "LINE_ITEM_SCHEDULE"
	KindSimpleSchedule   DocumentKind = "SIMPLE_SCHEDULE"
	KindChecklist        DocumentKind = "CHECKLIST"
	KindMateriality      DocumentKind = "MATERIALITY"
)

// Content is the kind-specific body of a working-paper document. The set of
// implementations is closed; reset and computation logic switch exhaustively
// over it.
type Content interface {
	DocumentKind() DocumentKind
}

// Document is one working paper within a period, keyed by
// (ClientID, PeriodID, Code). Instances are superseded, never mutated, on
// roll-forward.
type Document struct {
	ClientID  string
	PeriodID  string
	Code      string
	Kind      DocumentKind
	Version   int
	Content   Content
	Complete  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItemSchedule is an ordered schedule of named amounts with a
// current/prior comparison per row.
type LineItemSchedule struct {
	Title string        `json:"title"`
	Rows  []LineItemRow `json:"rows"`
}

// DocumentKind implements Content.
func (*LineItemSchedule) DocumentKind() DocumentKind { return KindLineItemSchedule }

// LineItemRow is one row of a line-item schedule. Nil amounts mean "not yet
// entered" and are distinct from zero.
type LineItemRow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Current     *float64 `json:"current"`
	Prior       *float64 `json:"prior"`
}

// SimpleSchedule is a sectioned schedule whose TOTAL and CALC lines are
// computed from INPUT amounts on read. Only INPUT amounts are persisted.
type SimpleSchedule struct {
	Attachments []Attachment `json:"attachments"`
	Sections    []Section    `json:"sections"`
}

// DocumentKind implements Content.
func (*SimpleSchedule) DocumentKind() DocumentKind { return KindSimpleSchedule }

// Attachment references supporting evidence stored elsewhere.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Section groups an ordered run of lines under a title.
type Section struct {
	Title string  `json:"title"`
	Notes *string `json:"notes,omitempty"`
	Lines []Line  `json:"lines"`
}

// LineType discriminates the line variants of a simple schedule.
type LineType string

// Simple-schedule line types.
const (
	LineInput LineType = "INPUT"
	LineTotal LineType = "TOTAL"
	LineCalc  LineType = "CALC"
)

// Line is one line of a simple schedule. Amount is meaningful only for INPUT
// lines; SumOf only for TOTAL; Add/Subtract only for CALC. Value holds the
// computed result for TOTAL/CALC lines, attached on read and never persisted.
type Line struct {
	ID       string   `json:"id"`
	Type     LineType `json:"type"`
	Label    string   `json:"label"`
	Amount   *float64 `json:"amount,omitempty"`
	SumOf    []string `json:"sumOf,omitempty"`
	Add      []string `json:"add,omitempty"`
	Subtract []string `json:"subtract,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

// Checklist is an ordered list of questions answered AGREED, NA, or left
// unanswered.
type Checklist struct {
	Rows []ChecklistRow `json:"rows"`
}

// DocumentKind implements Content.
func (*Checklist) DocumentKind() DocumentKind { return KindChecklist }

// ChecklistResponse is an answer to a checklist row.
type ChecklistResponse string

// Checklist responses.
const (
	ResponseAgreed ChecklistResponse = "AGREED"
	ResponseNA     ChecklistResponse = "NA"
)

// ChecklistRow is one checklist question. A nil response means unanswered.
type ChecklistRow struct {
	ID       string             `json:"id"`
	Text     string             `json:"text"`
	Response *ChecklistResponse `json:"response"`
}

// Materiality holds the generated materiality assessment for a period.
type Materiality struct {
	GeneratedMarkdown string    `json:"generatedMarkdown"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// DocumentKind implements Content.
func (*Materiality) DocumentKind() DocumentKind { return KindMateriality }

// DecodeContent unmarshals a persisted content payload into the concrete type
// for the given kind.
func DecodeContent(kind DocumentKind, raw []byte) (Content, error) {
	var c Content
	switch kind {
	case KindLineItemSchedule:
		c = &LineItemSchedule{}
	case KindSimpleSchedule:
		c = &SimpleSchedule{}
	case KindChecklist:
		c = &Checklist{}
	case KindMateriality:
		c = &Materiality{}
	default:
		return nil, fmt.Errorf("unknown document kind: %q", kind)
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("failed to decode %s content: %w", kind, err)
	}
	return c, nil
}

// EncodeContent marshals content for persistence. Computed values on
// TOTAL/CALC lines are stripped first; only user-entered amounts are stored.
func EncodeContent(c Content) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("document content cannot be nil")
	}
	if ss, ok := c.(*SimpleSchedule); ok {
		clone := ss.Clone()
		for i := range clone.Sections {
			for j := range clone.Sections[i].Lines {
				clone.Sections[i].Lines[j].Value = nil
			}
		}
		c = clone
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s content: %w", c.DocumentKind(), err)
	}
	return raw, nil
}

// Clone returns a deep copy of the schedule.
func (s *SimpleSchedule) Clone() *SimpleSchedule {
	clone := &SimpleSchedule{
		Attachments: make([]Attachment, len(s.Attachments)),
		Sections:    make([]Section, len(s.Sections)),
	}
	copy(clone.Attachments, s.Attachments)
	for i, sec := range s.Sections {
		cs := Section{Title: sec.Title, Lines: make([]Line, len(sec.Lines))}
		if sec.Notes != nil {
			notes := *sec.Notes
			cs.Notes = &notes
		}
		for j, line := range sec.Lines {
			cl := line
			cl.SumOf = append([]string(nil), line.SumOf...)
			cl.Add = append([]string(nil), line.Add...)
			cl.Subtract = append([]string(nil), line.Subtract...)
			if line.Amount != nil {
				amount := *line.Amount
				cl.Amount = &amount
			}
			if line.Value != nil {
				value := *line.Value
				cl.Value = &value
			}
			cs.Lines[j] = cl
		}
		clone.Sections[i] = cs
	}
	return clone
}

// Clone returns a deep copy of the schedule.
func (s *LineItemSchedule) Clone() *LineItemSchedule {
	clone := &LineItemSchedule{Title: s.Title, Rows: make([]LineItemRow, len(s.Rows))}
	for i, row := range s.Rows {
		cr := row
		if row.Current != nil {
			v := *row.Current
			cr.Current = &v
		}
		if row.Prior != nil {
			v := *row.Prior
			cr.Prior = &v
		}
		clone.Rows[i] = cr
	}
	return clone
}

// Clone returns a deep copy of the checklist.
func (c *Checklist) Clone() *Checklist {
	clone := &Checklist{Rows: make([]ChecklistRow, len(c.Rows))}
	for i, row := range c.Rows {
		cr := row
		if row.Response != nil {
			resp := *row.Response
			cr.Response = &resp
		}
		clone.Rows[i] = cr
	}
	return clone
}

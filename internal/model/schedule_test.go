package model

import (
	"strings"
	"testing"
)

func amount(v float64) *float64 { return &v }

func TestEncodeContentStripsComputedValues(t *testing.T) {
	sched := &SimpleSchedule{Sections: []Section{{
		Title: "Main",
		Lines: []Line{
			{ID: "a", Type: LineInput, Label: "A", Amount: amount(10)},
			{ID: "t", Type: LineTotal, Label: "Total", SumOf: []string{"a"}, Value: amount(10)},
		},
	}}}

	raw, err := EncodeContent(sched)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if strings.Contains(string(raw), `"value"`) {
		t.Errorf("Computed values leaked into the payload: %s", raw)
	}
	if !strings.Contains(string(raw), `"amount":10`) {
		t.Errorf("Entered amount missing from the payload: %s", raw)
	}

	// Encoding must not strip the value from the caller's copy.
	if sched.Sections[0].Lines[1].Value == nil {
		t.Error("Encode mutated the source content")
	}
}

func TestEncodeContentNil(t *testing.T) {
	if _, err := EncodeContent(nil); err == nil {
		t.Error("Encoding nil content should fail")
	}
}

func TestDecodeContentRoundTrip(t *testing.T) {
	src := &Checklist{Rows: []ChecklistRow{{ID: "q1", Text: "Signed?"}}}
	raw, err := EncodeContent(src)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	decoded, err := DecodeContent(KindChecklist, raw)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	checklist, ok := decoded.(*Checklist)
	if !ok {
		t.Fatalf("Decoded wrong type: %T", decoded)
	}
	if len(checklist.Rows) != 1 || checklist.Rows[0].ID != "q1" {
		t.Errorf("Round trip lost rows: %+v", checklist.Rows)
	}
}

func TestDecodeContentUnknownKind(t *testing.T) {
	if _, err := DecodeContent(DocumentKind("SPREADSHEET"), []byte(`{}`)); err == nil {
		t.Error("Unknown kind should fail to decode")
	}
}

func TestSimpleScheduleCloneIsDeep(t *testing.T) {
	notes := "original"
	src := &SimpleSchedule{
		Attachments: []Attachment{{ID: "att1", Name: "Statement", URL: "https://example.com/s.pdf"}},
		Sections: []Section{{
			Title: "Main",
			Notes: &notes,
			Lines: []Line{{ID: "a", Type: LineInput, Label: "A", Amount: amount(10)}},
		}},
	}

	clone := src.Clone()
	*clone.Sections[0].Notes = "changed"
	*clone.Sections[0].Lines[0].Amount = 99
	clone.Attachments[0].URL = ""

	if *src.Sections[0].Notes != "original" {
		t.Error("Clone shares section notes with the source")
	}
	if *src.Sections[0].Lines[0].Amount != 10 {
		t.Error("Clone shares line amounts with the source")
	}
	if src.Attachments[0].URL == "" {
		t.Error("Clone shares attachments with the source")
	}
}

func TestChecklistCloneIsDeep(t *testing.T) {
	response := ResponseAgreed
	src := &Checklist{Rows: []ChecklistRow{{ID: "q1", Text: "Signed?", Response: &response}}}

	clone := src.Clone()
	*clone.Rows[0].Response = ResponseNA

	if *src.Rows[0].Response != ResponseAgreed {
		t.Error("Clone shares responses with the source")
	}
}

func TestLineItemScheduleCloneIsDeep(t *testing.T) {
	src := &LineItemSchedule{
		Title: "Bank reconciliation",
		Rows:  []LineItemRow{{ID: "r1", Name: "Operating account", Current: amount(500)}},
	}

	clone := src.Clone()
	*clone.Rows[0].Current = 0

	if *src.Rows[0].Current != 500 {
		t.Error("Clone shares row amounts with the source")
	}
}

package rollforward

import (
	"testing"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"
)

func TestResetContentLineItemSchedule(t *testing.T) {
	current := 500.0
	prior := 450.0
	src := &model.LineItemSchedule{
		Title: "Bank reconciliation",
		Rows: []model.LineItemRow{
			{ID: "r1", Name: "Operating account", Description: "per statement", Current: &current, Prior: &prior},
		},
	}

	got, ok := ResetContent(src).(*model.LineItemSchedule)
	if !ok {
		t.Fatal("Reset changed the content kind")
	}
	row := got.Rows[0]
	if row.ID != "r1" || row.Name != "Operating account" {
		t.Errorf("Row identity changed: %+v", row)
	}
	if row.Description != "" || row.Current != nil || row.Prior != nil {
		t.Errorf("Row values not cleared: %+v", row)
	}
	if src.Rows[0].Current == nil {
		t.Error("Reset mutated the source content")
	}
}

func TestResetContentMateriality(t *testing.T) {
	src := &model.Materiality{GeneratedMarkdown: "# Materiality\n..."}

	got, ok := ResetContent(src).(*model.Materiality)
	if !ok {
		t.Fatal("Reset changed the content kind")
	}
	if got.GeneratedMarkdown != "" {
		t.Error("Materiality content should start blank in the new period")
	}
	if !got.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be zero in the new period")
	}
}

package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/AtlasGrid/internal/model"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overview.pdf")
	g, settings := buildTestGrid(t)

	if err := ExportPDF(path, g, settings); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_PlainLatticeSpansIndexPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.pdf")
	g, settings := buildPlainGrid(t)
	if len(g.Sheets) != 36 {
		t.Fatalf("expected 36 sheets, got %d", len(g.Sheets))
	}

	if err := ExportPDF(path, g, settings); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}

func TestExportPDF_EmptyGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, &model.Grid{}, buildTestSettings()); err == nil {
		t.Fatal("expected error for empty grid, got nil")
	}
	if err := ExportPDF(path, nil, buildTestSettings()); err == nil {
		t.Fatal("expected error for nil grid, got nil")
	}
}

func TestColorFor(t *testing.T) {
	if colorFor(0) != unnumbered {
		t.Error("block 0 should use the unnumbered colour")
	}
	if colorFor(1) != blockColors[0] {
		t.Error("block 1 should use the first colour")
	}
	if colorFor(len(blockColors)+1) != blockColors[0] {
		t.Error("colours should cycle")
	}
}

func TestFitTransform(t *testing.T) {
	tr := fitTransform(0, 0, 1000, 500, 10, 20, 200, 200)
	if tr.scale != 0.2 {
		t.Fatalf("scale = %v, want 0.2", tr.scale)
	}
	if got := tr.x(0); got != 10 {
		t.Errorf("x(0) = %v, want 10", got)
	}
	// ground top maps to the top of the drawing area
	if got := tr.y(500); got != 20 {
		t.Errorf("y(500) = %v, want 20", got)
	}
	if got := tr.y(0); got != 120 {
		t.Errorf("y(0) = %v, want 120", got)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 25, 7},
		{10, 15, 6},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestNumberOrDash(t *testing.T) {
	if got := numberOrDash(0); got != "-" {
		t.Errorf("numberOrDash(0) = %q", got)
	}
	if got := numberOrDash(12); got != "12" {
		t.Errorf("numberOrDash(12) = %q", got)
	}
}

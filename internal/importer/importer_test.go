package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/xuri/excelize/v2"
)

func boundOf(p orb.Polygon) orb.Bound { return p.Bound() }

func wantBound(t *testing.T, p orb.Polygon, minX, minY, maxX, maxY float64) {
	t.Helper()
	want := orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
	if got := boundOf(p); got != want {
		t.Errorf("expected bound %v, got %v", want, got)
	}
}

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("xmin,ymin,xmax,ymax\n0,0,10,10\n20,20,30,30\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("xmin;ymin;xmax;ymax\n0,5;0;10;10\n20;20;30;30\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("xmin\tymin\txmax\tymax\n0\t0\t10\t10\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("xmin|ymin|xmax|ymax\n0|0|10|10\n")
	if got := DetectCSVDelimiter(data); got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"xmin", "ymin", "xmax", "ymax"})
	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping != (ColumnMapping{XMin: 0, YMin: 1, XMax: 2, YMax: 3}) {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_CompassAliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Name", "North", "WEST", "south", "East"})
	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping != (ColumnMapping{XMin: 2, YMin: 3, XMax: 4, YMax: 1}) {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"0", "0", "10", "10"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping != (ColumnMapping{XMin: 0, YMin: 1, XMax: 2, YMax: 3}) {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "id,left,bottom,right,top\na,0,0,100,50\nb,200,200,250,300\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', "EPSG:3857")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.AoI.Polygons) != 2 {
		t.Fatalf("expected 2 polygons, got %d", len(result.AoI.Polygons))
	}
	if result.AoI.CRS != "EPSG:3857" {
		t.Errorf("expected CRS EPSG:3857, got %q", result.AoI.CRS)
	}
	wantBound(t, result.AoI.Polygons[0], 0, 0, 100, 50)
	wantBound(t, result.AoI.Polygons[1], 200, 200, 250, 300)
	if len(result.AoI.Polygons[0][0]) != 5 {
		t.Errorf("expected a closed 5-point ring, got %d points", len(result.AoI.Polygons[0][0]))
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("0,0,10,10\n5,5,15,15\n"), ',', "")

	if len(result.AoI.Polygons) != 2 {
		t.Fatalf("expected 2 polygons, got %d (errors: %v)", len(result.AoI.Polygons), result.Errors)
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "header") {
			t.Errorf("unexpected header warning: %s", w)
		}
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("a,b,c,d\n0,0,10,10\n"), ',', "")
	if len(result.AoI.Polygons) != 1 {
		t.Fatalf("expected 1 polygon, got %d (errors: %v)", len(result.AoI.Polygons), result.Errors)
	}
}

func TestImportCSVFromReader_ReversedBounds(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("10,10,0,0\n"), ',', "")
	if len(result.AoI.Polygons) != 1 {
		t.Fatalf("expected 1 polygon, got %d (errors: %v)", len(result.AoI.Polygons), result.Errors)
	}
	wantBound(t, result.AoI.Polygons[0], 0, 0, 10, 10)
	if len(result.Warnings) != 1 {
		t.Errorf("expected a warning for reversed bounds, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_InvalidValue(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("xmin,ymin,xmax,ymax\n0,abc,10,10\n0,0,10,10\n"), ',', "")
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 2") || !strings.Contains(result.Errors[0], "ymin") {
		t.Errorf("error should name line and column: %s", result.Errors[0])
	}
	if len(result.AoI.Polygons) != 1 {
		t.Errorf("expected the valid row to be imported, got %d polygons", len(result.AoI.Polygons))
	}
}

func TestImportCSVFromReader_ZeroArea(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("0,0,0,10\n"), ',', "")
	if len(result.Errors) == 0 {
		t.Error("expected error for zero width rectangle")
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("xmin,ymin,xmax\n0,0,10\n"), ',', "")
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "ymax") {
		t.Errorf("expected missing ymax, got %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyRows(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("0,0,10,10\n,,,\n\n1,1,2,2\n"), ',', "")
	if len(result.AoI.Polygons) != 2 {
		t.Errorf("expected 2 polygons, got %d (errors: %v)", len(result.AoI.Polygons), result.Errors)
	}
}

func TestImportCSVFromReader_Empty(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',', "")
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aoi.csv")
	if err := os.WriteFile(path, []byte("xmin;ymin;xmax;ymax\n0;0;10;10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path, "EPSG:4326")
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.AoI.Polygons) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(result.AoI.Polygons))
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/aoi.csv", "")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "aoi.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "XMin", "YMin", "XMax", "YMax"},
		{"harbour", 100, 200, 300, 400},
		{"airport", 1000.5, 2000, 1100, 2100},
	})

	result := ImportExcel(path, "EPSG:3857")
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.AoI.Polygons) != 2 {
		t.Fatalf("expected 2 polygons, got %d", len(result.AoI.Polygons))
	}
	wantBound(t, result.AoI.Polygons[1], 1000.5, 2000, 1100, 2100)
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"xmin", "ymin", "xmax", "ymax"},
		{"abc", 0, 10, 10},
	})

	result := ImportExcel(path, "")
	if len(result.Errors) == 0 {
		t.Error("expected error for invalid xmin")
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/aoi.xlsx", "")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── ImportFile Tests ──────────────────────────────────────

func TestImportFile_DispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aoi.TSV")
	if err := os.WriteFile(path, []byte("0\t0\t1\t1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := ImportFile(path, ""); len(result.AoI.Polygons) != 1 {
		t.Errorf("expected 1 polygon from tsv, got %d (errors: %v)", len(result.AoI.Polygons), result.Errors)
	}

	if result := ImportFile(filepath.Join(dir, "aoi.shp"), ""); len(result.Errors) == 0 {
		t.Error("expected error for unsupported extension")
	}
}

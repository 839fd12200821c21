// Package importer reads areas of interest from GeoJSON, DXF, CSV and
// Excel files and parses extent strings. Importers collect row or feature
// level problems into the result instead of failing the whole file.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/piwi3910/AtlasGrid/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	AoI      model.AreaOfInterest
	Errors   []string
	Warnings []string
}

func (r *ImportResult) addPolygon(p orb.Polygon) {
	r.AoI.Polygons = append(r.AoI.Polygons, p)
}

// ImportFile picks an importer from the file extension. crs overrides the
// reference system of the file; an empty crs keeps the format default.
func ImportFile(path, crs string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return ImportGeoJSON(path, crs)
	case ".dxf":
		return ImportDXF(path, crs)
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path, crs)
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path, crs)
	}
	return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type %q", filepath.Ext(path))}}
}

// ColumnMapping maps the rectangle bounds to their indices in the data.
type ColumnMapping struct {
	XMin int
	YMin int
	XMax int
	YMax int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"xmin": {"xmin", "minx", "x_min", "min_x", "left", "west", "x1"},
	"ymin": {"ymin", "miny", "y_min", "min_y", "bottom", "south", "y1"},
	"xmax": {"xmax", "maxx", "x_max", "max_x", "right", "east", "x2"},
	"ymax": {"ymax", "maxy", "y_max", "max_y", "top", "north", "y2"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping xmin, ymin, xmax, ymax and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{XMin: -1, YMin: -1, XMax: -1, YMax: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				var slot *int
				switch role {
				case "xmin":
					slot = &mapping.XMin
				case "ymin":
					slot = &mapping.YMin
				case "xmax":
					slot = &mapping.XMax
				case "ymax":
					slot = &mapping.YMax
				}
				if *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{XMin: 0, YMin: 1, XMax: 2, YMax: 3}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts one rectangle from a row.
// Returns the polygon, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (orb.Polygon, string, string) {
	cols := []struct {
		name string
		idx  int
	}{
		{"xmin", mapping.XMin}, {"ymin", mapping.YMin}, {"xmax", mapping.XMax}, {"ymax", mapping.YMax},
	}
	var v [4]float64
	for i, c := range cols {
		s := getCell(row, c.idx)
		if s == "" {
			return nil, fmt.Sprintf("%s: Missing %s value", rowLabel, c.name), ""
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, c.name, s), ""
		}
		v[i] = f
	}

	var warning string
	if v[0] > v[2] || v[1] > v[3] {
		warning = fmt.Sprintf("%s: Swapped reversed bounds", rowLabel)
		v[0], v[2] = min(v[0], v[2]), max(v[0], v[2])
		v[1], v[3] = min(v[1], v[3]), max(v[1], v[3])
	}
	if v[0] == v[2] || v[1] == v[3] {
		return nil, fmt.Sprintf("%s: Rectangle has zero width or height", rowLabel), ""
	}

	b := orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}
	return b.ToPolygon(), "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports AoI rectangles from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path, crs string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings, crs)
}

// ImportCSVFromReader imports AoI rectangles from a CSV reader with a
// known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, crs string) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil, crs)
}

// ImportExcel imports AoI rectangles from the first sheet of an Excel file.
func ImportExcel(path, crs string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil, crs)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// Rectangle files carry no CRS of their own, so crs is used as given.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, crs string) ImportResult {
	result := ImportResult{
		AoI:      model.AreaOfInterest{CRS: crs},
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.XMin == -1 {
			missing = append(missing, "xmin")
		}
		if mapping.YMin == -1 {
			missing = append(missing, "ymin")
		}
		if mapping.XMax == -1 {
			missing = append(missing, "xmax")
		}
		if mapping.YMax == -1 {
			missing = append(missing, "ymax")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) > 0 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64); err != nil {
			// Unrecognised header: skip it and use positional mapping.
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		poly, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.addPolygon(poly)
	}

	if result.AoI.IsEmpty() && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

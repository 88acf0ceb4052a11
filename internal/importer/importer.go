// Package importer reads material lists from CSV and Excel files and part
// outlines from DXF drawings. It supports automatic delimiter detection,
// flexible column mapping, and case-insensitive header recognition.
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

	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of a material import.
type ImportResult struct {
	Materials []model.MaterialDefinition
	Errors    []string
	Warnings  []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	ID      int
	Name    int
	Density int
	Price   int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":      {"id", "code", "key", "material id", "material_id"},
	"name":    {"name", "material", "material name", "description", "label", "název", "nazev"},
	"density": {"density", "rho", "g/cm3", "g/cm³", "hustota"},
	"price":   {"price", "price/kg", "price per kg", "default price", "defaultpriceperkg", "default_price_per_kg", "cena", "cena/kg"},
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

		// Only delimiters that split the first row count
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
// mapping Name, Density, Price and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Name: -1, Density: -1, Price: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "id":
					if mapping.ID == -1 {
						mapping.ID = i
					}
				case "name":
					if mapping.Name == -1 {
						mapping.Name = i
					}
				case "density":
					if mapping.Density == -1 {
						mapping.Density = i
					}
				case "price":
					if mapping.Price == -1 {
						mapping.Price = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: -1, Name: 0, Density: 1, Price: 2}, false
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

// parseNumber accepts both decimal points and decimal commas ("7,85").
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// parseRow extracts a material from a row using the given column mapping.
// Returns the material, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.MaterialDefinition, string, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		return model.MaterialDefinition{}, fmt.Sprintf("%s: Missing material name", rowLabel), ""
	}

	densityStr := getCell(row, mapping.Density)
	if densityStr == "" {
		return model.MaterialDefinition{}, fmt.Sprintf("%s: Missing density value", rowLabel), ""
	}
	density, err := parseNumber(densityStr)
	if err != nil {
		return model.MaterialDefinition{}, fmt.Sprintf("%s: Invalid density '%s'", rowLabel, densityStr), ""
	}
	if density <= 0 {
		return model.MaterialDefinition{}, fmt.Sprintf("%s: Density must be positive", rowLabel), ""
	}

	m := model.MaterialDefinition{
		ID:      getCell(row, mapping.ID),
		Name:    name,
		Density: density,
	}
	if m.ID == "" {
		m.ID = model.MaterialID(name)
	}

	var warning string
	if priceStr := getCell(row, mapping.Price); priceStr != "" {
		price, err := parseNumber(priceStr)
		switch {
		case err != nil:
			warning = fmt.Sprintf("%s: Invalid price '%s', ignoring", rowLabel, priceStr)
		case price < 0:
			warning = fmt.Sprintf("%s: Negative price ignored", rowLabel)
		default:
			m.DefaultPricePerKg = price
		}
	}

	return m, "", warning
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

// ImportMaterials imports a material list from a .csv, .xlsx or .xls file,
// choosing the reader by extension.
func ImportMaterials(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls", ".xlsm":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports materials from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
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

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports materials from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
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

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports materials from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
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

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Name == -1 {
			missing = append(missing, "Name")
		}
		if mapping.Density == -1 {
			missing = append(missing, "Density")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 2 {
		// A non-numeric density in the first row is an unrecognized header
		if _, err := parseNumber(rows[0][1]); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := map[string]bool{}
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		m, errMsg, warning := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if seen[m.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate material id %s", rowLabel, m.ID))
			continue
		}
		seen[m.ID] = true

		result.Materials = append(result.Materials, m)
	}

	return result
}

// Merge adds imported materials to catalog. Materials whose ID already
// exists replace the existing entry in place. It returns the number of
// added and updated entries.
func Merge(catalog model.Catalog, imported []model.MaterialDefinition) (model.Catalog, int, int) {
	out := append(model.Catalog(nil), catalog...)
	added, updated := 0, 0
	for _, m := range imported {
		if existing := out.Find(m.ID); existing != nil {
			*existing = m
			updated++
			continue
		}
		out = append(out, m)
		added++
	}
	return out, added, updated
}

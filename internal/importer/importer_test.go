package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	cases := map[rune]string{
		',':  "Name,Density,Price\nSteel,7.85,65\nBrass,8.5,280\n",
		';':  "Name;Density;Price\nSteel;7,85;65\nBrass;8,5;280\n",
		'\t': "Name\tDensity\tPrice\nSteel\t7.85\t65\nBrass\t8.5\t280\n",
		'|':  "Name|Density|Price\nSteel|7.85|65\nBrass|8.5|280\n",
	}
	for want, data := range cases {
		if got := DetectCSVDelimiter([]byte(data)); got != want {
			t.Errorf("expected %q delimiter, got %q", want, got)
		}
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_Headers(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Code", "Material", "Hustota", "Cena/kg"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.ID != 0 || mapping.Name != 1 || mapping.Density != 2 || mapping.Price != 3 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_Positional(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Steel", "7.85", "65"})
	if isHeader {
		t.Error("data row must not be detected as header")
	}
	if mapping.ID != -1 || mapping.Name != 0 || mapping.Density != 1 || mapping.Price != 2 {
		t.Errorf("unexpected positional mapping %+v", mapping)
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{"7.85": 7.85, "7,85": 7.85, " 1 200 ": 1200, "2800": 2800}
	for in, want := range cases {
		got, err := parseNumber(in)
		if err != nil || got != want {
			t.Errorf("parseNumber(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseNumber("1,200.50,1"); err == nil {
		t.Error("expected error for malformed number")
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportCSV_WithHeaders(t *testing.T) {
	path := writeFile(t, "materials.csv", "id,name,density,price\nAL,Aluminium 6082,2.71,190\n,Ocel S235,7.85,\n")

	result := ImportMaterials(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(result.Materials))
	}
	if result.Materials[0].ID != "AL" || result.Materials[0].DefaultPricePerKg != 190 {
		t.Errorf("unexpected first material %+v", result.Materials[0])
	}
	if result.Materials[1].ID != "OCEL_S235" {
		t.Errorf("expected derived id OCEL_S235, got %s", result.Materials[1].ID)
	}
	if result.Materials[1].DefaultPricePerKg != 0 {
		t.Errorf("missing price should stay 0, got %v", result.Materials[1].DefaultPricePerKg)
	}
}

func TestImportCSV_SemicolonDecimalComma(t *testing.T) {
	path := writeFile(t, "materials.csv", "Název;Hustota;Cena\nMosaz;8,5;280\nMěď;8,94;310\n")

	result := ImportCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(result.Materials))
	}
	if result.Materials[1].Density != 8.94 || result.Materials[1].ID != "MED" {
		t.Errorf("unexpected material %+v", result.Materials[1])
	}
	if !strings.Contains(strings.Join(result.Warnings, "|"), "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_RowErrors(t *testing.T) {
	path := writeFile(t, "materials.csv", strings.Join([]string{
		"name,density,price",
		"Good,2.7,100",
		",2.7,100",
		"NoDensity,,100",
		"BadDensity,heavy,100",
		"Zero,0,100",
		"BadPrice,1.5,cheap",
		"good,3,1",
		"",
	}, "\n"))

	result := ImportCSV(path)
	if len(result.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d: %+v", len(result.Materials), result.Materials)
	}
	// missing name, missing density, bad density, zero density, duplicate id
	if len(result.Errors) != 5 {
		t.Errorf("expected 5 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if result.Materials[1].Name != "BadPrice" || result.Materials[1].DefaultPricePerKg != 0 {
		t.Errorf("bad price should import without a price: %+v", result.Materials[1])
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Invalid price") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected invalid price warning, got %v", result.Warnings)
	}
}

func TestImportCSV_MissingRequiredColumn(t *testing.T) {
	path := writeFile(t, "materials.csv", "name,price\nSteel,65\n")
	result := ImportCSV(path)
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Density") {
		t.Errorf("expected missing Density error, got %v", result.Errors)
	}
}

func TestImportCSV_EmptyAndMissingFile(t *testing.T) {
	result := ImportCSV(writeFile(t, "empty.csv", "  \n"))
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
	result = ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) != 1 {
		t.Errorf("expected open error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_Positional(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Titan,4.43,1200\nPOM,1.41,350\n"), ',')
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Materials) != 2 || result.Materials[0].ID != "TITAN" {
		t.Errorf("unexpected materials %+v", result.Materials)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "materials.xlsx")

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
		{"Material", "Density", "Price"},
		{"Aluminium 5754", 2.67, 175},
		{"PEEK", 1.32, 2800},
	})

	result := ImportMaterials(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(result.Materials))
	}
	if result.Materials[0].ID != "ALUMINIUM_5754" {
		t.Errorf("expected ALUMINIUM_5754, got '%s'", result.Materials[0].ID)
	}
	if result.Materials[0].Density != 2.67 {
		t.Errorf("expected density 2.67, got %f", result.Materials[0].Density)
	}
	if result.Materials[1].DefaultPricePerKg != 2800 {
		t.Errorf("expected price 2800, got %f", result.Materials[1].DefaultPricePerKg)
	}
}

func TestImportExcel_MissingFile(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "nope.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestMerge(t *testing.T) {
	catalog := model.Catalog{
		{ID: "A", Name: "A", Density: 1},
		{ID: "B", Name: "B", Density: 2},
	}
	merged, added, updated := Merge(catalog, []model.MaterialDefinition{
		{ID: "B", Name: "B2", Density: 2.2},
		{ID: "C", Name: "C", Density: 3},
	})

	if added != 1 || updated != 1 {
		t.Errorf("expected 1 added and 1 updated, got %d/%d", added, updated)
	}
	if len(merged) != 3 || merged[1].Name != "B2" || merged[2].ID != "C" {
		t.Errorf("unexpected merge result %+v", merged)
	}
	if catalog[1].Name != "B" {
		t.Error("input catalog must not be modified")
	}
}

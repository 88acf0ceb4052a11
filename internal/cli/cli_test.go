package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/piwi3910/SlabQuote/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
)

// sandbox points every settings file into a temp dir and disables
// network rate lookups.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SLABQUOTE_CONFIG", filepath.Join(dir, "config.json"))
	t.Setenv("SLABQUOTE_CATALOG", filepath.Join(dir, "materials.json"))
	t.Setenv("SLABQUOTE_TEMPLATES", filepath.Join(dir, "templates.json"))
	t.Setenv("SLABQUOTE_RATES_OFFLINE", "true")
	t.Setenv("SLABQUOTE_LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(dir, "missing.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newQuote(t *testing.T, dir string, args ...string) string {
	t.Helper()
	path := filepath.Join(dir, "part.slabquote")
	_, err := run(t, dir, append([]string{"new", path}, args...)...)
	require.NoError(t, err)
	return path
}

func TestNewAndCalc(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir, "-m", "STEEL_4140", "-p", "round", "-q", "10")

	spec, err := project.LoadQuote(path)
	require.NoError(t, err)
	assert.Equal(t, "STEEL_4140", spec.MaterialID)
	assert.Equal(t, model.CrossSectionRound, spec.CrossSection)
	assert.Equal(t, 10, spec.QuantityGood)
	assert.Equal(t, 65.0, spec.Factors.MaterialCostPerKg, "material default price applied")

	cfg, err := project.LoadAppConfig(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{path}, cfg.RecentQuotes)

	out, err := run(t, dir, "calc", path, "-o", "json")
	require.NoError(t, err)
	var result model.CalculatedQuote
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 10, result.TotalProductionCount)
	assert.Greater(t, result.TotalPrice, 0.0)
	assert.Len(t, result.Bars, 2)

	out, err = run(t, dir, "calc", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Steel 4140")
	assert.Contains(t, out, "Total")
}

func TestCalc_Validation(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir)

	_, err := run(t, dir, "calc", path, "-o", "xml")
	assert.Error(t, err)
	_, err = run(t, dir, "calc", path, "--save")
	assert.Error(t, err, "--save needs --live-rate")
	_, err = run(t, dir, "calc", filepath.Join(dir, "missing.slabquote"))
	assert.Error(t, err)
}

func TestCalc_LiveRateOffline(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir)

	spec, err := project.LoadQuote(path)
	require.NoError(t, err)
	spec.SetCurrency(model.CurrencyEUR)
	spec.MaterialExchangeRate = 24
	require.NoError(t, project.SaveQuote(path, spec))

	_, err = run(t, dir, "calc", path, "--live-rate", "--save", "-o", "yaml")
	require.NoError(t, err)

	spec, err = project.LoadQuote(path)
	require.NoError(t, err)
	assert.Equal(t, 25.0, spec.MaterialExchangeRate, "offline mode serves the configured manual rate")
}

func TestNew_Errors(t *testing.T) {
	dir := sandbox(t)
	path := filepath.Join(dir, "q.slabquote")

	_, err := run(t, dir, "new", path, "-m", "UNOBTAINIUM")
	assert.Error(t, err)
	_, err = run(t, dir, "new", path, "-p", "triangle")
	assert.Error(t, err)
	_, err = run(t, dir, "new", path, "-t", "missing")
	assert.Error(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMaterials(t *testing.T) {
	dir := sandbox(t)

	out, err := run(t, dir, "materials", "add", "Bronze CuSn8", "--density", "8.8", "--price", "310")
	require.NoError(t, err)
	assert.Contains(t, out, "BRONZE_CUSN8")

	out, err = run(t, dir, "materials", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "BRONZE_CUSN8")
	assert.Contains(t, out, "STEEL_4140", "built-in materials are kept")

	_, err = run(t, dir, "materials", "add", "Bronze CuSn8", "--density", "8.8")
	assert.Error(t, err, "duplicate id")

	_, err = run(t, dir, "materials", "remove", "BRONZE_CUSN8")
	require.NoError(t, err)
	_, err = run(t, dir, "materials", "remove", "BRONZE_CUSN8")
	assert.Error(t, err)
}

func TestMaterials_Import(t *testing.T) {
	dir := sandbox(t)
	csvPath := filepath.Join(dir, "materials.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name;density;price\nMosaz;8,5;290\n"), 0644))

	out, err := run(t, dir, "materials", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 added")

	catalog, _, err := project.LoadCatalog(filepath.Join(dir, "materials.json"))
	require.NoError(t, err)
	require.NotNil(t, catalog.Find("MOSAZ"))
	assert.Equal(t, 8.5, catalog.Find("MOSAZ").Density)
}

func TestRate_Offline(t *testing.T) {
	dir := sandbox(t)

	out, err := run(t, dir, "rate", "eur")
	require.NoError(t, err)
	assert.Equal(t, "1 EUR = 25.0000 CZK\n", out)

	_, err = run(t, dir, "rate", "GBP")
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir, "-m", "ALUMINUM_7075", "-p", "SHEET")

	_, err := run(t, dir, "template", "save", "Alu plate", path, "-d", "7075 brackets")
	require.NoError(t, err)
	_, err = run(t, dir, "template", "save", "Alu plate", path)
	assert.Error(t, err, "names are unique")

	out, err := run(t, dir, "template", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alu plate")
	assert.Contains(t, out, "ALUMINUM_7075")

	fromTemplate := filepath.Join(dir, "from-template.yaml")
	_, err = run(t, dir, "new", fromTemplate, "-t", "Alu plate", "-q", "40")
	require.NoError(t, err)
	spec, err := project.LoadQuote(fromTemplate)
	require.NoError(t, err)
	assert.Equal(t, "ALUMINUM_7075", spec.MaterialID)
	assert.Equal(t, model.CrossSectionSheet, spec.CrossSection)
	assert.Equal(t, 40, spec.QuantityGood)

	_, err = run(t, dir, "template", "remove", "Alu plate")
	require.NoError(t, err)
	_, err = run(t, dir, "template", "remove", "Alu plate")
	assert.Error(t, err)
}

func TestExports(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir, "-q", "5")

	for _, kind := range []string{"pdf", "rfq", "xlsx", "labels"} {
		t.Run(kind, func(t *testing.T) {
			out := filepath.Join(dir, "out_"+kind)
			_, err := run(t, dir, "export", kind, path, "-f", out)
			require.NoError(t, err)
			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestExport_DefaultPath(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir)

	out, err := run(t, dir, "export", "pdf", path)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "part.pdf"))
	_, err = os.Stat(filepath.Join(dir, "part.pdf"))
	assert.NoError(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/q/part.pdf", outputPath("/q/part.slabquote", ".pdf"))
	assert.Equal(t, "part_labels.pdf", outputPath("part", "_labels.pdf"))
}

func TestEmailAndCompare(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir, "-p", "SHEET", "-q", "100")

	out, err := run(t, dir, "email", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Subject: Price quote")

	out, err = run(t, dir, "compare", path)
	require.NoError(t, err)
	for _, f := range model.SheetFormats() {
		assert.Contains(t, out, "Sheet "+string(f))
	}
	assert.Contains(t, out, "*", "cheapest scenario is marked")

	out, err = run(t, dir, "compare", path, "--by", "materials")
	require.NoError(t, err)
	assert.Contains(t, out, "Titanium 6Al-4V")

	_, err = run(t, dir, "compare", path, "--by", "colour")
	assert.Error(t, err)
}

func TestDXF(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir, "-p", "SHEET")

	d := dxf.NewDrawing()
	corners := [][2]float64{{0, 0}, {150, 0}, {150, 400}, {0, 400}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		_, err := d.Line(a[0], a[1], 0, b[0], b[1], 0)
		require.NoError(t, err)
	}
	drawing := filepath.Join(dir, "part.dxf")
	require.NoError(t, d.SaveAs(drawing))

	out, err := run(t, dir, "dxf", drawing, path)
	require.NoError(t, err)
	assert.Contains(t, out, "400.0 x 150.0 mm")

	spec, err := project.LoadQuote(path)
	require.NoError(t, err)
	assert.Equal(t, 400.0, spec.Dimensions.Length)
	assert.Equal(t, 150.0, spec.Dimensions.Width)
	assert.Equal(t, 25.0, spec.Dimensions.Height, "thickness is kept")

	_, err = run(t, dir, "dxf", filepath.Join(dir, "missing.dxf"), path)
	assert.Error(t, err)
}

func TestBackup(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir)
	_, err := run(t, dir, "materials", "add", "Invar 36", "--density", "8.05")
	require.NoError(t, err)
	_, err = run(t, dir, "template", "save", "Default", path)
	require.NoError(t, err)

	backup := filepath.Join(dir, "backup.json")
	_, err = run(t, dir, "backup", "export", backup)
	require.NoError(t, err)

	// Restore into a fresh sandbox
	other := sandbox(t)
	out, err := run(t, other, "backup", "import", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "1 templates")

	catalog, _, err := project.LoadCatalog(filepath.Join(other, "materials.json"))
	require.NoError(t, err)
	assert.NotNil(t, catalog.Find("INVAR_36"))
	store, err := project.LoadTemplates(filepath.Join(other, "templates.json"))
	require.NoError(t, err)
	assert.NotNil(t, store.FindByName("Default"))
}

func TestGCode(t *testing.T) {
	dir := sandbox(t)
	path := newQuote(t, dir)
	program := filepath.Join(dir, "part.nc")
	require.NoError(t, os.WriteFile(program, []byte("G0 X0 Y0 Z5\nG1 Z0 F100\nG1 X100 F1000\nG0 Z5\n"), 0644))

	out, err := run(t, dir, "gcode", program)
	require.NoError(t, err)
	assert.Contains(t, out, "4 moves")
	assert.Contains(t, out, "0.15 min per part")

	_, err = run(t, dir, "gcode", program, "--quote", path, "--name", "Milling", "--rate", "1800")
	require.NoError(t, err)
	spec, err := project.LoadQuote(path)
	require.NoError(t, err)
	op := spec.Operations[len(spec.Operations)-1]
	assert.Equal(t, "Milling", op.Name)
	assert.InDelta(t, 0.151, op.TimePerPartMinutes, 1e-9)
	assert.Equal(t, 1800.0, op.HourlyRate)
}

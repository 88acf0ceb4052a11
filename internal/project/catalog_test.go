package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/SlabQuote/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.json")
	require.NoError(t, SaveCatalog(path, model.FallbackCatalog()))

	catalog, warnings, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, model.FallbackCatalog(), catalog)
}

func TestLoadCatalog_OriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.json")
	data := `[
  {"id": "ALUMINUM_6061", "name": "Hliník 6061", "density": 2.70, "defaultPricePerKg": 180},
  {"id": "PEEK", "name": "PEEK", "density": 1.32}
]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	catalog, warnings, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, catalog, 2)
	assert.Equal(t, 180.0, catalog[0].DefaultPricePerKg)
	assert.Equal(t, 0.0, catalog[1].DefaultPricePerKg)
}

func TestLoadCatalog_DropsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.json")
	data := `[
  {"id": "OK", "name": "Fine", "density": 1.5},
  {"id": "", "name": "No id", "density": 1.5},
  {"id": "ZERO", "name": "Zero density", "density": 0},
  {"id": "NEG", "name": "Negative price", "density": 2, "defaultPricePerKg": -3},
  {"id": "OK", "name": "Duplicate", "density": 2}
]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	catalog, warnings, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "Fine", catalog[0].Name)
	assert.Len(t, warnings, 4)
	assert.True(t, strings.Contains(warnings[3], "duplicate"))
}

func TestLoadCatalogOrFallback(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	catalog, notice := LoadCatalogOrFallback(filepath.Join(t.TempDir(), "missing.json"), log)
	assert.Equal(t, model.FallbackCatalog(), catalog)
	assert.NotEmpty(t, notice)
	assert.Equal(t, 1, logs.Len())

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0644))
	catalog, notice = LoadCatalogOrFallback(empty, nil)
	assert.Len(t, catalog, 12)
	assert.Contains(t, notice, "no valid materials")

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0644))
	catalog, notice = LoadCatalogOrFallback(broken, nil)
	assert.Len(t, catalog, 12)
	assert.NotEmpty(t, notice)
}

func TestLoadCatalogOrFallback_UsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.json")
	require.NoError(t, SaveCatalog(path, model.Catalog{{ID: "X", Name: "X", Density: 3}}))

	catalog, notice := LoadCatalogOrFallback(path, zap.NewNop())
	assert.Empty(t, notice)
	require.Len(t, catalog, 1)
	assert.Equal(t, "X", catalog[0].ID)
}

package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/piwi3910/SlabQuote/internal/model"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultCatalogPath returns ~/.slabquote/materials.json.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "materials.json")
}

// SaveCatalog writes the material list as a JSON array.
func SaveCatalog(path string, catalog model.Catalog) error {
	if catalog == nil {
		catalog = model.Catalog{}
	}
	if err := writeJSON(path, catalog); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}

// LoadCatalog reads a JSON array of materials. Entries failing validation
// are dropped and reported in the returned warnings.
func LoadCatalog(path string) (model.Catalog, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var raw model.Catalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	catalog := make(model.Catalog, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	var warnings []string
	for i, m := range raw {
		if err := validate.Struct(m); err != nil {
			warnings = append(warnings, fmt.Sprintf("entry %d (%q): %v", i+1, m.ID, err))
			continue
		}
		if seen[m.ID] {
			warnings = append(warnings, fmt.Sprintf("entry %d: duplicate id %q skipped", i+1, m.ID))
			continue
		}
		seen[m.ID] = true
		catalog = append(catalog, m)
	}
	return catalog, warnings, nil
}

// LoadCatalogOrFallback loads the catalog at path and substitutes the
// built-in list when the file is missing, unreadable or holds no valid
// entries. The returned notice is empty when the file was used.
func LoadCatalogOrFallback(path string, log *zap.Logger) (model.Catalog, string) {
	if log == nil {
		log = zap.NewNop()
	}
	catalog, warnings, err := LoadCatalog(path)
	for _, w := range warnings {
		log.Warn("invalid catalog entry", zap.String("path", path), zap.String("detail", w))
	}
	if err != nil {
		log.Warn("material catalog not loaded, using built-in list", zap.String("path", path), zap.Error(err))
		return model.FallbackCatalog(), fmt.Sprintf("material catalog %s could not be loaded, using built-in materials", path)
	}
	if len(catalog) == 0 {
		log.Warn("material catalog is empty, using built-in list", zap.String("path", path))
		return model.FallbackCatalog(), fmt.Sprintf("material catalog %s has no valid materials, using built-in materials", path)
	}
	log.Debug("material catalog loaded", zap.String("path", path), zap.Int("materials", len(catalog)))
	return catalog, ""
}

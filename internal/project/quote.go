package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/SlabQuote/internal/model"
	"sigs.k8s.io/yaml"
)

// QuoteFileExt is the default extension for saved quotes.
const QuoteFileExt = ".slabquote"

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SaveQuote writes a quote spec to disk. Paths ending in .yaml or .yml are
// written as YAML, everything else as indented JSON.
func SaveQuote(path string, spec model.QuoteSpec) error {
	if spec.Operations == nil {
		spec.Operations = []model.Operation{}
	}
	if !isYAML(path) {
		if err := writeJSON(path, spec); err != nil {
			return fmt.Errorf("saving quote: %w", err)
		}
		return nil
	}
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("encoding quote: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadQuote reads a quote spec written by SaveQuote. Missing fields keep
// their zero values; a missing operations list becomes empty.
func LoadQuote(path string) (model.QuoteSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.QuoteSpec{}, err
	}
	var spec model.QuoteSpec
	if isYAML(path) {
		// sigs.k8s.io/yaml converts to JSON first, so the json tags apply
		err = yaml.Unmarshal(data, &spec)
	} else {
		err = json.Unmarshal(data, &spec)
	}
	if err != nil {
		return model.QuoteSpec{}, fmt.Errorf("parsing quote %s: %w", path, err)
	}
	if spec.Operations == nil {
		spec.Operations = []model.Operation{}
	}
	if spec.Dimensions.Unit == "" {
		spec.Dimensions.Unit = model.UnitMM
	}
	if spec.MaterialCurrency == "" {
		spec.MaterialCurrency = model.CurrencyCZK
	}
	return spec, nil
}

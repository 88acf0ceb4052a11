package model

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaterialDefinition is one entry of the material catalog.
type MaterialDefinition struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	// Density in g/cm³
	Density float64 `json:"density" validate:"gt=0"`
	// DefaultPricePerKg in CZK, 0 = not set
	DefaultPricePerKg float64 `json:"defaultPricePerKg,omitempty" validate:"gte=0"`
}

// Catalog is the ordered list of materials a quote can reference.
// It is always passed explicitly into calculations.
type Catalog []MaterialDefinition

// FallbackCatalog returns the built-in materials used whenever the catalog
// file cannot be loaded.
func FallbackCatalog() Catalog {
	return Catalog{
		{ID: "ALUMINUM_6061", Name: "Aluminium 6061", Density: 2.70, DefaultPricePerKg: 180},
		{ID: "ALUMINUM_7075", Name: "Aluminium 7075", Density: 2.81, DefaultPricePerKg: 250},
		{ID: "STEEL_1018", Name: "Steel 1018", Density: 7.87, DefaultPricePerKg: 45},
		{ID: "STEEL_4140", Name: "Steel 4140", Density: 7.85, DefaultPricePerKg: 65},
		{ID: "STAINLESS_303", Name: "Stainless 303", Density: 8.00, DefaultPricePerKg: 120},
		{ID: "STAINLESS_304", Name: "Stainless 304", Density: 8.00, DefaultPricePerKg: 140},
		{ID: "BRASS_C360", Name: "Brass C360", Density: 8.50, DefaultPricePerKg: 280},
		{ID: "DELRIN_ACETAL", Name: "Delrin (Acetal)", Density: 1.41, DefaultPricePerKg: 350},
		{ID: "PEEK", Name: "PEEK", Density: 1.32, DefaultPricePerKg: 2800},
		{ID: "TITANIUM_6AL4V", Name: "Titanium 6Al-4V", Density: 4.43, DefaultPricePerKg: 1200},
		{ID: "ABS", Name: "ABS Plastic", Density: 1.04, DefaultPricePerKg: 90},
		{ID: "CUSTOM1", Name: "Steel RTS", Density: 7.8, DefaultPricePerKg: 55},
	}
}

// Find returns a pointer to the material with the given ID, or nil.
func (c Catalog) Find(id string) *MaterialDefinition {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}

// Names returns the material display names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, m := range c {
		names[i] = m.Name
	}
	return names
}

// Add creates a material whose ID is derived from its name and appends it.
// A name that maps to an existing ID is rejected.
func (c *Catalog) Add(name string, density, pricePerKg float64) (MaterialDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MaterialDefinition{}, fmt.Errorf("material name is required")
	}
	if density <= 0 {
		return MaterialDefinition{}, fmt.Errorf("density must be > 0, got %g", density)
	}
	id := MaterialID(name)
	if c.Find(id) != nil {
		return MaterialDefinition{}, fmt.Errorf("material id %s already exists", id)
	}
	m := MaterialDefinition{ID: id, Name: name, Density: density}
	if pricePerKg > 0 {
		m.DefaultPricePerKg = pricePerKg
	}
	*c = append(*c, m)
	return m, nil
}

// Remove deletes the material with the given ID.
func (c *Catalog) Remove(id string) bool {
	for i := range *c {
		if (*c)[i].ID == id {
			*c = append((*c)[:i:i], (*c)[i+1:]...)
			return true
		}
	}
	return false
}

// MaterialID derives a catalog key from a display name:
// "Ocel žárová 11" -> "OCEL_ZAROVA_11".
func MaterialID(name string) string {
	stripped := strings.ToUpper(StripAccents(name))
	var b strings.Builder
	for _, r := range stripped {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// StripAccents removes combining marks: "Měď" -> "Med".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

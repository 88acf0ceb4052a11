package model

import (
	"time"

	"github.com/google/uuid"
)

// QuoteTemplate is a saved quote preset: material, profile, rates and
// operations, without customer or quantities.
type QuoteTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Spec        QuoteSpec `json:"spec"`
}

// NewQuoteTemplate captures spec as a preset. Customer, part name, notes
// and quantities are cleared; operations are copied.
func NewQuoteTemplate(name, description string, spec QuoteSpec) QuoteTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	spec.CustomerName = ""
	spec.PartName = ""
	spec.Notes = ""
	spec.QuantityGood = 0
	spec.QuantityScrap = 0
	spec.Operations = copyOperations(spec.Operations)
	return QuoteTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Spec:        spec,
	}
}

// ToSpec creates a new QuoteSpec from this template for the given quantity.
// Operations get fresh IDs so they are independent of the template.
func (t QuoteTemplate) ToSpec(quantityGood int) QuoteSpec {
	spec := t.Spec
	spec.QuantityGood = quantityGood
	spec.Operations = make([]Operation, len(t.Spec.Operations))
	for i, op := range t.Spec.Operations {
		spec.Operations[i] = NewOperation(op.Name, op.TimePerPartMinutes, op.HourlyRate)
	}
	return spec
}

// TemplateStore holds a collection of quote templates.
type TemplateStore struct {
	Templates []QuoteTemplate `json:"templates"`
}

func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []QuoteTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t QuoteTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *QuoteTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *QuoteTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

func copyOperations(ops []Operation) []Operation {
	if ops == nil {
		return []Operation{}
	}
	cp := make([]Operation, len(ops))
	copy(cp, ops)
	return cp
}

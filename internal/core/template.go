package core

import "fmt"

// RequiredMarker is appended to required field labels in template headers.
// Imports strip it again when matching headers.
const RequiredMarker = " *"

// TemplateGenerator produces empty import templates.
type TemplateGenerator struct {
	Registry *Registry
	Codec    Codec
}

// NewTemplateGenerator creates a template generator.
func NewTemplateGenerator(reg *Registry, codec Codec) *TemplateGenerator {
	return &TemplateGenerator{Registry: reg, Codec: codec}
}

// WithCodec returns a copy of the generator that encodes with c.
func (g *TemplateGenerator) WithCodec(c Codec) *TemplateGenerator {
	cp := *g
	cp.Codec = c
	return &cp
}

// Run returns a spreadsheet with a single header row and no data rows.
func (g *TemplateGenerator) Run(categoryID string) ([]byte, error) {
	schema, err := g.Registry.Schema(categoryID)
	if err != nil {
		return nil, err
	}

	data, err := g.Codec.Encode(TemplateHeader(schema), nil)
	if err != nil {
		return nil, fmt.Errorf("encode template %s: %w", categoryID, err)
	}
	return data, nil
}

// TemplateHeader returns the field labels in declared order with
// required fields marked.
func TemplateHeader(schema *Schema) []string {
	header := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		header[i] = f.header()
		if f.Required {
			header[i] += RequiredMarker
		}
	}
	return header
}

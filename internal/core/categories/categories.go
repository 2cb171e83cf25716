// Package categories is the master-data catalog: one schema per category
// the laboratory console manages.
//
// Each group file declares its schemas as data; NewRegistry collects them.
package categories

import "github.com/JonMunkholm/LabMaster/internal/core"

// Console groups.
const (
	GroupCatalog      = "Test Catalog"
	GroupSamples      = "Samples"
	GroupOrganization = "Organization"
	GroupBilling      = "Billing"
	GroupMicrobiology = "Microbiology"
	GroupReporting    = "Reporting"
)

// All returns every category schema in catalog order.
func All() []core.Schema {
	var all []core.Schema
	all = append(all, catalogSchemas()...)
	all = append(all, sampleSchemas()...)
	all = append(all, organizationSchemas()...)
	all = append(all, billingSchemas()...)
	all = append(all, microbiologySchemas()...)
	all = append(all, reportingSchemas()...)
	return all
}

// NewRegistry returns a registry holding the full catalog.
func NewRegistry() *core.Registry {
	return core.MustRegistry(All()...)
}

// Field helpers keep the schema tables readable.

func text(key, label string) core.Field {
	return core.Field{Key: key, Label: label, Type: core.FieldText}
}

func number(key, label string) core.Field {
	return core.Field{Key: key, Label: label, Type: core.FieldNumber}
}

func boolean(key, label string) core.Field {
	return core.Field{Key: key, Label: label, Type: core.FieldBoolean}
}

func date(key, label string) core.Field {
	return core.Field{Key: key, Label: label, Type: core.FieldDate}
}

func enum(key, label string, values ...string) core.Field {
	return core.Field{Key: key, Label: label, Type: core.FieldEnum, EnumValues: values}
}

func required(f core.Field) core.Field {
	f.Required = true
	return f
}

func normalized(f core.Field, fn func(string) string) core.Field {
	f.Normalizer = fn
	return f
}

func coerced(f core.Field, fn core.CoerceFunc) core.Field {
	f.Coerce = fn
	return f
}

// code is the short identifier most categories carry.
func code() core.Field {
	return normalized(text("code", "Code"), NormalizeCode)
}

// Package core provides the business logic for master-data import, export
// and querying.
//
// This package holds the domain logic independent of any UI, transport or
// storage layer. It can be used by web handlers, CLI tools, or tests
// without modification; persistence and file formats are injected through
// the [Store] and [Codec] interfaces.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Schemas: each master-data category is a [Schema] listing its fields,
//     their types and which are required. Schemas live in a [Registry].
//   - Validation: a [RowValidator] turns one spreadsheet row into a typed
//     [Record] or a list of [ValidationError].
//   - Pipelines: [ImportPipeline], [ExportPipeline] and [TemplateGenerator]
//     move records between spreadsheets and the store.
//   - Querying: [QueryEngine] searches, filters, sorts and pages records in
//     memory.
//   - Service: [Service] wires everything together with an import limiter.
//
// # Schemas
//
// Categories are data, not code paths:
//
//	core.Schema{
//	    ID: "paymentMethods", Group: "Billing", Label: "Payment Methods",
//	    Fields: []core.Field{
//	        {Key: "name", Label: "Name", Type: core.FieldText, Required: true},
//	        {Key: "code", Label: "Code", Type: core.FieldText},
//	    },
//	}
//
// # Import
//
// Imports run row by row in file order:
//
//  1. The codec decodes the file into [RawRow] values
//  2. Each row is matched to schema fields by header key or label
//  3. Valid rows are created in the store; invalid rows are reported
//  4. Progress is reported through an optional [ProgressCallback]
//
// A failed row never stops the import and created rows are never rolled
// back. [ImportOrchestrator] runs several categories concurrently with
// failures isolated per category.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - CAT001: Unknown category
//   - VAL001-VAL006: Validation errors (dates, numbers, required, enums)
//   - FILE001-FILE005: File errors (size, encoding, format)
//   - PER001-PER004: Persistence errors (not found, duplicates, outages)
//   - IMP001-IMP003: Import errors (cancelled, timeout, empty batch)
//   - RATE001: Rate limiting
package core

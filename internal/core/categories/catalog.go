package categories

import "github.com/JonMunkholm/LabMaster/internal/core"

func catalogSchemas() []core.Schema {
	return []core.Schema{
		{
			ID: "tests", Group: GroupCatalog, Label: "Tests",
			Fields: []core.Field{
				required(text("name", "Name")),
				required(code()),
				text("short_name", "Short Name"),
				text("department", "Department"),
				text("section", "Section"),
				text("specimen", "Specimen"),
				text("container", "Container"),
				text("method", "Method"),
				text("unit", "Unit"),
				enum("result_type", "Result Type", "Numeric", "Text", "Options", "Culture"),
				number("decimal_places", "Decimal Places"),
				boolean("outsourced", "Outsourced"),
				text("description", "Description"),
			},
		},
		{
			ID: "testMethods", Group: GroupCatalog, Label: "Test Methods",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				text("description", "Description"),
			},
		},
		{
			ID: "testPanels", Group: GroupCatalog, Label: "Test Panels",
			Fields: []core.Field{
				required(text("name", "Name")),
				required(code()),
				required(text("tests", "Tests")), // Comma-separated test codes
				text("department", "Department"),
				boolean("print_together", "Print Together"),
			},
		},
		{
			ID: "units", Group: GroupCatalog, Label: "Units",
			Fields: []core.Field{
				required(text("name", "Name")),
				text("symbol", "Symbol"),
				text("description", "Description"),
			},
		},
		{
			ID: "referenceRanges", Group: GroupCatalog, Label: "Reference Ranges",
			Fields: []core.Field{
				required(normalized(text("test_code", "Test Code"), NormalizeCode)),
				enum("gender", "Gender", "Any", "Male", "Female"),
				number("age_min", "Age Min"),
				number("age_max", "Age Max"),
				enum("age_unit", "Age Unit", "Days", "Months", "Years"),
				number("low", "Low"),
				number("high", "High"),
				number("critical_low", "Critical Low"),
				number("critical_high", "Critical High"),
				text("unit", "Unit"),
				text("display_text", "Display Text"),
			},
		},
		{
			ID: "analyzers", Group: GroupCatalog, Label: "Analyzers",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				text("manufacturer", "Manufacturer"),
				text("model", "Model"),
				text("serial_number", "Serial Number"),
				text("department", "Department"),
				enum("interface_type", "Interface Type", "None", "Serial", "TCP", "File"),
				date("installed_on", "Installed On"),
			},
		},
		{
			ID: "reagents", Group: GroupCatalog, Label: "Reagents",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				text("manufacturer", "Manufacturer"),
				text("lot_number", "Lot Number"),
				date("expiry_date", "Expiry Date"),
				number("quantity", "Quantity"),
				text("unit", "Unit"),
				number("reorder_level", "Reorder Level"),
				text("analyzer", "Analyzer"),
			},
		},
	}
}

package categories

import "github.com/JonMunkholm/LabMaster/internal/core"

func reportingSchemas() []core.Schema {
	return []core.Schema{
		{
			ID: "interpretations", Group: GroupReporting, Label: "Interpretations",
			Fields: []core.Field{
				required(normalized(text("test_code", "Test Code"), NormalizeCode)),
				required(enum("flag", "Flag", "Low", "Normal", "High", "Critical")),
				required(text("text", "Interpretation")),
			},
		},
	}
}

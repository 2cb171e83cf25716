package categories

import "github.com/JonMunkholm/LabMaster/internal/core"

func microbiologySchemas() []core.Schema {
	return []core.Schema{
		{
			ID: "antibiotics", Group: GroupMicrobiology, Label: "Antibiotics",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				text("antibiotic_class", "Class"),
				number("breakpoint_s", "Breakpoint S"),
				number("breakpoint_r", "Breakpoint R"),
			},
		},
		{
			ID: "organisms", Group: GroupMicrobiology, Label: "Organisms",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				enum("gram_stain", "Gram Stain", "Positive", "Negative", "Variable", "N/A"),
				enum("organism_type", "Type", "Bacteria", "Fungus", "Parasite", "Virus"),
			},
		},
	}
}

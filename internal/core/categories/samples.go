package categories

import "github.com/JonMunkholm/LabMaster/internal/core"

func sampleSchemas() []core.Schema {
	return []core.Schema{
		{
			ID: "specimens", Group: GroupSamples, Label: "Specimens",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				text("container", "Container"),
				number("volume", "Volume"),
				text("volume_unit", "Volume Unit"),
				text("storage", "Storage"),
				number("stability_hours", "Stability Hours"),
			},
		},
		{
			ID: "containers", Group: GroupSamples, Label: "Containers",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				text("color", "Color"),
				text("additive", "Additive"),
				number("capacity_ml", "Capacity (mL)"),
			},
		},
		{
			ID: "rejectionReasons", Group: GroupSamples, Label: "Rejection Reasons",
			Fields: []core.Field{
				required(text("reason", "Reason")),
				code(),
				enum("applies_to", "Applies To", "Sample", "Test", "Order"),
				boolean("requires_recollection", "Requires Recollection"),
			},
		},
		{
			ID: "turnaroundTimes", Group: GroupSamples, Label: "Turnaround Times",
			Fields: []core.Field{
				required(normalized(text("test_code", "Test Code"), NormalizeCode)),
				enum("priority", "Priority", "Routine", "Urgent", "STAT"),
				required(number("hours", "Hours")),
				text("branch", "Branch"),
			},
		},
	}
}

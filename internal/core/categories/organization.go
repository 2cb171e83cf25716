package categories

import "github.com/JonMunkholm/LabMaster/internal/core"

func organizationSchemas() []core.Schema {
	return []core.Schema{
		{
			ID: "departments", Group: GroupOrganization, Label: "Departments",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				text("head", "Head"),
				text("description", "Description"),
			},
		},
		{
			ID: "sections", Group: GroupOrganization, Label: "Sections",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				required(text("department", "Department")),
			},
		},
		{
			ID: "doctors", Group: GroupOrganization, Label: "Doctors",
			Fields: []core.Field{
				required(text("name", "Name")),
				text("salutation", "Salutation"),
				text("qualification", "Qualification"),
				text("specialization", "Specialization"),
				text("registration_number", "Registration Number"),
				normalized(text("phone", "Phone"), NormalizePhone),
				normalized(text("email", "Email"), NormalizeEmail),
				coerced(number("commission_percent", "Commission %"), CoercePercent),
			},
		},
		{
			ID: "branches", Group: GroupOrganization, Label: "Branches",
			Fields: []core.Field{
				required(text("name", "Name")),
				required(code()),
				text("address", "Address"),
				text("city", "City"),
				normalized(text("phone", "Phone"), NormalizePhone),
				normalized(text("email", "Email"), NormalizeEmail),
				boolean("is_main", "Main Branch"),
			},
		},
		{
			ID: "collectionCenters", Group: GroupOrganization, Label: "Collection Centers",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				text("branch", "Branch"),
				text("address", "Address"),
				text("contact_person", "Contact Person"),
				normalized(text("phone", "Phone"), NormalizePhone),
				boolean("home_collection", "Home Collection"),
			},
		},
		{
			ID: "salutations", Group: GroupOrganization, Label: "Salutations",
			Fields: []core.Field{
				required(text("name", "Name")),
				enum("gender", "Gender", "Any", "Male", "Female"),
			},
		},
	}
}

package categories

import "github.com/JonMunkholm/LabMaster/internal/core"

func billingSchemas() []core.Schema {
	return []core.Schema{
		{
			ID: "testPrices", Group: GroupBilling, Label: "Test Prices",
			Fields: []core.Field{
				required(normalized(text("test_code", "Test Code"), NormalizeCode)),
				required(number("price", "Price")),
				text("price_list", "Price List"),
				normalized(text("currency", "Currency"), NormalizeCurrency),
				date("effective_from", "Effective From"),
				date("effective_to", "Effective To"),
			},
		},
		{
			ID: "priceLists", Group: GroupBilling, Label: "Price Lists",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				normalized(text("currency", "Currency"), NormalizeCurrency),
				boolean("is_default", "Default"),
				date("valid_from", "Valid From"),
				date("valid_to", "Valid To"),
			},
		},
		{
			ID: "paymentMethods", Group: GroupBilling, Label: "Payment Methods",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				boolean("requires_reference", "Requires Reference"),
			},
		},
		{
			ID: "insuranceProviders", Group: GroupBilling, Label: "Insurance Providers",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				text("contact_person", "Contact Person"),
				normalized(text("phone", "Phone"), NormalizePhone),
				normalized(text("email", "Email"), NormalizeEmail),
				coerced(number("coverage_percent", "Coverage %"), CoercePercent),
				text("price_list", "Price List"),
			},
		},
		{
			ID: "discounts", Group: GroupBilling, Label: "Discounts",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				required(enum("discount_type", "Type", "Percent", "Amount")),
				required(number("value", "Value")),
				date("valid_from", "Valid From"),
				date("valid_to", "Valid To"),
			},
		},
		{
			ID: "taxes", Group: GroupBilling, Label: "Taxes",
			Fields: []core.Field{
				required(text("name", "Name")),
				code(),
				required(coerced(number("rate", "Rate %"), CoercePercent)),
				boolean("inclusive", "Inclusive"),
			},
		},
		{
			ID: "currencies", Group: GroupBilling, Label: "Currencies",
			Fields: []core.Field{
				required(normalized(text("code", "Code"), NormalizeCurrency)),
				required(text("name", "Name")),
				text("symbol", "Symbol"),
				number("exchange_rate", "Exchange Rate"),
			},
		},
	}
}

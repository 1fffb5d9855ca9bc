package plans

import "github.com/rechargex/rechargex/internal/operator"

var dailyBenefits = map[string]Benefits{
	"2GB/day":   {Data: "2GB/day", Calls: "Unlimited", SMS: "100/day"},
	"2.5GB/day": {Data: "2.5GB/day", Calls: "Unlimited", SMS: "100/day"},
	"3GB/day":   {Data: "3GB/day", Calls: "Unlimited", SMS: "100/day"},
}

func entry(op operator.Operator, data string, price int64, validity string, cat Category, popular bool) Plan {
	return Plan{
		Operator: op,
		Name:     string(op) + " " + data + " - " + label(validity),
		Price:    price,
		Validity: validity,
		Benefits: dailyBenefits[data],
		Category: cat,
		Popular:  popular,
		IsActive: true,
	}
}

func label(validity string) string {
	if validity == "365 days" {
		return "1 year"
	}
	return validity
}

// Catalog returns the built-in plan set used to seed an empty store.
func Catalog() []Plan {
	return []Plan{
		entry(operator.Jio, "2GB/day", 239, "28 days", CategoryPopular, true),
		entry(operator.Jio, "2.5GB/day", 299, "28 days", CategoryPopular, true),
		entry(operator.Jio, "3GB/day", 399, "28 days", CategoryData, false),
		entry(operator.Jio, "2GB/day", 666, "84 days", CategoryValidity, false),
		entry(operator.Jio, "2.5GB/day", 719, "84 days", CategoryValidity, true),
		entry(operator.Jio, "3GB/day", 999, "84 days", CategoryUnlimited, false),

		entry(operator.Airtel, "2GB/day", 299, "28 days", CategoryPopular, true),
		entry(operator.Airtel, "2.5GB/day", 359, "28 days", CategoryPopular, true),
		entry(operator.Airtel, "3GB/day", 449, "28 days", CategoryData, false),
		entry(operator.Airtel, "2GB/day", 699, "84 days", CategoryValidity, false),
		entry(operator.Airtel, "2.5GB/day", 779, "84 days", CategoryValidity, true),
		entry(operator.Airtel, "2GB/day", 1799, "365 days", CategoryUnlimited, false),

		entry(operator.Vi, "2GB/day", 269, "28 days", CategoryPopular, true),
		entry(operator.Vi, "2.5GB/day", 329, "28 days", CategoryPopular, true),
		entry(operator.Vi, "3GB/day", 409, "28 days", CategoryData, false),
		entry(operator.Vi, "2GB/day", 669, "84 days", CategoryValidity, false),
		entry(operator.Vi, "2.5GB/day", 749, "84 days", CategoryValidity, true),
		entry(operator.Vi, "2GB/day", 1799, "365 days", CategoryUnlimited, false),

		entry(operator.BSNL, "2GB/day", 107, "26 days", CategoryPopular, true),
		entry(operator.BSNL, "2GB/day", 187, "28 days", CategoryPopular, true),
		entry(operator.BSNL, "2GB/day", 297, "45 days", CategoryData, false),
		entry(operator.BSNL, "2GB/day", 397, "60 days", CategoryValidity, false),
		entry(operator.BSNL, "2GB/day", 797, "180 days", CategoryValidity, true),
		entry(operator.BSNL, "2GB/day", 1498, "365 days", CategoryUnlimited, false),
	}
}

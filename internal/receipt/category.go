package receipt

import "strings"

// Expense categories for a landscaping services business.
const (
	CategoryMaterials        = "materials"
	CategoryPlantsAndSoil    = "plants_and_soil"
	CategoryMulchAggregates  = "mulch_and_aggregates"
	CategoryToolsEquipment   = "tools_and_equipment"
	CategoryEquipmentRental  = "equipment_rental"
	CategoryFuel             = "fuel"
	CategoryVehicleMaint     = "vehicle_maintenance"
	CategoryDisposalDumpFees = "disposal_and_dump_fees"
	CategoryLabor            = "labor"
	CategoryPermitsAndFees   = "permits_and_fees"
	CategorySafetySupplies   = "safety_supplies"
	CategoryOfficeAndAdmin   = "office_and_admin"
	CategoryMealsIncidental  = "meals_and_incidental"
	CategoryOther            = "other"
)

// categoryHint maps a description keyword to an expense category.
type categoryHint struct {
	keyword  string
	category string
}

// categoryHints is evaluated in order, first match wins. Keeping this a
// slice rather than a map makes tie-breaking deterministic.
var categoryHints = []categoryHint{
	{"mulch", CategoryMulchAggregates},
	{"gravel", CategoryMulchAggregates},
	{"stone", CategoryMulchAggregates},
	{"rock", CategoryMulchAggregates},
	{"soil", CategoryPlantsAndSoil},
	{"compost", CategoryPlantsAndSoil},
	{"sod", CategoryPlantsAndSoil},
	{"seed", CategoryPlantsAndSoil},
	{"plant", CategoryPlantsAndSoil},
	{"shrub", CategoryPlantsAndSoil},
	{"tree", CategoryPlantsAndSoil},
	{"blade", CategoryToolsEquipment},
	{"trimmer", CategoryToolsEquipment},
	{"mower", CategoryToolsEquipment},
	{"chainsaw", CategoryToolsEquipment},
	{"rake", CategoryToolsEquipment},
	{"shovel", CategoryToolsEquipment},
	{"rental", CategoryEquipmentRental},
	{"lease", CategoryEquipmentRental},
	{"gasoline", CategoryFuel},
	{"diesel", CategoryFuel},
	{"fuel", CategoryFuel},
	{"oil", CategoryVehicleMaint},
	{"tire", CategoryVehicleMaint},
	{"dump", CategoryDisposalDumpFees},
	{"landfill", CategoryDisposalDumpFees},
	{"permit", CategoryPermitsAndFees},
	{"gloves", CategorySafetySupplies},
	{"ppe", CategorySafetySupplies},
	{"safety", CategorySafetySupplies},
	{"office", CategoryOfficeAndAdmin},
	{"admin", CategoryOfficeAndAdmin},
	{"lunch", CategoryMealsIncidental},
	{"meal", CategoryMealsIncidental},
}

// InferCategory guesses an expense category from a line item description
// by substring match over the ordered keyword table. It is a heuristic,
// not authoritative; callers needing precise coverage should map
// categories themselves.
func InferCategory(description string) (string, bool) {
	normalized := strings.ToLower(description)
	for _, h := range categoryHints {
		if strings.Contains(normalized, h.keyword) {
			return h.category, true
		}
	}
	return "", false
}

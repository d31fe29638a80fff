package departments

// Department codes that own report categories
const (
	CodeRoad        = "ROAD_DEPT"
	CodeElectricity = "ELECTRICITY_DEPT"
	CodeSewage      = "SEWAGE_DEPT"
	CodeCleanliness = "CLEANLINESS_DEPT"
	CodeWaste       = "WASTE_MGMT"
	CodeWater       = "WATER_DEPT"
	CodeStreetlight = "STREETLIGHT_DEPT"
)

var categoryDepartments = map[string]string{
	"Road":         CodeRoad,
	"Electricity":  CodeElectricity,
	"Sewage":       CodeSewage,
	"Cleanliness":  CodeCleanliness,
	"Dustbin Full": CodeWaste,
	"Water":        CodeWater,
	"Streetlight":  CodeStreetlight,
}

// ForCategory returns the department owning category, or "" when no department does
func ForCategory(category string) string {
	return categoryDepartments[category]
}

// Categories lists every category with an owning department
func Categories() []string {
	out := make([]string, 0, len(categoryDepartments))
	for c := range categoryDepartments {
		out = append(out, c)
	}
	return out
}

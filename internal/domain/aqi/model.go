package aqi

// Category constants. Each value doubles as the style class applied to the
// AQI display and effects panel.
const (
	CategoryGood               = "good"
	CategoryModerate           = "moderate"
	CategoryUnhealthySensitive = "unhealthy-sensitive"
	CategoryUnhealthy          = "unhealthy"
	CategoryVeryUnhealthy      = "very-unhealthy"
	CategoryHazardous          = "hazardous"
)

// Categories lists the six categories in ascending severity order.
var Categories = []string{
	CategoryGood,
	CategoryModerate,
	CategoryUnhealthySensitive,
	CategoryUnhealthy,
	CategoryVeryUnhealthy,
	CategoryHazardous,
}

// Labels maps a category to its human-readable description.
var Labels = map[string]string{
	CategoryGood:               "Good",
	CategoryModerate:           "Moderate",
	CategoryUnhealthySensitive: "Unhealthy for Sensitive Groups",
	CategoryUnhealthy:          "Unhealthy",
	CategoryVeryUnhealthy:      "Very Unhealthy",
	CategoryHazardous:          "Hazardous",
}

// Band constants select the task table column for a reading.
const (
	Band0to50    = "0-50"
	Band51to100  = "51-100"
	Band101to150 = "101-150"
	Band151to200 = "151-200"
	Band201to300 = "201-300"
	Band301Plus  = "301+"
)

// Classify maps an AQI value onto exactly one of the six categories.
// Upper bounds are inclusive: 50 is still good, 300 is still very unhealthy.
// PRE: value >= 0
// POST: returns one of the Category* constants
func Classify(value int) string {
	switch {
	case value <= 50:
		return CategoryGood
	case value <= 100:
		return CategoryModerate
	case value <= 150:
		return CategoryUnhealthySensitive
	case value <= 200:
		return CategoryUnhealthy
	case value <= 300:
		return CategoryVeryUnhealthy
	default:
		return CategoryHazardous
	}
}

// Label returns the human-readable description for an AQI value.
func Label(value int) string {
	return Labels[Classify(value)]
}

// Band returns the task-table band for an AQI value. Band edges coincide
// with the category edges.
func Band(value int) string {
	switch Classify(value) {
	case CategoryGood:
		return Band0to50
	case CategoryModerate:
		return Band51to100
	case CategoryUnhealthySensitive:
		return Band101to150
	case CategoryUnhealthy:
		return Band151to200
	case CategoryVeryUnhealthy:
		return Band201to300
	default:
		return Band301Plus
	}
}

// ProgressPercent returns the fill fraction for the AQI progress bar as a
// percentage. The scale tops out at 300; anything beyond clamps to 100.
// POST: 0 <= result <= 100
func ProgressPercent(value int) float64 {
	pct := float64(value) / 300 * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

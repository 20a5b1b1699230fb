package aqi

// Effect icon constants. Each icon animates past its own threshold,
// independent of the six-band classification.
const (
	IconRespiratory    = "respiratory-icon"
	IconCardiovascular = "cardiovascular-icon"
	IconVisibility     = "visibility-icon"
)

// Effect is one curated health-effect entry for an AQI category.
// Description and Prevention are markdown.
type Effect struct {
	Name        string
	Icon        string
	Description string
	Prevention  string
}

// Animation returns the animation class for the effect's icon at the given
// AQI value, or "" when the icon stays still. Respiratory shakes above 50,
// cardiovascular pulses above 100, visibility fades above 150.
func (e Effect) Animation(value int) string {
	switch e.Icon {
	case IconRespiratory:
		if value > 50 {
			return "shake"
		}
	case IconCardiovascular:
		if value > 100 {
			return "pulse"
		}
	case IconVisibility:
		if value > 150 {
			return "fade"
		}
	}
	return ""
}

// EffectsFor returns the curated health-effect list for a category.
// POST: returns at least one effect for every valid category
func EffectsFor(category string) []Effect {
	return effects[category]
}

// FindEffect looks up an effect by its display name. Names are unique
// across the catalog.
func FindEffect(name string) (Effect, bool) {
	for _, category := range Categories {
		for _, e := range effects[category] {
			if e.Name == name {
				return e, true
			}
		}
	}
	return Effect{}, false
}

var effects = map[string][]Effect{
	CategoryGood: {
		{
			Name:        "Minimal Impact",
			Icon:        IconRespiratory,
			Description: "Air quality is satisfactory, and air pollution poses little or no risk.",
			Prevention:  "No specific precautions needed. Enjoy outdoor activities!",
		},
	},
	CategoryModerate: {
		{
			Name:        "Mild Respiratory Irritation",
			Icon:        IconRespiratory,
			Description: "Unusually sensitive people may experience mild respiratory irritation.",
			Prevention:  "Sensitive individuals should consider reducing prolonged outdoor exertion.",
		},
	},
	CategoryUnhealthySensitive: {
		{
			Name:        "Respiratory Issues",
			Icon:        IconRespiratory,
			Description: "Increased likelihood of respiratory symptoms in sensitive groups (e.g., children, elderly, those with asthma).",
			Prevention:  "Sensitive groups should reduce outdoor exertion, especially during peak pollution hours. Use air purifiers indoors.",
		},
		{
			Name:        "Eye Irritation",
			Icon:        IconVisibility,
			Description: "Possible eye irritation due to pollutants like dust and smoke.",
			Prevention:  "Wear protective eyewear outdoors and use eye drops if irritation occurs.",
		},
	},
	CategoryUnhealthy: {
		{
			Name:        "Severe Respiratory Issues",
			Icon:        IconRespiratory,
			Description: "Increased respiratory effects in the general population, particularly for those with pre-existing conditions.",
			Prevention:  "Limit outdoor activities, wear a mask (N95 if possible), and use air purifiers indoors.",
		},
		{
			Name:        "Cardiovascular Strain",
			Icon:        IconCardiovascular,
			Description: "Increased risk of cardiovascular issues, such as heart attacks, in vulnerable individuals.",
			Prevention:  "Avoid strenuous outdoor activities, monitor heart health, and consult a doctor if symptoms arise.",
		},
		{
			Name:        "Reduced Visibility",
			Icon:        IconVisibility,
			Description: "Haze and smog can reduce visibility, posing risks for driving and outdoor activities.",
			Prevention:  "Use fog lights while driving, avoid unnecessary travel, and stay indoors if visibility is poor.",
		},
	},
	CategoryVeryUnhealthy: {
		{
			Name:        "Serious Respiratory Problems",
			Icon:        IconRespiratory,
			Description: "Serious respiratory issues, including aggravated asthma and bronchitis, affecting the general population.",
			Prevention:  "Stay indoors, use air purifiers, wear a mask if you must go outside, and seek medical attention if symptoms worsen.",
		},
		{
			Name:        "Heart and Lung Damage",
			Icon:        IconCardiovascular,
			Description: "Significant risk of heart and lung damage, especially for those with chronic conditions.",
			Prevention:  "Avoid all outdoor activities, keep windows closed, and consult a healthcare provider for any symptoms.",
		},
		{
			Name:        "Severe Visibility Issues",
			Icon:        IconVisibility,
			Description: "Severe reduction in visibility due to heavy pollution, increasing accident risks.",
			Prevention:  "Avoid driving or outdoor activities, use indoor lighting, and wait for conditions to improve.",
		},
	},
	CategoryHazardous: {
		{
			Name:        "Critical Respiratory Failure",
			Icon:        IconRespiratory,
			Description: "Emergency conditions with a high risk of respiratory failure, even in healthy individuals.",
			Prevention:  "Remain indoors with sealed windows, use high-quality air purifiers, and seek immediate medical help for breathing difficulties.",
		},
		{
			Name:        "Cardiovascular Emergencies",
			Icon:        IconCardiovascular,
			Description: "High risk of heart attacks, strokes, and other cardiovascular emergencies.",
			Prevention:  "Avoid all physical activity, monitor symptoms closely, and contact emergency services if needed.",
		},
		{
			Name:        "Dangerous Visibility Loss",
			Icon:        IconVisibility,
			Description: "Near-zero visibility due to extreme pollution, making outdoor activities extremely dangerous.",
			Prevention:  "Stay indoors, avoid travel, and wait for air quality to improve before going outside.",
		},
	},
}

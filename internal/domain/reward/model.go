package reward

// Reward is a redeemable item costing Bloom Points. The backend validates
// affordability and records redemption; this table only drives the catalog
// shown for the user's age group.
type Reward struct {
	Title       string
	Points      int
	Description string
}

// ForGroup returns the reward catalog for an age group, or nil for an
// unknown group.
func ForGroup(ageGroup string) []Reward {
	return rewards[ageGroup]
}

var rewards = map[string][]Reward{
	"children": {
		{Title: "Eco-Friendly Coloring Book", Points: 30, Description: "A coloring book with nature themes."},
		{Title: "Plantable Seed Paper", Points: 50, Description: "Paper that grows into plants."},
		{Title: "Mini Gardening Kit", Points: 75, Description: "A kit to start your own garden."},
		{Title: "Eco-Friendly Backpack", Points: 100, Description: "Sustainable backpack for school."},
		{Title: "Nature Explorer Kit", Points: 150, Description: "Binoculars and a nature journal."},
		{Title: "Reusable Straw Set", Points: 200, Description: "Set of eco-friendly straws."},
	},
	"teenagers": {
		{Title: "Reusable Face Mask", Points: 50, Description: "Sustainable face mask."},
		{Title: "Bamboo Water Bottle", Points: 75, Description: "Eco-friendly water bottle."},
		{Title: "Eco-Friendly Notebook", Points: 100, Description: "Notebook from recycled paper."},
		{Title: "Solar-Powered Phone Charger", Points: 150, Description: "Portable solar charger."},
		{Title: "Sustainable Sneakers", Points: 200, Description: "Sneakers from recycled materials."},
		{Title: "Eco-Friendly T-Shirt", Points: 250, Description: "Organic cotton t-shirt."},
	},
	"adults": {
		{Title: "Air Purifying Plant", Points: 50, Description: "Plant that cleans indoor air."},
		{Title: "Smart Air Quality Monitor", Points: 100, Description: "Personal air quality device."},
		{Title: "Eco-Friendly Coffee Maker", Points: 150, Description: "Sustainable coffee maker."},
		{Title: "Solar Charger", Points: 200, Description: "Portable solar charging device."},
		{Title: "Eco-Friendly Home Kit", Points: 300, Description: "Kit with sustainable products."},
		{Title: "Reusable Laptop Sleeve", Points: 350, Description: "Eco-friendly laptop sleeve."},
	},
}

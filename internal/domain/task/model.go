package task

// Task is one suggested environmental action, worth a fixed number of
// Bloom Points. Tasks are immutable reference data; completion is recorded
// by the backend.
type Task struct {
	Description string
	Points      int
}

// ForGroupAndBand returns the suggested tasks for an age group and AQI band,
// or nil for an unknown combination.
func ForGroupAndBand(ageGroup, band string) []Task {
	return tasks[ageGroup][band]
}

var tasks = map[string]map[string][]Task{
	"children": {
		"0-50": {
			{Description: "Create urban wind corridors", Points: 15},
			{Description: "Launch community air monitoring networks", Points: 20},
			{Description: "Plant native trees in parks", Points: 10},
		},
		"51-100": {
			{Description: "Design eco-friendly toys", Points: 10},
			{Description: "Start a school recycling program", Points: 15},
			{Description: "Paint with natural dyes", Points: 10},
		},
		"101-150": {
			{Description: "Organize a clean-up walk", Points: 15},
			{Description: "Build a birdhouse", Points: 10},
			{Description: "Learn about air filters", Points: 10},
		},
		"151-200": {
			{Description: "Create car-free play zones", Points: 20},
			{Description: "Make a compost bin", Points: 15},
			{Description: "Join a tree-planting event", Points: 15},
		},
		"201-300": {
			{Description: "Promote walking to school", Points: 15},
			{Description: "Create anti-pollution posters", Points: 10},
			{Description: "Participate in a green challenge", Points: 20},
		},
		"301+": {
			{Description: "Assist in drone air quality surveys", Points: 25},
			{Description: "Design a pollution mask", Points: 15},
			{Description: "Help monitor local air", Points: 20},
		},
	},
	"teenagers": {
		"0-50": {
			{Description: "Develop air cleaning bicycle paths", Points: 20},
			{Description: "Install solar-powered lights", Points: 15},
			{Description: "Organize a bike rally", Points: 15},
		},
		"51-100": {
			{Description: "Apply eco-friendly paints", Points: 10},
			{Description: "Set up green roofs", Points: 20},
			{Description: "Conduct air quality workshops", Points: 15},
		},
		"101-150": {
			{Description: "Implement remote work days", Points: 20},
			{Description: "Introduce traffic calming zones", Points: 15},
			{Description: "Launch a carpool initiative", Points: 15},
		},
		"151-200": {
			{Description: "Deploy mobile air purifiers", Points: 25},
			{Description: "Enforce no-idling zones", Points: 15},
			{Description: "Monitor pollution hotspots", Points: 20},
		},
		"201-300": {
			{Description: "Use drones for tree planting", Points: 25},
			{Description: "Promote public transit use", Points: 15},
			{Description: "Create air quality apps", Points: 20},
		},
		"301+": {
			{Description: "Establish emergency bike lanes", Points: 25},
			{Description: "Lead pollution awareness campaigns", Points: 20},
			{Description: "Coordinate air filter drives", Points: 20},
		},
	},
	"adults": {
		"0-50": {
			{Description: "Implement photocatalytic coatings", Points: 20},
			{Description: "Install air purifying billboards", Points: 25},
			{Description: "Design green building plans", Points: 20},
		},
		"51-100": {
			{Description: "Enforce flexible work hours", Points: 15},
			{Description: "Deploy smog-eating cement", Points: 20},
			{Description: "Initiate urban forest projects", Points: 20},
		},
		"101-150": {
			{Description: "Restrict high-emission vehicles", Points: 20},
			{Description: "Introduce congestion pricing", Points: 15},
			{Description: "Promote telecommuting", Points: 15},
		},
		"151-200": {
			{Description: "Activate air purification towers", Points: 25},
			{Description: "Expand green wall installations", Points: 20},
			{Description: "Implement traffic rerouting", Points: 15},
		},
		"201-300": {
			{Description: "Mandate remote work policies", Points: 20},
			{Description: "Apply maximum road tolls", Points: 15},
			{Description: "Deploy emergency air filters", Points: 25},
		},
		"301+": {
			{Description: "Launch widespread drone spraying", Points: 30},
			{Description: "Create city-wide no-car zones", Points: 25},
			{Description: "Maximize all purification tech", Points: 30},
		},
	},
}

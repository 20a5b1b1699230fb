package badge

// Badge is a non-revocable milestone unlocked at a Bloom Points threshold.
// The backend owns which badges a user has earned; this catalog only drives
// the progress bar and detail text.
type Badge struct {
	Name        string
	Points      int
	Description string
}

// Catalog lists all badges ascending by threshold.
var Catalog = []Badge{
	{Name: "Green Sprout", Points: 50, Description: "Earned 50 Bloom Points!"},
	{Name: "Eco Hero", Points: 100, Description: "Earned 100 Bloom Points!"},
	{Name: "Nature Champion", Points: 200, Description: "Earned 200 Bloom Points!"},
	{Name: "Air Guardian", Points: 300, Description: "Earned 300 Bloom Points!"},
	{Name: "Planet Protector", Points: 500, Description: "Earned 500 Bloom Points!"},
}

// Progress describes how far the user is toward their next badge.
type Progress struct {
	Next    Badge // first badge above the current points, or the last badge
	Earned  int   // points gained past the previous threshold
	Span    int   // points between the previous and next thresholds
	Percent float64
}

// ComputeProgress resolves the badge progress bar for the given points.
// Next is the first badge whose threshold exceeds points (the last badge when
// none do); the previous reference is the highest threshold at or below
// points, or 0. When points already sit at the top threshold the span
// collapses; that case is shown as complete rather than dividing by zero.
// PRE: points >= 0
// POST: 0 <= Percent <= 100
func ComputeProgress(points int) Progress {
	next := Catalog[len(Catalog)-1]
	for _, b := range Catalog {
		if points < b.Points {
			next = b
			break
		}
	}

	previous := 0
	for _, b := range Catalog {
		if b.Points <= points {
			previous = b.Points
		}
	}

	p := Progress{
		Next:   next,
		Earned: points - previous,
		Span:   next.Points - previous,
	}
	if p.Span <= 0 {
		p.Percent = 100
		return p
	}
	p.Percent = float64(p.Earned) / float64(p.Span) * 100
	if p.Percent > 100 {
		p.Percent = 100
	}
	return p
}

// NewlyEarned returns the badges present in current but absent from previous,
// in award order. Badges are never revoked, so the result is exactly what the
// latest action unlocked.
func NewlyEarned(previous, current []string) []string {
	seen := make(map[string]bool, len(previous))
	for _, name := range previous {
		seen[name] = true
	}
	var fresh []string
	for _, name := range current {
		if !seen[name] {
			fresh = append(fresh, name)
		}
	}
	return fresh
}

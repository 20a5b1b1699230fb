package profile

// Age group constants used to select tasks and rewards.
const (
	GroupChildren  = "children"
	GroupTeenagers = "teenagers"
	GroupAdults    = "adults"
)

// Profile mirrors the backend's user payload. It is a transient, per-request
// copy: points, badges, and counters are authoritative on the backend and are
// always replaced wholesale from the latest response, never computed locally.
type Profile struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Age            int      `json:"age"`
	City           string   `json:"city"`
	BloomPoints    int      `json:"bloom_points"`
	TasksCompleted int      `json:"tasks_completed"`
	Badges         []string `json:"badges"`
	Rewards        []string `json:"rewards"`
	Community      string   `json:"community,omitempty"`
	ProfileImage   string   `json:"profile_image,omitempty"` // data URI when set
}

// AgeGroup maps the profile's age onto children (<=12), teenagers (13-19),
// or adults (>=20).
func (p Profile) AgeGroup() string {
	return AgeGroupFor(p.Age)
}

// AgeGroupFor maps an age onto its group.
func AgeGroupFor(age int) string {
	switch {
	case age <= 12:
		return GroupChildren
	case age <= 19:
		return GroupTeenagers
	default:
		return GroupAdults
	}
}

// LatestBadge returns the most recently awarded badge name, or "" when the
// user has none. Badge order is award order.
func (p Profile) LatestBadge() string {
	if len(p.Badges) == 0 {
		return ""
	}
	return p.Badges[len(p.Badges)-1]
}

package catalog

// Role is the inferred purpose of a named map point, derived purely from
// naming conventions. Classification is best-effort; RoleUnclassified means
// the catalog is incomplete for that point, not that it is invalid.
type Role string

const (
	RoleShelf          Role = "shelf"
	RoleShelfDocking   Role = "shelf_docking"
	RolePickup         Role = "pickup"
	RolePickupDocking  Role = "pickup_docking"
	RoleDropoff        Role = "dropoff"
	RoleDropoffDocking Role = "dropoff_docking"
	RoleCharger        Role = "charger"
	RoleUnclassified   Role = "unclassified"
)

// IsDocking reports whether the role is an approach position rather than a
// target position.
func (r Role) IsDocking() bool {
	return r == RoleShelfDocking || r == RolePickupDocking || r == RoleDropoffDocking
}

// Point is a named location on a robot's map. Immutable once resolved; the
// resolver rebuilds the set on cache expiry or explicit refresh.
type Point struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Orientation float64 `json:"orientation"`
	Role        Role    `json:"role"`
}

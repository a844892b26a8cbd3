package catalog

import "strings"

// Classify infers a point's role from its id. Matching is case-insensitive
// substring testing against the conventions used when maps are authored:
//
//	104_load            shelf (load point)
//	104_load_docking    approach position for that shelf
//	pickup_01           handoff point where loads enter the system
//	dropoff_02_docking  approach position for a dropoff point
//	charger / charging  charge dock
//
// A docking id with no pickup/dropoff base is treated as a shelf approach,
// since "<base>_docking" is the short form map authors use for shelves.
func Classify(id string) Role {
	name := strings.ToLower(id)

	if strings.Contains(name, "charger") || strings.Contains(name, "charging") {
		return RoleCharger
	}
	if strings.Contains(name, "_docking") {
		switch {
		case strings.Contains(name, "pickup"):
			return RolePickupDocking
		case strings.Contains(name, "dropoff"):
			return RoleDropoffDocking
		default:
			return RoleShelfDocking
		}
	}
	switch {
	case strings.Contains(name, "pickup"):
		return RolePickup
	case strings.Contains(name, "dropoff"):
		return RoleDropoff
	case strings.Contains(name, "_load"):
		return RoleShelf
	}
	return RoleUnclassified
}

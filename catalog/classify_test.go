package catalog

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		id   string
		want Role
	}{
		{"104_load", RoleShelf},
		{"104_LOAD", RoleShelf},
		{"104_load_docking", RoleShelfDocking},
		{"104_docking", RoleShelfDocking},
		{"pickup_01", RolePickup},
		{"pickup_01_docking", RolePickupDocking},
		{"dropoff_02", RoleDropoff},
		{"dropoff_02_docking", RoleDropoffDocking},
		{"charger", RoleCharger},
		{"Charging_Station", RoleCharger},
		{"zone2_charger_docking", RoleCharger},
		{"AP9", RoleUnclassified},
		{"", RoleUnclassified},
	}
	for _, tt := range tests {
		if got := Classify(tt.id); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestRoleIsDocking(t *testing.T) {
	docking := []Role{RoleShelfDocking, RolePickupDocking, RoleDropoffDocking}
	for _, r := range docking {
		if !r.IsDocking() {
			t.Errorf("%s.IsDocking() = false, want true", r)
		}
	}
	for _, r := range []Role{RoleShelf, RolePickup, RoleDropoff, RoleCharger, RoleUnclassified} {
		if r.IsDocking() {
			t.Errorf("%s.IsDocking() = true, want false", r)
		}
	}
}

package workflow

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"ambercore/catalog"
	"ambercore/mission"
)

// fakeCatalog serves a fixed point list with the resolver's lookup semantics.
type fakeCatalog struct {
	points []catalog.Point
}

func newFakeCatalog(names ...string) *fakeCatalog {
	f := &fakeCatalog{}
	for i, n := range names {
		f.points = append(f.points, catalog.Point{
			ID:          n,
			X:           float64(i),
			Y:           float64(i) * 2,
			Orientation: 90,
			Role:        catalog.Classify(n),
		})
	}
	return f
}

func (f *fakeCatalog) PointByID(mapID, id string) (*catalog.Point, error) {
	for i := range f.points {
		if f.points[i].ID == id {
			return &f.points[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) PointsByRole(mapID string, role catalog.Role) ([]catalog.Point, error) {
	var out []catalog.Point
	for _, p := range f.points {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) DockingPointFor(mapID, baseID string) (*catalog.Point, error) {
	for _, candidate := range []string{baseID + "_load_docking", baseID + "_docking"} {
		for i := range f.points {
			if f.points[i].ID == candidate {
				return &f.points[i], nil
			}
		}
	}
	for i := range f.points {
		if f.points[i].Role.IsDocking() {
			return &f.points[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) ChargerPoint(mapID string) (*catalog.Point, error) {
	for i := range f.points {
		if f.points[i].Role == catalog.RoleCharger {
			return &f.points[i], nil
		}
	}
	return nil, nil
}

type fakeState struct {
	estop    bool
	charging bool
	err      error
}

func (f *fakeState) ReadEmergencyStop() (bool, error) { return f.estop, f.err }
func (f *fakeState) ReadChargingState() (bool, error) { return f.charging, f.err }

type fakeBins struct {
	present map[string]bool
	err     error
}

func (f *fakeBins) BinPresent(pointID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.present[pointID], nil
}

// fakeQueue records composer output without executing anything.
type fakeQueue struct {
	ops      []string
	missions []*mission.Mission
}

func (q *fakeQueue) CreateMission(name, robotID string, steps []mission.Step) (*mission.Mission, error) {
	q.ops = append(q.ops, "create:"+name)
	m := &mission.Mission{ID: fmt.Sprintf("m-%d", len(q.missions)+1), Name: name, RobotID: robotID, Steps: steps, Status: mission.StatusPending}
	q.missions = append(q.missions, m)
	return m, nil
}

func (q *fakeQueue) CancelAllActive(reason string) {
	q.ops = append(q.ops, "cancel-all")
}

func standardMap() *fakeCatalog {
	return newFakeCatalog(
		"104_load", "104_load_docking",
		"pickup_01", "pickup_01_docking",
		"dropoff_01", "dropoff_01_docking",
		"charger",
	)
}

func newTestComposer(cat Catalog, state *fakeState, bins *fakeBins, queue Queue) *Composer {
	return NewComposer(cat, state, bins, queue, "floor1", "AMB-01")
}

func stepKinds(steps []mission.Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Kind
	}
	return out
}

func TestPickupComposesFullTransport(t *testing.T) {
	queue := &fakeQueue{}
	c := newTestComposer(standardMap(), &fakeState{}, &fakeBins{present: map[string]bool{"104_load": true}}, queue)

	m, err := c.Pickup("104")
	if err != nil {
		t.Fatalf("Pickup: %v", err)
	}
	if m.Name != "pickup 104" {
		t.Errorf("name = %q", m.Name)
	}

	want := []string{
		mission.StepMove, mission.StepAlignRack, mission.StepJackUp,
		mission.StepMove, mission.StepToUnload, mission.StepJackDown,
		mission.StepMove, mission.StepChargeReturn,
	}
	got := stepKinds(m.Steps)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	if m.Steps[0].Label != "104_load_docking" || m.Steps[1].Label != "104_load" {
		t.Errorf("source labels wrong: %s, %s", m.Steps[0].Label, m.Steps[1].Label)
	}
	if m.Steps[3].Label != "dropoff_01_docking" || m.Steps[4].Label != "dropoff_01" {
		t.Errorf("destination labels wrong: %s, %s", m.Steps[3].Label, m.Steps[4].Label)
	}
	// Retreat revisits the destination approach position.
	if m.Steps[6].Label != "dropoff_01_docking" {
		t.Errorf("retreat label = %s", m.Steps[6].Label)
	}
}

func TestPickupWithoutBinComposesSafeReturn(t *testing.T) {
	queue := &fakeQueue{}
	c := newTestComposer(standardMap(), &fakeState{}, &fakeBins{}, queue)

	m, err := c.Pickup("104")
	if err != nil {
		t.Fatalf("Pickup: %v", err)
	}
	want := []string{mission.StepMove, mission.StepChargeReturn}
	got := stepKinds(m.Steps)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	if m.Steps[0].Label != "104_load_docking" {
		t.Errorf("safe-return target = %s, want the shelf docking point", m.Steps[0].Label)
	}
}

func TestPickupWithoutChargerOmitsReturn(t *testing.T) {
	cat := newFakeCatalog("104_load", "104_load_docking", "dropoff_01", "dropoff_01_docking")
	queue := &fakeQueue{}
	c := newTestComposer(cat, &fakeState{}, &fakeBins{present: map[string]bool{"104_load": true}}, queue)

	m, err := c.Pickup("104")
	if err != nil {
		t.Fatalf("Pickup: %v", err)
	}
	if len(m.Steps) != 7 {
		t.Fatalf("got %d steps, want 7 without a charger point", len(m.Steps))
	}
	if m.Steps[len(m.Steps)-1].Kind == mission.StepChargeReturn {
		t.Error("charge return composed on a chargerless map")
	}
}

func TestPickupUnknownShelf(t *testing.T) {
	queue := &fakeQueue{}
	c := newTestComposer(standardMap(), &fakeState{}, &fakeBins{}, queue)

	_, err := c.Pickup("999")
	if !IsPrecondition(err) {
		t.Fatalf("got %v, want precondition error", err)
	}
	if len(queue.missions) != 0 {
		t.Error("mission queued despite unresolvable shelf")
	}
}

func TestPickupRejectedDuringEmergencyStop(t *testing.T) {
	queue := &fakeQueue{}
	c := newTestComposer(standardMap(), &fakeState{estop: true}, &fakeBins{}, queue)

	_, err := c.Pickup("104")
	if !IsPrecondition(err) {
		t.Fatalf("got %v, want precondition error", err)
	}
	if len(queue.missions) != 0 {
		t.Error("mission queued during emergency stop")
	}
}

func TestPickupRejectedWhileCharging(t *testing.T) {
	c := newTestComposer(standardMap(), &fakeState{charging: true}, &fakeBins{}, &fakeQueue{})
	if _, err := c.Pickup("104"); !IsPrecondition(err) {
		t.Fatalf("got %v, want precondition error", err)
	}
}

func TestPickupBinCheckErrorPropagates(t *testing.T) {
	c := newTestComposer(standardMap(), &fakeState{}, &fakeBins{err: errors.New("sensor offline")}, &fakeQueue{})
	_, err := c.Pickup("104")
	if err == nil || IsPrecondition(err) {
		t.Fatalf("got %v, want plain error from bin check", err)
	}
}

func TestDropoffComposesMirrorTransport(t *testing.T) {
	queue := &fakeQueue{}
	c := newTestComposer(standardMap(), &fakeState{}, &fakeBins{}, queue)

	m, err := c.Dropoff("104")
	if err != nil {
		t.Fatalf("Dropoff: %v", err)
	}
	want := []string{
		mission.StepMove, mission.StepAlignRack, mission.StepJackUp,
		mission.StepMove, mission.StepToUnload, mission.StepJackDown,
		mission.StepMove, mission.StepChargeReturn,
	}
	got := stepKinds(m.Steps)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	// Source is the pickup handoff, destination the shelf.
	if m.Steps[0].Label != "pickup_01_docking" || m.Steps[4].Label != "104_load" {
		t.Errorf("labels wrong: %s -> %s", m.Steps[0].Label, m.Steps[4].Label)
	}
}

func TestDropoffOccupiedShelfComposesSafeReturn(t *testing.T) {
	queue := &fakeQueue{}
	c := newTestComposer(standardMap(), &fakeState{}, &fakeBins{present: map[string]bool{"104_load": true}}, queue)

	m, err := c.Dropoff("104")
	if err != nil {
		t.Fatalf("Dropoff: %v", err)
	}
	want := []string{mission.StepMove, mission.StepChargeReturn}
	if got := stepKinds(m.Steps); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("steps = %v, want %v", got, want)
	}
}

func TestZoneWorkflow(t *testing.T) {
	cat := newFakeCatalog(
		"pickup_01", "pickup_01_docking",
		"zone2_pickup", "zone2_pickup_docking",
		"zone2_dropoff", "zone2_dropoff_docking",
		"charger",
	)
	queue := &fakeQueue{}
	bins := &fakeBins{present: map[string]bool{"zone2_pickup": true}}
	c := newTestComposer(cat, &fakeState{}, bins, queue)

	m, err := c.ZoneWorkflow("zone2")
	if err != nil {
		t.Fatalf("ZoneWorkflow: %v", err)
	}
	if m.Name != "zone zone2" {
		t.Errorf("name = %q", m.Name)
	}
	if m.Steps[0].Label != "zone2_pickup_docking" {
		t.Errorf("zone filter picked wrong source: %s", m.Steps[0].Label)
	}
	if m.Steps[4].Label != "zone2_dropoff" {
		t.Errorf("zone filter picked wrong destination: %s", m.Steps[4].Label)
	}
}

func TestZoneWorkflowTargetOccupied(t *testing.T) {
	cat := newFakeCatalog(
		"zone2_pickup", "zone2_pickup_docking",
		"zone2_dropoff", "zone2_dropoff_docking",
	)
	bins := &fakeBins{present: map[string]bool{"zone2_pickup": true, "zone2_dropoff": true}}
	c := newTestComposer(cat, &fakeState{}, bins, &fakeQueue{})

	m, err := c.ZoneWorkflow("zone2")
	if err != nil {
		t.Fatalf("ZoneWorkflow: %v", err)
	}
	if len(m.Steps) != 1 || m.Steps[0].Kind != mission.StepMove {
		t.Fatalf("steps = %v, want safe-return move only", stepKinds(m.Steps))
	}
}

func TestZoneWorkflowUnknownZone(t *testing.T) {
	c := newTestComposer(standardMap(), &fakeState{}, &fakeBins{}, &fakeQueue{})
	if _, err := c.ZoneWorkflow("zone9"); !IsPrecondition(err) {
		t.Fatalf("got %v, want precondition error", err)
	}
}

func TestReturnToChargerCancelsActiveFirst(t *testing.T) {
	queue := &fakeQueue{}
	c := newTestComposer(standardMap(), &fakeState{}, &fakeBins{}, queue)

	m, err := c.ReturnToCharger()
	if err != nil {
		t.Fatalf("ReturnToCharger: %v", err)
	}
	if len(m.Steps) != 1 || m.Steps[0].Kind != mission.StepChargeReturn {
		t.Fatalf("steps = %v, want single charge-return step", stepKinds(m.Steps))
	}
	if len(queue.ops) != 2 || queue.ops[0] != "cancel-all" || queue.ops[1] != "create:return to charger" {
		t.Errorf("ops = %v, want cancel-all before create", queue.ops)
	}
}

func TestReturnToChargerWhileCharging(t *testing.T) {
	queue := &fakeQueue{}
	c := newTestComposer(standardMap(), &fakeState{charging: true}, &fakeBins{}, queue)

	if _, err := c.ReturnToCharger(); !IsPrecondition(err) {
		t.Fatalf("got %v, want precondition error", err)
	}
	if len(queue.ops) != 0 {
		t.Errorf("ops = %v, want none while already charging", queue.ops)
	}
}

func TestReturnToChargerDuringEmergencyStop(t *testing.T) {
	c := newTestComposer(standardMap(), &fakeState{estop: true}, &fakeBins{}, &fakeQueue{})
	if _, err := c.ReturnToCharger(); !IsPrecondition(err) {
		t.Fatalf("got %v, want precondition error", err)
	}
}

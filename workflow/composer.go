package workflow

import (
	"fmt"
	"log"
	"strings"

	"ambercore/catalog"
	"ambercore/mission"
)

// Composer turns a semantic intent (pick up shelf 104, drop at the dock,
// return to charger) into an ordered mission step list and hands it to the
// queue manager. All point resolution and precondition checking happens here,
// before a mission exists; partially specified missions are never queued.
type Composer struct {
	catalog Catalog
	state   StateReader
	bins    BinChecker
	queue   Queue
	mapID   string
	robotID string
}

func NewComposer(cat Catalog, state StateReader, bins BinChecker, queue Queue, mapID, robotID string) *Composer {
	return &Composer{
		catalog: cat,
		state:   state,
		bins:    bins,
		queue:   queue,
		mapID:   mapID,
		robotID: robotID,
	}
}

// Pickup composes the canonical pickup sequence for a shelf: dock, align
// under the rack, lift, transport to the dropoff, set down, retreat, return
// to charger. If no bin is present at the shelf the transport sub-sequence is
// omitted (not failed) and the mission still ends in a safe position.
func (c *Composer) Pickup(shelfID string) (*mission.Mission, error) {
	if err := c.checkPreconditions(); err != nil {
		return nil, err
	}

	shelf, shelfDock, err := c.resolveShelfPair(shelfID)
	if err != nil {
		return nil, err
	}
	drop, dropDock, err := c.resolveRolePair(catalog.RoleDropoff, "")
	if err != nil {
		return nil, err
	}

	present, err := c.bins.BinPresent(shelf.ID)
	if err != nil {
		return nil, fmt.Errorf("bin check at %s: %w", shelf.ID, err)
	}

	var steps []mission.Step
	if present {
		steps = transportSteps(shelfDock, shelf, dropDock, drop)
	} else {
		// Lenient policy: nothing to pick up is not an error. Park at the
		// approach position rather than stranding the robot mid-aisle.
		log.Printf("workflow: no bin at %s, composing safe-return only", shelf.ID)
		steps = []mission.Step{moveStep(shelfDock)}
	}
	steps = c.appendChargerReturn(steps)

	return c.queue.CreateMission(fmt.Sprintf("pickup %s", shelfID), c.robotID, steps)
}

// Dropoff composes the mirror sequence: collect from the pickup handoff point
// and deliver onto the shelf. Proceeds only if the target shelf is clear.
func (c *Composer) Dropoff(shelfID string) (*mission.Mission, error) {
	if err := c.checkPreconditions(); err != nil {
		return nil, err
	}

	shelf, shelfDock, err := c.resolveShelfPair(shelfID)
	if err != nil {
		return nil, err
	}
	pickup, pickupDock, err := c.resolveRolePair(catalog.RolePickup, "")
	if err != nil {
		return nil, err
	}

	occupied, err := c.bins.BinPresent(shelf.ID)
	if err != nil {
		return nil, fmt.Errorf("bin check at %s: %w", shelf.ID, err)
	}

	var steps []mission.Step
	if !occupied {
		steps = transportSteps(pickupDock, pickup, shelfDock, shelf)
	} else {
		log.Printf("workflow: target %s occupied, composing safe-return only", shelf.ID)
		steps = []mission.Step{moveStep(pickupDock)}
	}
	steps = c.appendChargerReturn(steps)

	return c.queue.CreateMission(fmt.Sprintf("dropoff %s", shelfID), c.robotID, steps)
}

// ZoneWorkflow composes a two-leg transport within a named zone: collect at
// the zone's pickup point, deliver at its dropoff point. Both legs are gated
// on bin presence; an unsatisfiable leg degrades to the safe-return tail.
func (c *Composer) ZoneWorkflow(zoneID string) (*mission.Mission, error) {
	if err := c.checkPreconditions(); err != nil {
		return nil, err
	}

	pickup, pickupDock, err := c.resolveRolePair(catalog.RolePickup, zoneID)
	if err != nil {
		return nil, err
	}
	drop, dropDock, err := c.resolveRolePair(catalog.RoleDropoff, zoneID)
	if err != nil {
		return nil, err
	}

	present, err := c.bins.BinPresent(pickup.ID)
	if err != nil {
		return nil, fmt.Errorf("bin check at %s: %w", pickup.ID, err)
	}
	clear := true
	if present {
		occupied, err := c.bins.BinPresent(drop.ID)
		if err != nil {
			return nil, fmt.Errorf("bin check at %s: %w", drop.ID, err)
		}
		clear = !occupied
	}

	var steps []mission.Step
	if present && clear {
		steps = transportSteps(pickupDock, pickup, dropDock, drop)
	} else {
		log.Printf("workflow: zone %s not transportable (source present=%v, target clear=%v), composing safe-return only", zoneID, present, clear)
		steps = []mission.Step{moveStep(pickupDock)}
	}
	steps = c.appendChargerReturn(steps)

	return c.queue.CreateMission(fmt.Sprintf("zone %s", zoneID), c.robotID, steps)
}

// ReturnToCharger cancels all active missions and queues a stand-alone
// charger-return mission. Docking has priority over any in-flight task.
func (c *Composer) ReturnToCharger() (*mission.Mission, error) {
	engaged, err := c.state.ReadEmergencyStop()
	if err != nil {
		return nil, fmt.Errorf("emergency stop check: %w", err)
	}
	if engaged {
		return nil, &PreconditionError{Reason: "emergency stop is engaged"}
	}
	charging, err := c.state.ReadChargingState()
	if err != nil {
		return nil, fmt.Errorf("charging state check: %w", err)
	}
	if charging {
		return nil, &PreconditionError{Reason: "robot is already charging"}
	}

	c.queue.CancelAllActive("superseded by charger return")
	steps := []mission.Step{{Kind: mission.StepChargeReturn, Label: "return to charger"}}
	return c.queue.CreateMission("return to charger", c.robotID, steps)
}

// checkPreconditions rejects new transport workflows while the emergency stop
// is engaged or the robot is on the charger.
func (c *Composer) checkPreconditions() error {
	engaged, err := c.state.ReadEmergencyStop()
	if err != nil {
		return fmt.Errorf("emergency stop check: %w", err)
	}
	if engaged {
		return &PreconditionError{Reason: "emergency stop is engaged"}
	}
	charging, err := c.state.ReadChargingState()
	if err != nil {
		return fmt.Errorf("charging state check: %w", err)
	}
	if charging {
		return &PreconditionError{Reason: "robot is charging; take it off the charger before dispatching work"}
	}
	return nil
}

// resolveShelfPair resolves a shelf's load point and its docking point.
func (c *Composer) resolveShelfPair(shelfID string) (*catalog.Point, *catalog.Point, error) {
	shelf, err := c.catalog.PointByID(c.mapID, shelfID+"_load")
	if err != nil {
		return nil, nil, err
	}
	if shelf == nil {
		shelf, err = c.catalog.PointByID(c.mapID, shelfID)
		if err != nil {
			return nil, nil, err
		}
	}
	if shelf == nil {
		return nil, nil, &PreconditionError{Reason: fmt.Sprintf("shelf point for %q not found on map %s", shelfID, c.mapID)}
	}
	dock, err := c.catalog.DockingPointFor(c.mapID, shelfID)
	if err != nil {
		return nil, nil, err
	}
	if dock == nil {
		return nil, nil, &PreconditionError{Reason: fmt.Sprintf("no docking point resolvable for %q on map %s", shelfID, c.mapID)}
	}
	return shelf, dock, nil
}

// resolveRolePair resolves a point of the given role (optionally constrained
// to ids containing zoneID) and its docking point.
func (c *Composer) resolveRolePair(role catalog.Role, zoneID string) (*catalog.Point, *catalog.Point, error) {
	points, err := c.catalog.PointsByRole(c.mapID, role)
	if err != nil {
		return nil, nil, err
	}
	var target *catalog.Point
	for i := range points {
		if zoneID == "" || strings.Contains(strings.ToLower(points[i].ID), strings.ToLower(zoneID)) {
			target = &points[i]
			break
		}
	}
	if target == nil {
		return nil, nil, &PreconditionError{Reason: fmt.Sprintf("no %s point for zone %q on map %s", role, zoneID, c.mapID)}
	}
	dock, err := c.catalog.DockingPointFor(c.mapID, target.ID)
	if err != nil {
		return nil, nil, err
	}
	if dock == nil {
		return nil, nil, &PreconditionError{Reason: fmt.Sprintf("no docking point resolvable for %q on map %s", target.ID, c.mapID)}
	}
	return target, dock, nil
}

// appendChargerReturn adds the terminal charger-return step when the map has
// a charger point. Maps without one simply end at the retreat position.
func (c *Composer) appendChargerReturn(steps []mission.Step) []mission.Step {
	charger, err := c.catalog.ChargerPoint(c.mapID)
	if err != nil || charger == nil {
		if err != nil {
			log.Printf("workflow: charger point lookup: %v", err)
		}
		return steps
	}
	return append(steps, mission.Step{Kind: mission.StepChargeReturn, Label: "return to charger"})
}

// transportSteps is the canonical load-transport sequence: approach the
// source, align under the load, lift, approach the destination, set down,
// retreat to the destination's approach position.
func transportSteps(srcDock, src, dstDock, dst *catalog.Point) []mission.Step {
	return []mission.Step{
		moveStep(srcDock),
		alignStep(src),
		{Kind: mission.StepJackUp, Label: "jack up"},
		moveStep(dstDock),
		unloadStep(dst),
		{Kind: mission.StepJackDown, Label: "jack down"},
		moveStep(dstDock),
	}
}

func moveStep(p *catalog.Point) mission.Step {
	return mission.Step{Kind: mission.StepMove, X: p.X, Y: p.Y, Orientation: p.Orientation, Label: p.ID}
}

func alignStep(p *catalog.Point) mission.Step {
	return mission.Step{Kind: mission.StepAlignRack, X: p.X, Y: p.Y, Orientation: p.Orientation, Label: p.ID}
}

func unloadStep(p *catalog.Point) mission.Step {
	return mission.Step{Kind: mission.StepToUnload, X: p.X, Y: p.Y, Orientation: p.Orientation, Label: p.ID}
}

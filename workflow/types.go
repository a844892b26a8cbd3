package workflow

import (
	"errors"
	"time"

	"ambercore/catalog"
	"ambercore/mission"
	"ambercore/robot"
)

// Catalog is the slice of the point resolver the composer depends on.
type Catalog interface {
	PointByID(mapID, id string) (*catalog.Point, error)
	PointsByRole(mapID string, role catalog.Role) ([]catalog.Point, error)
	DockingPointFor(mapID, baseID string) (*catalog.Point, error)
	ChargerPoint(mapID string) (*catalog.Point, error)
}

// StateReader exposes the robot state queries used for precondition checks.
type StateReader interface {
	ReadEmergencyStop() (bool, error)
	ReadChargingState() (bool, error)
}

// BinChecker answers whether a physical load currently occupies a point.
// It is an external collaborator; the production implementation asks the
// device, tests substitute a table.
type BinChecker interface {
	BinPresent(pointID string) (bool, error)
}

// Queue is the slice of the mission manager the composer hands missions to.
type Queue interface {
	CreateMission(name, robotID string, steps []mission.Step) (*mission.Mission, error)
	CancelAllActive(reason string)
}

// ChargerDevice is the slice of the device adapter the charger-return
// strategy drives. Satisfied by robot.Client.
type ChargerDevice interface {
	ReadJackState() (robot.JackState, error)
	LowerJack() error
	ReturnToChargerService() error
	SubmitChargingTask() error
	BasicCharge() error
	SendMove(x, y, orientation float64, moveType robot.MoveType) (string, error)
	WaitForMove(moveID string, timeout time.Duration) error
	MoveTimeoutFor(moveType robot.MoveType) time.Duration
	ReadChargingState() (bool, error)
	ChargeVerifyWait() time.Duration
	MovePollInterval() time.Duration
}

// PreconditionError reports a condition that must hold before a mission is
// created: a resolvable point set, a disengaged emergency stop, a robot not
// already on the charger. It is surfaced synchronously to the caller;
// no mission is ever queued for it.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return "precondition failed: " + e.Reason }

// IsPrecondition reports whether err is a precondition failure.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// DeviceBinChecker implements BinChecker against the robot's bin endpoint.
type DeviceBinChecker struct {
	Client *robot.Client
}

func (d *DeviceBinChecker) BinPresent(pointID string) (bool, error) {
	return d.Client.CheckBin(pointID)
}

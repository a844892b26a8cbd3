package workflow

import (
	"fmt"
	"log"
	"time"

	"ambercore/robot"
)

// ChargerStrategy gets the robot docked and confirmed charging. Methods are
// ordered from the most integrated device facility down to a raw coordinate
// move, each verified by the same charging poll; the first verified method
// wins. Exhausting all of them is an operator-visible failure, never a silent
// retry loop: an undocked, non-charging robot is a safety-relevant state.
type ChargerStrategy struct {
	device      ChargerDevice
	catalog     Catalog
	mapID       string
	moveRetries int
}

func NewChargerStrategy(device ChargerDevice, cat Catalog, mapID string) *ChargerStrategy {
	return &ChargerStrategy{
		device:      device,
		catalog:     cat,
		mapID:       mapID,
		moveRetries: 2,
	}
}

type chargerMethod struct {
	name string
	run  func() error
}

// ReturnToCharger runs the fallback chain. It satisfies mission.ChargerReturner.
func (s *ChargerStrategy) ReturnToCharger() error {
	// Never approach the charger with a raised jack.
	state, err := s.device.ReadJackState()
	if err != nil {
		return err
	}
	if state != robot.JackDown {
		log.Printf("charger: jack is %s, lowering before return", state)
		if err := s.device.LowerJack(); err != nil {
			return fmt.Errorf("lower jack before charger return: %w", err)
		}
	}

	methods := []chargerMethod{
		{"service return", s.device.ReturnToChargerService},
		{"charging task", s.device.SubmitChargingTask},
		{"basic charge", s.device.BasicCharge},
		{"coordinate charge move", s.coordinateChargeMove},
	}

	window := s.device.ChargeVerifyWait()
	for _, m := range methods {
		if err := m.run(); err != nil {
			log.Printf("charger: %s: %v", m.name, err)
			continue
		}
		if s.verifyCharging(window) {
			log.Printf("charger: %s verified charging", m.name)
			return nil
		}
		log.Printf("charger: %s did not verify charging within %s", m.name, window)
	}
	return fmt.Errorf("charger return exhausted all methods without verified charging")
}

// coordinateChargeMove is the last resort: a move of type charge straight at
// the charger point, with a bounded retry count.
func (s *ChargerStrategy) coordinateChargeMove() error {
	pt, err := s.catalog.ChargerPoint(s.mapID)
	if err != nil {
		return err
	}
	if pt == nil {
		return fmt.Errorf("no charger point on map %s", s.mapID)
	}

	var lastErr error
	for attempt := 0; attempt < s.moveRetries; attempt++ {
		moveID, err := s.device.SendMove(pt.X, pt.Y, pt.Orientation, robot.MoveCharge)
		if err != nil {
			lastErr = err
			continue
		}
		if err := s.device.WaitForMove(moveID, s.device.MoveTimeoutFor(robot.MoveCharge)); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("charge move failed after %d attempts: %w", s.moveRetries, lastErr)
}

// verifyCharging polls the charging state until it reads true or the window
// is exhausted. Read errors are tolerated inside the window; the robot may
// momentarily drop offline while docking.
func (s *ChargerStrategy) verifyCharging(window time.Duration) bool {
	deadline := time.Now().Add(window)
	for {
		charging, err := s.device.ReadChargingState()
		if err == nil && charging {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(s.device.MovePollInterval())
	}
}

package workflow

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ambercore/robot"
)

// fakeChargerDevice scripts the charger fallback chain. chargeOn names the
// method whose success makes the charging state read true.
type fakeChargerDevice struct {
	mu        sync.Mutex
	calls     []string
	jackState robot.JackState
	lowerErr  error

	serviceErr   error
	taskErr      error
	basicErr     error
	sendFailures int
	sends        int
	waitErr      error

	chargeOn string
	charging bool
}

func (d *fakeChargerDevice) record(op string) {
	d.mu.Lock()
	d.calls = append(d.calls, op)
	d.mu.Unlock()
}

func (d *fakeChargerDevice) ReadJackState() (robot.JackState, error) {
	if d.jackState == "" {
		return robot.JackDown, nil
	}
	return d.jackState, nil
}

func (d *fakeChargerDevice) LowerJack() error {
	d.record("lower_jack")
	if d.lowerErr != nil {
		return d.lowerErr
	}
	d.jackState = robot.JackDown
	return nil
}

func (d *fakeChargerDevice) ReturnToChargerService() error {
	d.record("service")
	if d.serviceErr == nil && d.chargeOn == "service" {
		d.charging = true
	}
	return d.serviceErr
}

func (d *fakeChargerDevice) SubmitChargingTask() error {
	d.record("task")
	if d.taskErr == nil && d.chargeOn == "task" {
		d.charging = true
	}
	return d.taskErr
}

func (d *fakeChargerDevice) BasicCharge() error {
	d.record("basic")
	if d.basicErr == nil && d.chargeOn == "basic" {
		d.charging = true
	}
	return d.basicErr
}

func (d *fakeChargerDevice) SendMove(x, y, orientation float64, moveType robot.MoveType) (string, error) {
	d.record("send:" + string(moveType))
	d.sends++
	if d.sends <= d.sendFailures {
		return "", &robot.OfflineError{Op: "moves", Err: errors.New("connection refused")}
	}
	return "cm-1", nil
}

func (d *fakeChargerDevice) WaitForMove(moveID string, timeout time.Duration) error {
	d.record("wait:" + moveID)
	if d.waitErr == nil && d.chargeOn == "move" {
		d.charging = true
	}
	return d.waitErr
}

func (d *fakeChargerDevice) MoveTimeoutFor(robot.MoveType) time.Duration { return time.Second }
func (d *fakeChargerDevice) ReadChargingState() (bool, error)            { return d.charging, nil }
func (d *fakeChargerDevice) ChargeVerifyWait() time.Duration             { return 5 * time.Millisecond }
func (d *fakeChargerDevice) MovePollInterval() time.Duration             { return time.Millisecond }

func (d *fakeChargerDevice) callList() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}

func TestChargerFirstMethodWins(t *testing.T) {
	device := &fakeChargerDevice{chargeOn: "service"}
	s := NewChargerStrategy(device, standardMap(), "floor1")

	if err := s.ReturnToCharger(); err != nil {
		t.Fatalf("ReturnToCharger: %v", err)
	}
	calls := device.callList()
	if len(calls) != 1 || calls[0] != "service" {
		t.Errorf("calls = %v, want service only", calls)
	}
}

func TestChargerFallbackOrder(t *testing.T) {
	device := &fakeChargerDevice{
		serviceErr: errors.New("service unavailable"),
		taskErr:    errors.New("task queue full"),
		basicErr:   errors.New("not supported"),
		chargeOn:   "move",
	}
	s := NewChargerStrategy(device, standardMap(), "floor1")

	if err := s.ReturnToCharger(); err != nil {
		t.Fatalf("ReturnToCharger: %v", err)
	}
	calls := device.callList()
	want := []string{"service", "task", "basic", "send:charge", "wait:cm-1"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestChargerUnverifiedMethodFallsThrough(t *testing.T) {
	// Every endpoint accepts the command, but charging only ever verifies
	// after the coordinate move.
	device := &fakeChargerDevice{chargeOn: "move"}
	s := NewChargerStrategy(device, standardMap(), "floor1")

	if err := s.ReturnToCharger(); err != nil {
		t.Fatalf("ReturnToCharger: %v", err)
	}
	calls := device.callList()
	if len(calls) != 5 {
		t.Errorf("calls = %v, want all four methods attempted", calls)
	}
}

func TestChargerExhaustionFails(t *testing.T) {
	device := &fakeChargerDevice{}
	s := NewChargerStrategy(device, standardMap(), "floor1")

	err := s.ReturnToCharger()
	if err == nil {
		t.Fatal("expected error when no method verifies charging")
	}
	if !strings.Contains(err.Error(), "exhausted") {
		t.Errorf("error = %v, want exhaustion message", err)
	}
	// The coordinate move is bounded, not retried forever.
	if device.sends != 1 {
		t.Errorf("charge move sent %d times, want 1", device.sends)
	}
}

func TestChargerLowersJackFirst(t *testing.T) {
	device := &fakeChargerDevice{jackState: robot.JackUp, chargeOn: "service"}
	s := NewChargerStrategy(device, standardMap(), "floor1")

	if err := s.ReturnToCharger(); err != nil {
		t.Fatalf("ReturnToCharger: %v", err)
	}
	calls := device.callList()
	if len(calls) < 2 || calls[0] != "lower_jack" {
		t.Fatalf("calls = %v, want lower_jack before any return method", calls)
	}
}

func TestChargerJackLowerFailureAborts(t *testing.T) {
	device := &fakeChargerDevice{jackState: robot.JackUp, lowerErr: errors.New("jack stuck")}
	s := NewChargerStrategy(device, standardMap(), "floor1")

	if err := s.ReturnToCharger(); err == nil {
		t.Fatal("expected error when jack cannot lower")
	}
	for _, call := range device.callList() {
		if call != "lower_jack" {
			t.Fatalf("return method %s attempted with jack raised", call)
		}
	}
}

func TestCoordinateMoveRetriesWithinBound(t *testing.T) {
	device := &fakeChargerDevice{sendFailures: 1, chargeOn: "move"}
	s := NewChargerStrategy(device, standardMap(), "floor1")

	if err := s.ReturnToCharger(); err != nil {
		t.Fatalf("ReturnToCharger: %v", err)
	}
	if device.sends != 2 {
		t.Errorf("charge move sent %d times, want 2 (one failed, one retried)", device.sends)
	}
}

func TestCoordinateMoveWithoutChargerPoint(t *testing.T) {
	device := &fakeChargerDevice{}
	cat := newFakeCatalog("104_load", "104_load_docking")
	s := NewChargerStrategy(device, cat, "floor1")

	err := s.ReturnToCharger()
	if err == nil {
		t.Fatal("expected exhaustion error on chargerless map")
	}
	if device.sends != 0 {
		t.Errorf("charge move sent %d times without a charger point, want 0", device.sends)
	}
}

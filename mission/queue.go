package mission

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ambercore/robot"
)

// Device is the slice of the device adapter the queue manager dispatches
// steps through.
type Device interface {
	SendMove(x, y, orientation float64, moveType robot.MoveType) (string, error)
	WaitForMove(moveID string, timeout time.Duration) error
	MoveTimeoutFor(moveType robot.MoveType) time.Duration
	RaiseJack() error
	LowerJack() error
	EnsureJackDown() error
	RequireJackUp() error
	CancelCurrentMove() error
}

// ChargerReturner runs the layered charger-return sequence and reports
// whether charging was verified.
type ChargerReturner interface {
	ReturnToCharger() error
}

// Manager owns the durable mission list and drives step-by-step execution.
// A background driver runs on a fixed tick plus immediately on mission
// creation; at most one queue-processing pass executes at a time, so step
// dispatch against the one physical robot is serialized.
type Manager struct {
	store      *Store
	device     Device
	charger    ChargerReturner
	emitter    EventEmitter
	tick       time.Duration
	maxRetries int

	// mu guards mission field mutations; it is never held across device I/O,
	// so an HTTP cancel lands at the next between-steps check.
	mu       sync.Mutex
	busy     atomic.Bool
	stopChan chan struct{}
	kickChan chan struct{}
}

func NewManager(store *Store, device Device, charger ChargerReturner, emitter EventEmitter, tick time.Duration, maxRetries int) *Manager {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	if tick == 0 {
		tick = 5 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Manager{
		store:      store,
		device:     device,
		charger:    charger,
		emitter:    emitter,
		tick:       tick,
		maxRetries: maxRetries,
		stopChan:   make(chan struct{}),
		kickChan:   make(chan struct{}, 1),
	}
}

func (q *Manager) Start() {
	go q.run()
}

func (q *Manager) Stop() {
	select {
	case q.stopChan <- struct{}{}:
	default:
	}
}

func (q *Manager) run() {
	ticker := time.NewTicker(q.tick)
	defer ticker.Stop()
	for {
		select {
		case <-q.stopChan:
			return
		case <-ticker.C:
			q.ProcessQueue()
		case <-q.kickChan:
			q.ProcessQueue()
		}
	}
}

// Kick schedules an immediate queue pass without waiting for the next tick.
func (q *Manager) Kick() {
	select {
	case q.kickChan <- struct{}{}:
	default:
	}
}

// CreateMission registers a new mission and kicks the driver. All steps are
// fixed at creation time; composition and precondition checks happen upstream.
func (q *Manager) CreateMission(name, robotID string, steps []Step) (*Mission, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("mission %q has no steps", name)
	}
	now := time.Now().UTC()
	m := &Mission{
		ID:        uuid.New().String(),
		Name:      name,
		RobotID:   robotID,
		Steps:     steps,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	q.store.Add(m)
	if err := q.flush(); err != nil {
		return nil, err
	}
	q.emitter.EmitMissionCreated(m.ID, m.Name, m.RobotID, len(m.Steps))
	q.Kick()
	return m.Clone(), nil
}

// Get returns a copy of the mission with the given id, or nil. The driver
// mutates its missions concurrently, so live structs never leave the manager.
func (q *Manager) Get(id string) *Mission {
	q.mu.Lock()
	defer q.mu.Unlock()
	if m := q.store.Get(id); m != nil {
		return m.Clone()
	}
	return nil
}

// List returns copies of all missions in creation order.
func (q *Manager) List() []*Mission {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.store.List()
	for i, m := range out {
		out[i] = m.Clone()
	}
	return out
}

// Active returns copies of all pending or in-progress missions.
func (q *Manager) Active() []*Mission {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.store.Active()
	for i, m := range out {
		out[i] = m.Clone()
	}
	return out
}

// AuditEntries returns the bounded terminal-outcome log.
func (q *Manager) AuditEntries() []AuditEntry { return q.store.Audit().Entries() }

// Cancel marks a mission cancelled and halts further step dispatch. An
// in-flight device move is not forcibly aborted here; the device is asked to
// cancel its current move and the outcome of that final operation stands.
func (q *Manager) Cancel(id, reason string) error {
	m := q.store.Get(id)
	if m == nil {
		return fmt.Errorf("mission %s not found", id)
	}
	q.mu.Lock()
	status := m.Status
	q.mu.Unlock()
	if IsTerminal(status) {
		return fmt.Errorf("mission %s already %s", id, status)
	}
	if status == StatusInProgress {
		if err := q.device.CancelCurrentMove(); err != nil {
			log.Printf("mission: cancel current move for %s: %v", id, err)
		}
	}
	q.setStatus(m, StatusCancelled, reason)
	return nil
}

// CancelAllActive cancels every pending or in-progress mission. Charger
// returns take priority over in-flight work, so this always runs before a
// charger-return mission is queued.
func (q *Manager) CancelAllActive(reason string) {
	for _, m := range q.store.Active() {
		if err := q.Cancel(m.ID, reason); err != nil {
			log.Printf("mission: cancel all: %v", err)
		}
	}
}

// ProcessQueue executes one full pass over the active missions. The guard
// ensures only one pass runs process-wide; overlapping tick and kick signals
// collapse into the running pass.
func (q *Manager) ProcessQueue() {
	if !q.busy.CompareAndSwap(false, true) {
		return
	}
	defer q.busy.Store(false)

	for _, m := range q.store.Active() {
		q.mu.Lock()
		pending := m.Status == StatusPending
		q.mu.Unlock()
		if pending {
			if !q.setStatus(m, StatusInProgress, "dequeued") {
				continue
			}
		}
		q.runMission(m)
	}
}

func (q *Manager) runMission(m *Mission) {
	i := 0
	for {
		q.mu.Lock()
		// An external cancel between steps stops dispatch cooperatively.
		if m.Status != StatusInProgress {
			q.mu.Unlock()
			return
		}
		if i < m.CurrentStepIndex {
			i = m.CurrentStepIndex
		}
		if i >= len(m.Steps) {
			q.mu.Unlock()
			break
		}
		step := &m.Steps[i]
		if step.Completed {
			// Resumed state: skip without re-issuing, keep the index monotone.
			if m.CurrentStepIndex < i+1 {
				m.CurrentStepIndex = i + 1
			}
			q.mu.Unlock()
			i++
			continue
		}
		q.mu.Unlock()

		err := q.executeStep(step)

		q.mu.Lock()
		if m.Status != StatusInProgress {
			// Cancelled while the step was in flight. The device-level cancel
			// already went out; accept this final operation's outcome on the
			// step record, then stop dispatching.
			if err == nil {
				step.Completed = true
				step.LastError = ""
				if m.CurrentStepIndex < i+1 {
					m.CurrentStepIndex = i + 1
				}
			} else {
				step.LastError = err.Error()
			}
			m.UpdatedAt = time.Now().UTC()
			q.mu.Unlock()
			q.persist(m)
			return
		}
		if err == nil {
			step.Completed = true
			step.LastError = ""
			m.CurrentStepIndex = i + 1
			m.Offline = false
			m.UpdatedAt = time.Now().UTC()
			q.mu.Unlock()
			q.persist(m)
			q.emitter.EmitStepCompleted(m.ID, i, step.Kind)
			i++
			continue
		}

		if robot.IsTransient(err) {
			step.RetryCount++
			step.LastError = err.Error()
			m.Offline = true
			m.UpdatedAt = time.Now().UTC()
			retries := step.RetryCount
			q.mu.Unlock()
			if retries >= q.maxRetries {
				q.fail(m, fmt.Sprintf("step %d (%s) failed after %d attempts: %v", i, step.Kind, retries, err))
				return
			}
			log.Printf("mission: %s step %d (%s) offline (attempt %d/%d): %v", m.ID, i, step.Kind, retries, q.maxRetries, err)
			q.persist(m)
			// Leave the mission for the next tick.
			return
		}

		// Device-reported failure: terminal, no retry consumed.
		step.LastError = err.Error()
		q.mu.Unlock()
		q.fail(m, fmt.Sprintf("step %d (%s): %v", i, step.Kind, err))
		return
	}
	q.complete(m)
}

func (q *Manager) executeStep(step *Step) error {
	switch step.Kind {
	case StepMove:
		return q.runMove(step, robot.MoveStandard)
	case StepAlignRack:
		// Rack alignment runs under the rack; a raised jack would collide,
		// so the precondition is corrected proactively.
		if err := q.device.EnsureJackDown(); err != nil {
			return err
		}
		return q.runMove(step, robot.MoveAlignRack)
	case StepToUnload:
		// Unload positioning with the jack down means the load was never
		// lifted; fail fast rather than lift under a possibly occupied slot.
		if err := q.device.RequireJackUp(); err != nil {
			return err
		}
		return q.runMove(step, robot.MoveToUnload)
	case StepJackUp:
		return q.device.RaiseJack()
	case StepJackDown:
		return q.device.LowerJack()
	case StepChargeReturn:
		return q.charger.ReturnToCharger()
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (q *Manager) runMove(step *Step, moveType robot.MoveType) error {
	moveID, err := q.device.SendMove(step.X, step.Y, step.Orientation, moveType)
	if err != nil {
		return err
	}
	q.mu.Lock()
	step.DeviceResponse = moveID
	q.mu.Unlock()
	return q.device.WaitForMove(moveID, q.device.MoveTimeoutFor(moveType))
}

func (q *Manager) persist(m *Mission) {
	if err := q.flush(); err != nil {
		log.Printf("mission: persist %s: %v", m.ID, err)
	}
}

// flush writes a point-in-time snapshot of the mission list. The copies are
// taken under mu so the marshal never reads fields the driver is mutating.
func (q *Manager) flush() error {
	q.mu.Lock()
	snap := q.store.Snapshot()
	q.mu.Unlock()
	return q.store.Write(snap)
}

func (q *Manager) complete(m *Mission) {
	if q.setStatus(m, StatusCompleted, "all steps complete") {
		q.emitter.EmitMissionCompleted(m.ID, m.Name)
	}
}

func (q *Manager) fail(m *Mission, detail string) {
	if q.setStatus(m, StatusFailed, detail) {
		q.emitter.EmitMissionFailed(m.ID, m.Name, detail)
	}
}

// setStatus applies a validated status transition, persists, and records
// terminal outcomes in the audit log.
func (q *Manager) setStatus(m *Mission, to, detail string) bool {
	q.mu.Lock()
	if !IsValidTransition(m.Status, to) {
		q.mu.Unlock()
		log.Printf("mission: rejected transition %s -> %s for %s", m.Status, to, m.ID)
		return false
	}
	from := m.Status
	m.Status = to
	m.UpdatedAt = time.Now().UTC()
	q.mu.Unlock()

	q.persist(m)
	q.emitter.EmitMissionStatusChanged(m.ID, from, to, detail)

	if IsTerminal(to) {
		entry := AuditEntry{MissionID: m.ID, Name: m.Name, RobotID: m.RobotID, Status: to}
		if to != StatusCompleted {
			entry.Error = detail
		}
		if err := q.store.Audit().Append(entry); err != nil {
			log.Printf("mission: audit %s: %v", m.ID, err)
		}
		if to == StatusCancelled {
			q.emitter.EmitMissionCancelled(m.ID, detail)
		}
	}
	return true
}

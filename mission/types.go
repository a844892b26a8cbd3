package mission

import "time"

// Step kinds. Each is one atomic device operation.
const (
	StepMove         = "move"
	StepJackUp       = "jack_up"
	StepJackDown     = "jack_down"
	StepAlignRack    = "align_with_rack"
	StepToUnload     = "to_unload_point"
	StepChargeReturn = "wait_return_to_charger"
)

// Mission statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// validTransitions defines which status transitions are allowed. There is no
// path back to pending and no path out of a terminal state.
var validTransitions = map[string][]string{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusFailed, StatusCancelled},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status is a terminal state.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed || status == StatusCancelled
}

// Step is one atomic device operation within a mission. Kind and target are
// fixed at mission creation; only the completion and retry bookkeeping mutate.
type Step struct {
	Kind           string  `json:"kind"`
	X              float64 `json:"x,omitempty"`
	Y              float64 `json:"y,omitempty"`
	Orientation    float64 `json:"orientation,omitempty"`
	Label          string  `json:"label,omitempty"`
	Completed      bool    `json:"completed"`
	RetryCount     int     `json:"retry_count"`
	LastError      string  `json:"last_error,omitempty"`
	DeviceResponse string  `json:"device_response,omitempty"`
}

// Mission is a durable, ordered sequence of device operations executed
// against one robot. Created atomically by the workflow composer and owned
// thereafter exclusively by the queue manager.
type Mission struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	RobotID          string    `json:"robot_id"`
	Steps            []Step    `json:"steps"`
	Status           string    `json:"status"`
	CurrentStepIndex int       `json:"current_step_index"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Offline          bool      `json:"offline_flag"`
}

// Active reports whether the mission still has work to dispatch.
func (m *Mission) Active() bool {
	return m.Status == StatusPending || m.Status == StatusInProgress
}

// Clone returns a deep copy. Mission state crosses the API boundary only as
// copies; the driver's live structs are never shared with callers.
func (m *Mission) Clone() *Mission {
	out := *m
	out.Steps = make([]Step, len(m.Steps))
	copy(out.Steps, m.Steps)
	return &out
}

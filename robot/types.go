package robot

// Response is the common envelope returned by every device endpoint.
// A non-zero code means the device rejected or failed the operation.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// MoveType selects the motion primitive for a move request.
type MoveType string

const (
	MoveStandard  MoveType = "standard"
	MoveAlignRack MoveType = "align_with_rack"
	MoveToUnload  MoveType = "to_unload_point"
	MoveCharge    MoveType = "charge"
)

// MoveState is the device-reported state of a move.
type MoveState string

const (
	MoveCreated   MoveState = "created"
	MoveMoving    MoveState = "moving"
	MoveSucceeded MoveState = "succeeded"
	MoveFailed    MoveState = "failed"
	MoveCancelled MoveState = "cancelled"
)

// IsTerminal reports whether the move state is final.
func (s MoveState) IsTerminal() bool {
	return s == MoveSucceeded || s == MoveFailed || s == MoveCancelled
}

// JackState is the physical state of the load-lifting jack.
type JackState string

const (
	JackUp     JackState = "up"
	JackDown   JackState = "down"
	JackMoving JackState = "moving"
)

type MoveRequest struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Orientation float64  `json:"orientation"`
	MoveType    MoveType `json:"move_type"`
}

type MoveCreatedResponse struct {
	Response
	MoveID string `json:"move_id"`
}

type MoveStateResponse struct {
	Response
	State      MoveState `json:"state"`
	FailReason string    `json:"fail_reason"`
}

type JackStateResponse struct {
	Response
	JackState JackState `json:"jack_state"`
}

type BatteryResponse struct {
	Response
	IsCharging   bool    `json:"is_charging"`
	BatteryLevel float64 `json:"battery_level"`
}

type EmergencyResponse struct {
	Response
	Engaged bool `json:"engaged"`
}

type PoseResponse struct {
	Response
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Orientation float64 `json:"orientation"`
}

type BinCheckRequest struct {
	Point string `json:"point"`
}

type BinCheckResponse struct {
	Response
	Occupied bool `json:"occupied"`
}

// Status is a consolidated snapshot of the robot's state for the dashboard.
type Status struct {
	Connected    bool    `json:"connected"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Orientation  float64 `json:"orientation"`
	BatteryLevel float64 `json:"battery_level"`
	Charging     bool    `json:"charging"`
	Emergency    bool    `json:"emergency"`
	JackState    string  `json:"jack_state"`
}

package engine

const (
	EventMissionCreated EventType = iota + 1
	EventMissionStatusChanged
	EventStepCompleted
	EventMissionCompleted
	EventMissionFailed
	EventMissionCancelled
	EventRobotConnected
	EventRobotDisconnected
	EventCatalogRefreshed
)

// --- Event payloads ---

type MissionCreatedEvent struct {
	MissionID string
	Name      string
	RobotID   string
	StepCount int
}

type MissionStatusChangedEvent struct {
	MissionID string
	OldStatus string
	NewStatus string
	Detail    string
}

type StepCompletedEvent struct {
	MissionID string
	StepIndex int
	Kind      string
}

type MissionCompletedEvent struct {
	MissionID string
	Name      string
}

type MissionFailedEvent struct {
	MissionID string
	Name      string
	Detail    string
}

type MissionCancelledEvent struct {
	MissionID string
	Reason    string
}

type ConnectionEvent struct {
	Detail string
}

type CatalogRefreshedEvent struct {
	MapID string
}

package mission

// EventEmitter is the interface adapters must satisfy to bridge mission
// lifecycle events to the engine.
type EventEmitter interface {
	EmitMissionCreated(missionID, name, robotID string, stepCount int)
	EmitMissionStatusChanged(missionID, oldStatus, newStatus, detail string)
	EmitStepCompleted(missionID string, stepIndex int, kind string)
	EmitMissionCompleted(missionID, name string)
	EmitMissionFailed(missionID, name, detail string)
	EmitMissionCancelled(missionID, reason string)
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) EmitMissionCreated(string, string, string, int)          {}
func (NopEmitter) EmitMissionStatusChanged(string, string, string, string) {}
func (NopEmitter) EmitStepCompleted(string, int, string)                   {}
func (NopEmitter) EmitMissionCompleted(string, string)                     {}
func (NopEmitter) EmitMissionFailed(string, string, string)                {}
func (NopEmitter) EmitMissionCancelled(string, string)                     {}

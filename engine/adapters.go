package engine

// missionEmitter bridges mission lifecycle callbacks onto the event bus.
type missionEmitter struct {
	bus *EventBus
}

func (e *missionEmitter) EmitMissionCreated(missionID, name, robotID string, stepCount int) {
	e.bus.Emit(Event{Type: EventMissionCreated, Payload: MissionCreatedEvent{
		MissionID: missionID, Name: name, RobotID: robotID, StepCount: stepCount,
	}})
}

func (e *missionEmitter) EmitMissionStatusChanged(missionID, oldStatus, newStatus, detail string) {
	e.bus.Emit(Event{Type: EventMissionStatusChanged, Payload: MissionStatusChangedEvent{
		MissionID: missionID, OldStatus: oldStatus, NewStatus: newStatus, Detail: detail,
	}})
}

func (e *missionEmitter) EmitStepCompleted(missionID string, stepIndex int, kind string) {
	e.bus.Emit(Event{Type: EventStepCompleted, Payload: StepCompletedEvent{
		MissionID: missionID, StepIndex: stepIndex, Kind: kind,
	}})
}

func (e *missionEmitter) EmitMissionCompleted(missionID, name string) {
	e.bus.Emit(Event{Type: EventMissionCompleted, Payload: MissionCompletedEvent{
		MissionID: missionID, Name: name,
	}})
}

func (e *missionEmitter) EmitMissionFailed(missionID, name, detail string) {
	e.bus.Emit(Event{Type: EventMissionFailed, Payload: MissionFailedEvent{
		MissionID: missionID, Name: name, Detail: detail,
	}})
}

func (e *missionEmitter) EmitMissionCancelled(missionID, reason string) {
	e.bus.Emit(Event{Type: EventMissionCancelled, Payload: MissionCancelledEvent{
		MissionID: missionID, Reason: reason,
	}})
}

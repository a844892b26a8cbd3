package www

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"ambercore/engine"
)

type SSEEvent struct {
	Event string
	Data  string
}

type EventHub struct {
	mu        sync.RWMutex
	clients   map[chan SSEEvent]struct{}
	broadcast chan SSEEvent
	stopChan  chan struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:   make(map[chan SSEEvent]struct{}),
		broadcast: make(chan SSEEvent, 256),
		stopChan:  make(chan struct{}),
	}
}

func (h *EventHub) Start() {
	go h.run()
}

func (h *EventHub) Stop() {
	select {
	case h.stopChan <- struct{}{}:
	default:
	}
}

func (h *EventHub) run() {
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-h.stopChan:
			return
		case evt := <-h.broadcast:
			h.mu.RLock()
			for ch := range h.clients {
				select {
				case ch <- evt:
				default:
					// drop if full
				}
			}
			h.mu.RUnlock()
		case <-keepalive.C:
			h.mu.RLock()
			for ch := range h.clients {
				select {
				case ch <- SSEEvent{Event: "keepalive", Data: "ping"}:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *EventHub) Broadcast(event, data string) {
	select {
	case h.broadcast <- SSEEvent{Event: event, Data: data}:
	default:
	}
}

func (h *EventHub) AddClient() chan SSEEvent {
	ch := make(chan SSEEvent, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) RemoveClient(ch chan SSEEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SetupEngineListeners wires engine events to SSE broadcasts.
func (h *EventHub) SetupEngineListeners(eng *engine.Engine) {
	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.MissionCreatedEvent)
		h.Broadcast("mission-update", fmt.Sprintf(`{"type":"created","mission_id":"%s","name":"%s"}`, ev.MissionID, ev.Name))
	}, engine.EventMissionCreated)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.MissionStatusChangedEvent)
		h.Broadcast("mission-update", fmt.Sprintf(`{"type":"status_changed","mission_id":"%s","new_status":"%s"}`, ev.MissionID, ev.NewStatus))
	}, engine.EventMissionStatusChanged)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.StepCompletedEvent)
		h.Broadcast("mission-update", fmt.Sprintf(`{"type":"step_completed","mission_id":"%s","step_index":%d,"kind":"%s"}`, ev.MissionID, ev.StepIndex, ev.Kind))
	}, engine.EventStepCompleted)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.MissionCompletedEvent)
		h.Broadcast("mission-update", fmt.Sprintf(`{"type":"completed","mission_id":"%s"}`, ev.MissionID))
	}, engine.EventMissionCompleted)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.MissionFailedEvent)
		h.Broadcast("mission-update", fmt.Sprintf(`{"type":"failed","mission_id":"%s","detail":"%s"}`, ev.MissionID, ev.Detail))
	}, engine.EventMissionFailed)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.MissionCancelledEvent)
		h.Broadcast("mission-update", fmt.Sprintf(`{"type":"cancelled","mission_id":"%s","reason":"%s"}`, ev.MissionID, ev.Reason))
	}, engine.EventMissionCancelled)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		h.Broadcast("system-status", `{"robot":"connected"}`)
	}, engine.EventRobotConnected)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		h.Broadcast("system-status", `{"robot":"disconnected"}`)
	}, engine.EventRobotDisconnected)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.CatalogRefreshedEvent)
		h.Broadcast("catalog-update", fmt.Sprintf(`{"map_id":"%s"}`, ev.MapID))
	}, engine.EventCatalogRefreshed)
}

// SSEHandler serves the SSE endpoint.
func (h *EventHub) SSEHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.AddClient()
	defer h.RemoveClient(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data); err != nil {
				log.Printf("sse: write error: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}

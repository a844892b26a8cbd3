package www

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ambercore/engine"
)

type Handlers struct {
	engine   *engine.Engine
	eventHub *EventHub
}

// NewRouter builds the Mission API surface consumed by the dashboard layer.
// The returned stop function shuts down the SSE hub.
func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	hub := NewEventHub()
	hub.Start()
	hub.SetupEngineListeners(eng)

	h := &Handlers{
		engine:   eng,
		eventHub: hub,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// SSE
	r.Get("/events", hub.SSEHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/missions", h.apiListMissions)
		r.Get("/missions/active", h.apiActiveMissions)
		r.Get("/missions/audit", h.apiMissionAudit)
		r.Get("/missions/{id}", h.apiGetMission)
		r.Post("/missions/{id}/cancel", h.apiCancelMission)
		r.Post("/missions/cancel-all", h.apiCancelAllMissions)

		r.Post("/workflows/pickup", h.apiWorkflowPickup)
		r.Post("/workflows/dropoff", h.apiWorkflowDropoff)
		r.Post("/workflows/zone", h.apiWorkflowZone)

		r.Get("/robot/status", h.apiRobotStatus)
		r.Post("/robot/return-to-charger", h.apiReturnToCharger)

		r.Get("/catalog/points", h.apiCatalogPoints)
		r.Post("/catalog/refresh", h.apiCatalogRefresh)
	})

	return r, func() {
		hub.Stop()
	}
}

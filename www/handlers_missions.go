package www

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ambercore/mission"
)

func (h *Handlers) apiListMissions(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	missions := h.engine.Missions().List()
	if status == "" {
		h.jsonOK(w, missions)
		return
	}
	filtered := make([]*mission.Mission, 0, len(missions))
	for _, m := range missions {
		if m.Status == status {
			filtered = append(filtered, m)
		}
	}
	h.jsonOK(w, filtered)
}

func (h *Handlers) apiActiveMissions(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, h.engine.Missions().Active())
}

func (h *Handlers) apiMissionAudit(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, h.engine.Missions().AuditEntries())
}

func (h *Handlers) apiGetMission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m := h.engine.Missions().Get(id)
	if m == nil {
		h.jsonError(w, "mission not found", http.StatusNotFound)
		return
	}
	h.jsonOK(w, m)
}

func (h *Handlers) apiCancelMission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&req)
	if req.Reason == "" {
		req.Reason = "cancelled by operator"
	}
	if err := h.engine.Missions().Cancel(id, req.Reason); err != nil {
		h.jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	h.jsonOK(w, map[string]string{"status": "cancelled"})
}

func (h *Handlers) apiCancelAllMissions(w http.ResponseWriter, r *http.Request) {
	h.engine.Missions().CancelAllActive("cancelled by operator")
	h.jsonOK(w, map[string]string{"status": "cancelled"})
}

func (h *Handlers) apiWorkflowPickup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShelfID string `json:"shelf_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ShelfID == "" {
		h.jsonError(w, "shelf_id is required", http.StatusBadRequest)
		return
	}
	m, err := h.engine.Composer().Pickup(req.ShelfID)
	if err != nil {
		h.workflowError(w, err)
		return
	}
	h.jsonOK(w, m)
}

func (h *Handlers) apiWorkflowDropoff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShelfID string `json:"shelf_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ShelfID == "" {
		h.jsonError(w, "shelf_id is required", http.StatusBadRequest)
		return
	}
	m, err := h.engine.Composer().Dropoff(req.ShelfID)
	if err != nil {
		h.workflowError(w, err)
		return
	}
	h.jsonOK(w, m)
}

func (h *Handlers) apiWorkflowZone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ZoneID string `json:"zone_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ZoneID == "" {
		h.jsonError(w, "zone_id is required", http.StatusBadRequest)
		return
	}
	m, err := h.engine.Composer().ZoneWorkflow(req.ZoneID)
	if err != nil {
		h.workflowError(w, err)
		return
	}
	h.jsonOK(w, m)
}

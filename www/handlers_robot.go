package www

import "net/http"

func (h *Handlers) apiRobotStatus(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, h.engine.Robot().ReadStatus())
}

// apiReturnToCharger is the emergency docking action: competing missions are
// cancelled first because the charger return must win.
func (h *Handlers) apiReturnToCharger(w http.ResponseWriter, r *http.Request) {
	m, err := h.engine.Composer().ReturnToCharger()
	if err != nil {
		h.workflowError(w, err)
		return
	}
	h.jsonOK(w, m)
}

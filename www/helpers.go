package www

import (
	"encoding/json"
	"net/http"

	"ambercore/workflow"
)

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// workflowError maps composition failures to status codes: precondition
// violations are the caller's problem, everything else is ours.
func (h *Handlers) workflowError(w http.ResponseWriter, err error) {
	if workflow.IsPrecondition(err) {
		h.jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	h.jsonError(w, err.Error(), http.StatusInternalServerError)
}

package www

import "net/http"

func (h *Handlers) apiCatalogPoints(w http.ResponseWriter, r *http.Request) {
	mapID := r.URL.Query().Get("map")
	if mapID == "" {
		mapID = h.engine.AppConfig().Catalog.MapID
	}
	points, err := h.engine.Catalog().Points(mapID)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	h.jsonOK(w, points)
}

func (h *Handlers) apiCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	h.engine.RefreshCatalog()
	h.jsonOK(w, map[string]string{"status": "refreshed"})
}

package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
}

func registerEventRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/events", handler.ListEvents)
	mux.HandleFunc("GET /v1/events/{eventID}", handler.GetEvent)
}

func registerSelectionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/events/{eventID}/candidates", handler.ListCandidates)
	mux.HandleFunc("POST /v1/events/{eventID}/selection/preview", handler.PreviewSelection)
	mux.HandleFunc("POST /v1/events/{eventID}/selection/auto", handler.AutoSelect)
	mux.HandleFunc("PUT /v1/events/{eventID}/selection", handler.SaveSelection)
	mux.HandleFunc("POST /v1/selection/batch", handler.AutoSelectBatch)
}

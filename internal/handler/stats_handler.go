package handler

import (
	"encoding/json"
	"net/http"

	"puntualo-api/internal/service"
)

type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// @Summary Estadísticas globales
// @Tags stats
// @Produce json
// @Success 200 {object} models.Stats
// @Router /stats [get]
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s, err := h.stats.GetStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(s)
}

// @Summary Items mejor valorados por tipo
// @Tags stats
// @Produce json
// @Success 200 {object} models.TopRated
// @Router /stats/top-rated [get]
func (h *StatsHandler) GetTopRated(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	top, err := h.stats.GetTopRated(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(top)
}

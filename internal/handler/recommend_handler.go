package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"puntualo-api/internal/service"

	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	rec *service.RecommendService
}

func NewRecommendHandler(rec *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{rec: rec}
}

func parseRecOptions(r *http.Request) service.RecOptions {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	neighbors, _ := strconv.Atoi(q.Get("neighbors"))
	return service.RecOptions{
		Page:      page,
		Limit:     limit,
		Neighbors: neighbors,
		Refresh:   q.Get("refresh") == "true",
	}
}

// @Summary Recomendaciones personalizadas
// @Description Filtrado colaborativo sobre los ratings de todos los usuarios
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param page query int false "página" default(1)
// @Param limit query int false "tamaño de página" default(20)
// @Param neighbors query int false "vecinos K" default(30)
// @Param refresh query bool false "ignora el cache y recalcula"
// @Success 200 {object} models.RecommendationPage
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())

	page, err := h.rec.GetRecommendationsForUser(r.Context(), uid, parseRecOptions(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(page)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsFrame struct {
	Type    string `json:"type"` // progress | result | error
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// @Summary Recomendaciones por WebSocket
// @Description Igual que el GET pero con frames de progreso mientras calcula
// @Tags recommendations
// @Security BearerAuth
// @Router /me/recommendations/ws [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	opts := parseRecOptions(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] error haciendo upgrade: %v", err)
		return
	}
	defer conn.Close()

	send := func(f wsFrame) bool {
		if err := conn.WriteJSON(f); err != nil {
			log.Printf("[ws] error escribiendo frame: %v", err)
			return false
		}
		return true
	}

	if !send(wsFrame{Type: "progress", Message: "calculando recomendaciones"}) {
		return
	}

	page, err := h.rec.GetRecommendationsForUser(r.Context(), uid, opts)
	if err != nil {
		send(wsFrame{Type: "error", Message: err.Error()})
		return
	}

	send(wsFrame{Type: "result", Payload: page})
}

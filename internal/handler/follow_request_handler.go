package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"puntualo-api/internal/service"

	"github.com/go-chi/chi/v5"
)

type FollowRequestHandler struct {
	requests *service.FollowRequestService
}

func NewFollowRequestHandler(requests *service.FollowRequestService) *FollowRequestHandler {
	return &FollowRequestHandler{requests: requests}
}

// @Summary Seguir a un usuario
// @Description Cuenta pública: sigue directo. Privada: crea una solicitud pendiente.
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "userId del destinatario"
// @Success 200 {object} models.FollowResult
// @Router /me/following/{id} [post]
func (h *FollowRequestHandler) Follow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())
	target := chi.URLParam(r, "id")

	result, err := h.requests.Follow(r.Context(), uid, target)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(result)
}

// @Summary Solicitudes de seguimiento recibidas
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending|accepted|rejected"
// @Param limit query int false "máximo de resultados" default(20)
// @Param offset query int false "offset" default(0)
// @Success 200 {array} models.FollowRequest
// @Router /me/follow-requests [get]
func (h *FollowRequestHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())

	status := r.URL.Query().Get("status")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.requests.ListIncoming(r.Context(), uid, status, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

// @Summary Aceptar una solicitud de seguimiento
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "requestId"
// @Success 200 {object} models.FollowRequest
// @Router /me/follow-requests/{id}/accept [post]
func (h *FollowRequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())
	rid := chi.URLParam(r, "id")

	fr, err := h.requests.Accept(r.Context(), rid, uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(fr)
}

// @Summary Rechazar una solicitud de seguimiento
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "requestId"
// @Success 200 {object} models.FollowRequest
// @Router /me/follow-requests/{id}/reject [post]
func (h *FollowRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())
	rid := chi.URLParam(r, "id")

	fr, err := h.requests.Reject(r.Context(), rid, uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(fr)
}

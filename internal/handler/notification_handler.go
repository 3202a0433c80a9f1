package handler

import (
	"encoding/json"
	"net/http"

	"puntualo-api/internal/service"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	notifs *service.NotificationService
}

func NewNotificationHandler(notifs *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifs: notifs}
}

// @Summary Mis notificaciones
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "solo no leídas"
// @Success 200 {array} models.Notification
// @Router /me/notifications [get]
func (h *NotificationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())

	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, err := h.notifs.GetAll(r.Context(), uid, unreadOnly)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

// @Summary Contador de notificaciones no leídas
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /me/notifications/unread-count [get]
func (h *NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())

	n, err := h.notifs.CountUnread(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]int64{"unread": n})
}

// @Summary Marcar una notificación como leída
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "notificationId"
// @Success 204
// @Router /me/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	nid := chi.URLParam(r, "id")

	if err := h.notifs.MarkRead(r.Context(), nid, uid); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Marcar todas como leídas
// @Tags notifications
// @Security BearerAuth
// @Success 204
// @Router /me/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	if err := h.notifs.MarkAllRead(r.Context(), uid); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Borrar una notificación
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "notificationId"
// @Success 204
// @Router /me/notifications/{id} [delete]
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	nid := chi.URLParam(r, "id")

	if err := h.notifs.Delete(r.Context(), nid, uid); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

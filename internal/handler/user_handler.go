package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"puntualo-api/internal/models"
	"puntualo-api/internal/service"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	users *service.UserService
	feed  *service.FeedService
}

func NewUserHandler(users *service.UserService, feed *service.FeedService) *UserHandler {
	return &UserHandler{users: users, feed: feed}
}

// ================== PERFIL ==================

// @Summary Mi perfil
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserDoc
// @Router /me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())

	u, err := h.users.GetByID(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.Error(w, "usuario no encontrado", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(u)
}

// @Summary Perfil público de un usuario
// @Tags users
// @Produce json
// @Param id path string true "userId"
// @Success 200 {object} models.PublicUser
// @Router /users/{id} [get]
func (h *UserHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := chi.URLParam(r, "id")

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.Error(w, "usuario no encontrado", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(models.PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Handle:        u.Handle,
		AvatarBgColor: u.AvatarBgColor,
	})
}

type updateProfileRequest struct {
	Name            *string `json:"name"`
	Handle          *string `json:"handle"`
	Description     *string `json:"description"`
	IsPrivate       *bool   `json:"isPrivate"`
	AvatarBgColor   *string `json:"avatarBgColor"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

// @Summary Actualizar mi perfil
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body updateProfileRequest true "campos a actualizar"
// @Success 200 {object} map[string]string
// @Router /me [patch]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.users.UpdateProfile(r.Context(), uid, service.UpdateProfileData{
		Name:            req.Name,
		Handle:          req.Handle,
		Description:     req.Description,
		IsPrivate:       req.IsPrivate,
		AvatarBgColor:   req.AvatarBgColor,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "perfil actualizado"})
}

// @Summary Borrar mi cuenta
// @Tags users
// @Security BearerAuth
// @Success 204
// @Router /me [delete]
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	if err := h.users.Delete(r.Context(), uid); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ================== RATINGS ==================

type ratingRequest struct {
	ItemID   string   `json:"itemId"`
	ItemType string   `json:"itemType"`
	Score    *float64 `json:"score"`
	Comment  string   `json:"comment"`
	Status   string   `json:"status"`
}

// @Summary Crear o actualizar un rating
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ratingRequest true "rating"
// @Success 200 {object} map[string]string
// @Router /me/ratings [post]
func (h *UserHandler) AddRating(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.users.AddRating(r.Context(), uid, service.RatingInput{
		ItemID:   req.ItemID,
		ItemType: req.ItemType,
		Score:    req.Score,
		Comment:  req.Comment,
		Status:   req.Status,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "rating guardado"})
}

// @Summary Mis ratings
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param sortBy query string false "date|score" default(date)
// @Param order query string false "asc|desc" default(desc)
// @Success 200 {array} models.RatedItemView
// @Router /me/ratings [get]
func (h *UserHandler) GetMyRatings(w http.ResponseWriter, r *http.Request) {
	h.writeRatings(w, r, UserIDFromContext(r.Context()))
}

// @Summary Ratings de un usuario
// @Tags ratings
// @Produce json
// @Param id path string true "userId"
// @Param sortBy query string false "date|score" default(date)
// @Param order query string false "asc|desc" default(desc)
// @Success 200 {array} models.RatedItemView
// @Router /users/{id}/ratings [get]
func (h *UserHandler) GetUserRatings(w http.ResponseWriter, r *http.Request) {
	h.writeRatings(w, r, chi.URLParam(r, "id"))
}

func (h *UserHandler) writeRatings(w http.ResponseWriter, r *http.Request, userID string) {
	w.Header().Set("Content-Type", "application/json")

	sortBy := r.URL.Query().Get("sortBy")
	order := r.URL.Query().Get("order")

	ratings, err := h.users.GetRatings(r.Context(), userID, sortBy, order)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(ratings)
}

// @Summary Borrar un rating
// @Tags ratings
// @Security BearerAuth
// @Param ratingId path string true "ratingId"
// @Success 204
// @Router /me/ratings/{ratingId} [delete]
func (h *UserHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	rid := chi.URLParam(r, "ratingId")

	if err := h.users.DeleteRating(r.Context(), uid, rid); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ================== FOLLOWS ==================

// @Summary Dejar de seguir a un usuario
// @Tags follows
// @Security BearerAuth
// @Param id path string true "userId"
// @Success 204
// @Router /me/following/{id} [delete]
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	target := chi.URLParam(r, "id")

	if err := h.users.Unfollow(r.Context(), uid, target); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Mis seguidores
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PublicUser
// @Router /me/followers [get]
func (h *UserHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	list, err := h.users.GetFollowers(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

// @Summary Usuarios que sigo
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PublicUser
// @Router /me/following [get]
func (h *UserHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	list, err := h.users.GetFollowing(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

// ================== FEED ==================

// @Summary Feed de actividad de los usuarios que sigo
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param page query int false "página" default(1)
// @Param limit query int false "tamaño de página" default(20)
// @Success 200 {object} models.FeedPage
// @Router /me/feed [get]
func (h *UserHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	uid := UserIDFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	feed, err := h.feed.GetFeedForUser(r.Context(), uid, page, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(feed)
}

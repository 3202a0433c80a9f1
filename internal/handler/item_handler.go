package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"puntualo-api/internal/service"

	"github.com/go-chi/chi/v5"
)

type ItemHandler struct {
	items *service.ItemService
}

func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// @Summary Crear un item del catálogo
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ItemCreateRequest true "item"
// @Success 201 {object} models.ItemDoc
// @Router /items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req service.ItemCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	it, err := h.items.Create(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(it)
}

// @Summary Detalle de un item
// @Tags items
// @Produce json
// @Param id path string true "itemId"
// @Success 200 {object} models.ItemDoc
// @Failure 404 {object} map[string]string
// @Router /items/{id} [get]
func (h *ItemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := chi.URLParam(r, "id")

	it, err := h.items.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if it == nil {
		http.Error(w, "item no encontrado", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(it)
}

// @Summary Buscar items por título
// @Tags items
// @Produce json
// @Param q query string false "texto a buscar en el título"
// @Param type query string false "movie|series|book"
// @Param limit query int false "máximo de resultados" default(20)
// @Param offset query int false "offset" default(0)
// @Success 200 {array} models.ItemDoc
// @Router /items [get]
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query().Get("q")
	itemType := r.URL.Query().Get("type")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	results, err := h.items.Search(r.Context(), q, itemType, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(results)
}

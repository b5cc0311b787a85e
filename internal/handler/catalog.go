package handler

import (
	"net/http"

	"github.com/msomdec/recipe-box/internal/domain"
	"github.com/msomdec/recipe-box/internal/service"
)

// CatalogHandler serves one of the per-user name catalogs (tags or
// ingredients).
type CatalogHandler struct {
	items *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(items *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{items: items}
}

// HandleList returns the caller's items ordered by name descending.
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	items, err := h.items.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCatalogItemDTOs(items))
}

// HandleCreate returns 201 for a new item and 200 when the caller
// already had one with that name.
func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req service.CatalogInput
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	item, created, err := h.items.GetOrCreate(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toCatalogItemDTO(*item))
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	item, err := h.items.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCatalogItemDTO(*item))
}

// HandleUpdate renames an item. PUT requires a name; PATCH may omit it.
func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req service.CatalogUpdate
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if r.Method == http.MethodPut && req.Name == nil {
		writeServiceError(w, r, domain.NewValidationError("name", "is required"))
		return
	}

	item, err := h.items.Update(r.Context(), user.ID, id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCatalogItemDTO(*item))
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.items.Delete(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"

	"github.com/msomdec/recipe-box/internal/domain"
	"github.com/msomdec/recipe-box/internal/service"
)

// RecipeHandler serves the authenticated user's recipes.
type RecipeHandler struct {
	recipes *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// HandleList returns the condensed representation, newest first.
// GET /api/recipe/recipes
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	recipes, err := h.recipes.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeDTOs(recipes))
}

// HandleCreate creates a recipe owned by the caller. Any owner field in
// the body is ignored.
// POST /api/recipe/recipes
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req service.RecipeInput
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	recipe, err := h.recipes.Create(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecipeDetailDTO(recipe))
}

// HandleGet returns one recipe with its description.
// GET /api/recipe/recipes/{id}
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	recipe, err := h.recipes.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeDetailDTO(recipe))
}

// HandleReplace is a full update; title, time_minutes and price are required.
// PUT /api/recipe/recipes/{id}
func (h *RecipeHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.recipes.Replace)
}

// HandleUpdate is a partial update.
// PATCH /api/recipe/recipes/{id}
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.recipes.Update)
}

type recipeUpdateFunc func(ctx context.Context, userID, id int64, patch service.RecipePatch) (*domain.Recipe, error)

func (h *RecipeHandler) update(w http.ResponseWriter, r *http.Request, apply recipeUpdateFunc) {
	user := UserFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req service.RecipePatch
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	recipe, err := apply(r.Context(), user.ID, id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeDetailDTO(recipe))
}

// HandleDelete removes a recipe. Its tags are kept.
// DELETE /api/recipe/recipes/{id}
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.recipes.Delete(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

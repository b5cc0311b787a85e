package handler

import (
	"net/http"

	"github.com/msomdec/recipe-box/internal/service"
)

// AuthHandler handles account and token HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister creates an account.
// POST /api/user/create
// Request:  {"email":"...","password":"...","name":"..."}
// Response: 201 {"id":1,"email":"...","name":"...","created_at":"..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleToken exchanges credentials for a JWT.
// POST /api/user/token
// Request:  {"email":"...","password":"..."}
// Response: {"token":"..."}
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleMe returns the authenticated user.
// GET /api/user/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserDTO(UserFromContext(r.Context())))
}

// HandleUpdateMe changes the authenticated user's name or password.
// PUT, PATCH /api/user/me
// Request:  {"name":"...","password":"..."}, every field optional
func (h *AuthHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileUpdate
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), UserFromContext(r.Context()).ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

package handler

import (
	"net/http"
	"strings"

	"github.com/budgify/budgify/internal/ctxkeys"
	"github.com/budgify/budgify/internal/model"
	"github.com/budgify/budgify/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err, "create user")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err, "create user")
		return
	}

	respondData(w, http.StatusCreated, map[string]string{"userId": user.ID}, "User created successfully")
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err, "sign in")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.authService.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err, "sign in")
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Token:   token,
		Data:    toProfile(user),
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Profile(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "load profile")
		return
	}

	respondData(w, http.StatusOK, toProfile(user), "")
}

func toProfile(user *model.User) profileResponse {
	return profileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

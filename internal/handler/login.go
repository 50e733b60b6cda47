package handler

import (
	"net/http"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
	"github.com/wmbogo12/profiles-rest-api/internal/service"
)

// LoginViewSet exchanges profile credentials for an auth token.
type LoginViewSet struct {
	service *service.AuthService
}

// NewLoginViewSet creates a new LoginViewSet.
func NewLoginViewSet(svc *service.AuthService) *LoginViewSet {
	return &LoginViewSet{service: svc}
}

// Create handles POST /api/login/ requests.
func (h *LoginViewSet) Create(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

package handlers

import (
	"net/http"
	"strings"
)

// LoginRequest is the body of POST /api/admin/login
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued admin token. The client presents it in
// the identify event; the server never sees it as anything but opaque after
// this point.
type LoginResponse struct {
	Token string `json:"token"`
}

// handleLogin exchanges the admin password for a token
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		h.Log.Warn("Failed admin login attempt", "remote", r.RemoteAddr)
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	h.Log.Info("Admin logged in", "remote", r.RemoteAddr)
	respondOK(w, LoginResponse{Token: token})
}

// handleLogout invalidates the presented token
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token != "" {
		h.Auth.Logout(token)
	}
	respondOK(w, map[string]string{"message": "Logged out"})
}

// bearerToken extracts the token from an Authorization: Bearer header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

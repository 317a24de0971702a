package httpapi

import (
	"net/http"
	"time"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CollegeID string    `json:"college_id,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := a.svc.Auth.Login(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "login successful", loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		UserID:    res.Principal.ID,
		Username:  res.Principal.Username,
		FullName:  res.Principal.FullName,
		Role:      string(res.Principal.Role),
		CollegeID: res.Principal.CollegeID,
		PhotoURL:  res.PhotoURL,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := a.svc.Auth.Logout(r.Context(), p); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "logout successful", nil)
}

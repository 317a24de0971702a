package httpapi

import (
	"net/http"
	"strings"

	"admitdesk.org/internal/auth"
)

type createAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	College  string `json:"college_id"`
}

type adminStatusRequest struct {
	Active bool `json:"is_active"`
}

func (a *API) handleAdminsCollection(w http.ResponseWriter, r *http.Request) {
	p, ok := superAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		a.createAdmin(w, r, p)
	case http.MethodGet:
		a.listAdmins(w, r, p)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleAdminResource(w http.ResponseWriter, r *http.Request) {
	p, ok := superAdmin(w, r)
	if !ok {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/admins/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if id, found := strings.CutSuffix(path, "/status"); found {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		var req adminStatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.svc.Auth.SetAdminActive(r.Context(), p, id, req.Active); err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "admin status updated", nil)
		return
	}
	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if err := a.svc.Auth.DeleteAdmin(r.Context(), p, path); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "admin deleted", nil)
}

func (a *API) createAdmin(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req createAdminRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	acct, err := a.svc.Auth.CreateAdmin(r.Context(), p, auth.CreateAdminRequest{
		Username:  req.Username,
		Password:  req.Password,
		FullName:  req.FullName,
		CollegeID: req.College,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "admin created successfully", acct)
}

func (a *API) listAdmins(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	admins, err := a.svc.Auth.ListAdmins(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", admins)
}

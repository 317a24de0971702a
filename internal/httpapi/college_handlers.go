package httpapi

import (
	"net/http"
	"strings"

	"admitdesk.org/internal/tenancy"
)

type collegeRequest struct {
	Name      string `json:"name"`
	ShortCode string `json:"short_code"`
	Address   string `json:"address"`
}

func (a *API) handleCollegesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		p, ok := superAdmin(w, r)
		if !ok {
			return
		}
		var req collegeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		college, err := a.svc.Tenancy.Create(r.Context(), p, tenancy.CollegeInput{
			Name:      req.Name,
			ShortCode: req.ShortCode,
			Address:   req.Address,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "college created successfully", college)
	case http.MethodGet:
		// The id+name dropdown is readable by any authenticated principal.
		if _, ok := principal(w, r); !ok {
			return
		}
		refs, err := a.svc.Tenancy.ListRefs(r.Context())
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", refs)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleCollegeResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/colleges/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	p, ok := superAdmin(w, r)
	if !ok {
		return
	}

	if path == "all" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		items, err := a.svc.Tenancy.ListWithStats(r.Context(), p)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", items)
		return
	}

	if id, found := strings.CutSuffix(path, "/details"); found {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		details, err := a.svc.Tenancy.GetDetails(r.Context(), p, id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", details)
		return
	}
	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req collegeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		college, err := a.svc.Tenancy.Update(r.Context(), p, path, tenancy.CollegeInput{
			Name:      req.Name,
			ShortCode: req.ShortCode,
			Address:   req.Address,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "college updated successfully", college)
	case http.MethodDelete:
		if err := a.svc.Tenancy.Delete(r.Context(), p, path); err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "college deleted", nil)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

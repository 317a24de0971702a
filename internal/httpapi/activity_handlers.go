package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"admitdesk.org/internal/audit"
)

func (a *API) handleActivityLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := superAdmin(w, r); !ok {
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := a.svc.Activity.List(r.Context(), audit.Filter{
		Date:    strings.TrimSpace(r.URL.Query().Get("date")),
		ActorID: strings.TrimSpace(r.URL.Query().Get("actor_id")),
		Action:  audit.Action(strings.TrimSpace(r.URL.Query().Get("action"))),
		Limit:   limit,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", entries)
}

func (a *API) handleActivitySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := superAdmin(w, r); !ok {
		return
	}
	rows, err := a.svc.Activity.Summary(r.Context(),
		strings.TrimSpace(r.URL.Query().Get("from")),
		strings.TrimSpace(r.URL.Query().Get("to")))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", rows)
}

func (a *API) handleActivityByActor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := superAdmin(w, r); !ok {
		return
	}
	actorID := strings.TrimPrefix(r.URL.Path, "/api/activity-logs/user/")
	if actorID == "" || strings.Contains(actorID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := a.svc.Activity.ListByActor(r.Context(), actorID, limit)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", entries)
}

func parseLimit(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return val, nil
}

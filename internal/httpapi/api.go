// Package httpapi is the JSON surface of the admission backend. Routing is a
// plain ServeMux with manual dispatch inside resource handlers.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"admitdesk.org/internal/admissions"
	"admitdesk.org/internal/audit"
	"admitdesk.org/internal/auth"
	"admitdesk.org/internal/obs"
	"admitdesk.org/internal/profile"
	"admitdesk.org/internal/tenancy"
)

// ReadyProbe checks the dependencies /readyz reports on.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Services bundles the domain services the handlers dispatch into.
type Services struct {
	Auth       *auth.Service
	Admissions *admissions.Service
	Tenancy    *tenancy.Service
	Activity   *audit.Service
	Profile    *profile.Service
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string
	svc        Services

	maxBodyBytes int64
	rateBurst    int
	ratePerSec   float64
}

type Option func(*API)

// WithRateLimit overrides the per-IP token bucket.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(a *API) {
		a.ratePerSec = perSecond
		a.rateBurst = burst
	}
}

// WithMaxBodyBytes overrides the request body cap.
func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		a.maxBodyBytes = n
	}
}

func New(rp ReadyProbe, version string, svc Services, opts ...Option) *API {
	a := &API{
		mux:          http.NewServeMux(),
		readyProbe:   rp,
		version:      version,
		svc:          svc,
		maxBodyBytes: 1 << 20,
		rateBurst:    100,
		ratePerSec:   50,
	}
	for _, opt := range opts {
		opt(a)
	}

	// health/ready
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// sessions
	a.mux.HandleFunc("/api/login", a.handleLogin)
	a.mux.HandleFunc("/api/logout", a.handleLogout)

	// inquiries and fees
	a.mux.HandleFunc("/api/inquiry", a.handleInquirySubmission)
	a.mux.HandleFunc("/api/inquiries", a.handleInquiriesCollection)
	a.mux.HandleFunc("/api/inquiries/", a.handleInquiryResource)
	a.mux.HandleFunc("/api/dashboard-stats", a.handleDashboardStats)

	// admin accounts
	a.mux.HandleFunc("/api/admins", a.handleAdminsCollection)
	a.mux.HandleFunc("/api/admins/", a.handleAdminResource)

	// colleges
	a.mux.HandleFunc("/api/colleges", a.handleCollegesCollection)
	a.mux.HandleFunc("/api/colleges/", a.handleCollegeResource)

	// activity logs
	a.mux.HandleFunc("/api/activity-logs", a.handleActivityLogs)
	a.mux.HandleFunc("/api/activity-logs/summary", a.handleActivitySummary)
	a.mux.HandleFunc("/api/activity-logs/user/", a.handleActivityByActor)

	// profile self-service
	a.mux.HandleFunc("/api/profile", a.handleProfile)
	a.mux.HandleFunc("/api/profile/send-otp", a.handleProfileSendOTP)
	a.mux.HandleFunc("/api/profile/password", a.handleProfilePassword)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = obs.Instrument(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return h
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "admitdesk-api",
		"version": a.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"admitdesk.org/internal/admissions"
	"admitdesk.org/internal/audit"
	"admitdesk.org/internal/auth"
	"admitdesk.org/internal/config"
	"admitdesk.org/internal/httpapi"
	"admitdesk.org/internal/ids"
	"admitdesk.org/internal/obs"
	"admitdesk.org/internal/profile"
	"admitdesk.org/internal/store/memory"
	"admitdesk.org/internal/store/pg"
	"admitdesk.org/internal/tenancy"
)

var version = "0.3.1"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, "")
	log := obs.Logger()

	cfg := config.Load()

	// Storage: Postgres when a DSN is configured, in-process otherwise.
	var (
		accounts   auth.AccountStore
		inquiries  admissions.Store
		colleges   tenancy.Store
		activity   audit.Store
		otps       profile.OTPStore
		db         *sql.DB
	)
	if cfg.PGDSN != "" {
		store, err := pg.Open(cfg.PGDSN)
		if err != nil {
			log.WithError(err).Fatal("open db")
		}
		defer store.Close()
		accounts, inquiries, colleges, activity, otps = store, store, store, store, store
		db = store.DB()
	} else {
		mem := memory.New()
		seedBootstrapAdmin(mem, log)
		accounts, inquiries, colleges, activity, otps = mem, mem, mem, mem, mem
		log.Warn("no ADMITDESK_PG_DSN set, using in-memory storage")
	}

	var sms profile.SMSSender
	if cfg.SMSGateway != "" {
		sms = profile.NewGatewaySender(cfg.SMSGateway, cfg.SMSAPIKey)
	} else {
		sms = profile.LogSender{}
	}

	rec := audit.NewRecorder(activity)
	svc := httpapi.Services{
		Auth:       auth.NewService(accounts, rec, auth.WithTokenTTL(cfg.TokenTTL)),
		Admissions: admissions.NewService(inquiries, rec),
		Tenancy:    tenancy.NewService(colleges, rec),
		Activity:   audit.NewService(activity),
		Profile:    profile.NewService(accounts, colleges, otps, sms, rec),
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, svc,
		httpapi.WithRateLimit(cfg.RateLimitRPS, cfg.RateBurst),
		httpapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.WithField("addr", srv.Addr).WithField("version", version).Info("starting admitdesk-api")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Info("stopped")
}

// seedBootstrapAdmin creates the initial super admin for in-memory runs so
// the API is operable out of the box.
func seedBootstrapAdmin(mem *memory.Store, log *logrus.Logger) {
	password := os.Getenv("ADMITDESK_BOOTSTRAP_PASSWORD")
	if password == "" {
		log.Warn("ADMITDESK_BOOTSTRAP_PASSWORD not set, no super admin seeded")
		return
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Warn("seed super admin: ", err)
		return
	}
	mem.SeedAccount(auth.Account{
		ID:           ids.New(),
		Username:     "superadmin",
		PasswordHash: hash,
		FullName:     "Super Admin",
		Role:         auth.RoleSuperAdmin,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
}

// Package audit provides an append-only record of state-changing actions.
// Recording never fails the caller: a storage error is logged and swallowed
// so the sink can never destabilize the mutation that triggered it.
package audit

import (
	"context"
	"strings"
	"time"

	"admitdesk.org/internal/ids"
	"admitdesk.org/internal/obs"
)

// Action is an enumerated audit verb.
type Action string

const (
	ActionLogin            Action = "LOGIN"
	ActionLogout           Action = "LOGOUT"
	ActionCreateUser       Action = "CREATE_USER"
	ActionToggleUserStatus Action = "TOGGLE_USER_STATUS"
	ActionDeleteUser       Action = "DELETE_USER"
	ActionCreateCollege    Action = "CREATE_COLLEGE"
	ActionUpdateCollege    Action = "UPDATE_COLLEGE"
	ActionDeleteCollege    Action = "DELETE_COLLEGE"
	ActionUpdateInquiry    Action = "UPDATE_INQUIRY"
	ActionCollectFee       Action = "COLLECT_FEE"
	ActionUpdateProfile    Action = "UPDATE_PROFILE"
	ActionChangePassword   Action = "CHANGE_PASSWORD"
)

// Actor identifies the principal an entry is attributed to.
type Actor struct {
	ID   string
	Role string
	Name string
}

// Entry is a single append-only activity record.
type Entry struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
	ActorName   string    `json:"actor_name"`
	Action      Action    `json:"action"`
	Description string    `json:"description,omitempty"`
	SourceAddr  string    `json:"source_addr,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter narrows List results. Zero values mean "no filter".
type Filter struct {
	Date    string // YYYY-MM-DD, matches the entry's calendar date
	ActorID string
	Action  Action
	Limit   int
}

// SummaryRow is one date x action bucket.
type SummaryRow struct {
	Date   string `json:"date"`
	Action Action `json:"action"`
	Count  int    `json:"count"`
}

// Store appends and reads immutable entries.
type Store interface {
	AppendEntry(ctx context.Context, entry *Entry) error
	ListEntries(ctx context.Context, f Filter) ([]Entry, error)
	SummarizeEntries(ctx context.Context, fromDate, toDate string) ([]SummaryRow, error)
}

type requestMetaKey struct{}

type requestMeta struct {
	sourceAddr string
	userAgent  string
}

// WithRequestMeta attaches the triggering request's source address and user
// agent to the context so recorded entries can carry them.
func WithRequestMeta(ctx context.Context, sourceAddr, userAgent string) context.Context {
	sourceAddr = strings.TrimSpace(sourceAddr)
	userAgent = strings.TrimSpace(userAgent)
	if sourceAddr == "" && userAgent == "" {
		return ctx
	}
	return context.WithValue(ctx, requestMetaKey{}, requestMeta{sourceAddr: sourceAddr, userAgent: userAgent})
}

func metaFromContext(ctx context.Context) requestMeta {
	if ctx == nil {
		return requestMeta{}
	}
	if m, ok := ctx.Value(requestMetaKey{}).(requestMeta); ok {
		return m
	}
	return requestMeta{}
}

// Recorder is the fire-and-forget sink used by mutating services.
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder wraps a store in the non-propagating recorder.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Record appends an entry attributed to actor. Storage failures are logged
// and swallowed; Record never returns an error and never panics.
func (r *Recorder) Record(ctx context.Context, actor Actor, action Action, description string) {
	if r == nil || r.store == nil {
		return
	}
	meta := metaFromContext(ctx)
	entry := &Entry{
		ID:          ids.New(),
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		ActorName:   actor.Name,
		Action:      action,
		Description: description,
		SourceAddr:  meta.sourceAddr,
		UserAgent:   meta.userAgent,
		CreatedAt:   r.now().UTC(),
	}
	defer func() {
		if rec := recover(); rec != nil {
			obs.Logger().WithField("panic", rec).Error("audit append panicked")
		}
	}()
	if err := r.store.AppendEntry(ctx, entry); err != nil {
		obs.Logger().WithField("action", string(action)).WithField("actor_id", actor.ID).
			WithError(err).Error("audit append failed")
	}
}

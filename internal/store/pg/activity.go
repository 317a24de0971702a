package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"admitdesk.org/internal/audit"
)

const entryColumns = `id, actor_id, actor_role, actor_name, action, description, source_addr, user_agent, created_at`

func (s *Store) AppendEntry(ctx context.Context, entry *audit.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		insert into activity_logs (id, actor_id, actor_role, actor_name, action, description, source_addr, user_agent, created_at)
		values ($1, $2, $3, $4, $5, nullif($6,''), nullif($7,''), nullif($8,''), $9)
	`, entry.ID, entry.ActorID, entry.ActorRole, entry.ActorName, entry.Action,
		entry.Description, entry.SourceAddr, entry.UserAgent, entry.CreatedAt)
	return err
}

func (s *Store) ListEntries(ctx context.Context, f audit.Filter) ([]audit.Entry, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if f.Date != "" {
		args = append(args, f.Date)
		where = append(where, fmt.Sprintf("created_at::date = $%d", len(args)))
	}
	if f.ActorID != "" {
		args = append(args, f.ActorID)
		where = append(where, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if f.Action != "" {
		args = append(args, f.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	q := `select ` + entryColumns + ` from activity_logs`
	if len(where) > 0 {
		q += " where " + strings.Join(where, " and ")
	}
	args = append(args, f.Limit)
	q += fmt.Sprintf(" order by created_at desc limit $%d", len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

func (s *Store) SummarizeEntries(ctx context.Context, fromDate, toDate string) ([]audit.SummaryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		select created_at::date::text, action, count(*)
		from activity_logs
		where ($1 = '' or created_at::date >= $1::date)
		  and ($2 = '' or created_at::date <= $2::date)
		group by created_at::date, action
		order by created_at::date desc, action
	`, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.SummaryRow, 0)
	for rows.Next() {
		var row audit.SummaryRow
		if err := rows.Scan(&row.Date, &row.Action, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanEntry(rows *sql.Rows) (*audit.Entry, error) {
	var e audit.Entry
	var desc, addr, agent sql.NullString
	if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorRole, &e.ActorName, &e.Action,
		&desc, &addr, &agent, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Description, e.SourceAddr, e.UserAgent = desc.String, addr.String, agent.String
	return &e, nil
}

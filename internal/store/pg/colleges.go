package pg

import (
	"context"
	"database/sql"
	"errors"

	"admitdesk.org/internal/admissions"
	"admitdesk.org/internal/tenancy"
)

func (s *Store) CreateCollege(ctx context.Context, c *tenancy.College) error {
	_, err := s.db.ExecContext(ctx, `
		insert into colleges (id, name, short_code, address, created_at)
		values ($1, $2, nullif($3,''), nullif($4,''), $5)
	`, c.ID, c.Name, c.ShortCode, c.Address, c.CreatedAt)
	return err
}

func (s *Store) GetCollege(ctx context.Context, id string) (*tenancy.College, error) {
	var c tenancy.College
	var code, addr sql.NullString
	err := s.db.QueryRowContext(ctx, `
		select id, name, short_code, address, created_at from colleges where id = $1
	`, id).Scan(&c.ID, &c.Name, &code, &addr, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tenancy.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.ShortCode, c.Address = code.String, addr.String
	return &c, nil
}

func (s *Store) UpdateCollege(ctx context.Context, c *tenancy.College) error {
	res, err := s.db.ExecContext(ctx, `
		update colleges set name = $2, short_code = nullif($3,''), address = nullif($4,'')
		where id = $1
	`, c.ID, c.Name, c.ShortCode, c.Address)
	if err != nil {
		return err
	}
	return oneRowOr(res, tenancy.ErrNotFound)
}

func (s *Store) DeleteCollege(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from colleges where id = $1`, id)
	if err != nil {
		return err
	}
	return oneRowOr(res, tenancy.ErrNotFound)
}

func (s *Store) ListCollegeRefs(ctx context.Context) ([]tenancy.Ref, error) {
	rows, err := s.db.QueryContext(ctx, `select id, name from colleges order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tenancy.Ref, 0)
	for rows.Next() {
		var r tenancy.Ref
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListCollegesWithStats(ctx context.Context) ([]tenancy.WithStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		select c.id, c.name, c.short_code, c.address, c.created_at,
			(select count(*) from inquiries i where i.college_id = c.id),
			(select count(*) from college_admins a where a.college_id = c.id and a.is_active),
			coalesce((select sum(f.amount) from fees_collection f
				join inquiries i on i.id = f.inquiry_id where i.college_id = c.id), 0)
		from colleges c
		order by c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tenancy.WithStats, 0)
	for rows.Next() {
		var ws tenancy.WithStats
		var code, addr sql.NullString
		if err := rows.Scan(&ws.ID, &ws.Name, &code, &addr, &ws.CreatedAt,
			&ws.Stats.TotalInquiries, &ws.Stats.ActiveAdmins, &ws.Stats.TotalFeesCollected); err != nil {
			return nil, err
		}
		ws.ShortCode, ws.Address = code.String, addr.String
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (s *Store) CollegeDetails(ctx context.Context, id string) (*tenancy.Details, error) {
	college, err := s.GetCollege(ctx, id)
	if err != nil {
		return nil, err
	}
	det := &tenancy.Details{College: *college}

	rows, err := s.db.QueryContext(ctx, `
		select status, count(*) from inquiries where college_id = $1 group by status order by status
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sc admissions.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		det.StatusBreakdown = append(det.StatusBreakdown, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, `
		select coalesce(sum(f.amount), 0), count(distinct f.inquiry_id)
		from fees_collection f
		join inquiries i on i.id = f.inquiry_id
		where i.college_id = $1
	`, id).Scan(&det.Fees.TotalCollected, &det.Fees.PaidStudents); err != nil {
		return nil, err
	}

	actRows, err := s.db.QueryContext(ctx, `
		select l.id, l.actor_id, l.actor_role, l.actor_name, l.action, l.description, l.source_addr, l.user_agent, l.created_at
		from activity_logs l
		join college_admins a on a.id = l.actor_id
		where a.college_id = $1
		order by l.created_at desc
		limit 10
	`, id)
	if err != nil {
		return nil, err
	}
	defer actRows.Close()
	for actRows.Next() {
		entry, err := scanEntry(actRows)
		if err != nil {
			return nil, err
		}
		det.RecentActivity = append(det.RecentActivity, *entry)
	}
	return det, actRows.Err()
}

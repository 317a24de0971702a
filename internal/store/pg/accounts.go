package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"admitdesk.org/internal/auth"
)

// Super admins and college admins live in separate tables. The role argument
// selects the table so a lookup can never cross storage classes.

func (s *Store) FindByUsername(ctx context.Context, role auth.Role, username string) (*auth.Account, error) {
	if role == auth.RoleSuperAdmin {
		return s.scanSuperAdmin(s.db.QueryRowContext(ctx, `
			select id, username, password_hash, full_name, phone, dob, photo_url, created_at, last_login_at, last_logout_at
			from super_admins where lower(username) = lower($1)
		`, username))
	}
	return s.scanCollegeAdmin(s.db.QueryRowContext(ctx, `
		select id, username, password_hash, full_name, college_id, is_active, phone, dob, photo_url, created_at, last_login_at, last_logout_at
		from college_admins where lower(username) = lower($1)
	`, username))
}

func (s *Store) FindByID(ctx context.Context, role auth.Role, id string) (*auth.Account, error) {
	if role == auth.RoleSuperAdmin {
		return s.scanSuperAdmin(s.db.QueryRowContext(ctx, `
			select id, username, password_hash, full_name, phone, dob, photo_url, created_at, last_login_at, last_logout_at
			from super_admins where id = $1
		`, id))
	}
	return s.scanCollegeAdmin(s.db.QueryRowContext(ctx, `
		select id, username, password_hash, full_name, college_id, is_active, phone, dob, photo_url, created_at, last_login_at, last_logout_at
		from college_admins where id = $1
	`, id))
}

func (s *Store) scanSuperAdmin(row *sql.Row) (*auth.Account, error) {
	var acct auth.Account
	var phone, dob, photo sql.NullString
	err := row.Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &acct.FullName,
		&phone, &dob, &photo, &acct.CreatedAt, &acct.LastLoginAt, &acct.LastLogoutAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	acct.Role = auth.RoleSuperAdmin
	acct.Active = true
	acct.Phone, acct.DOB, acct.PhotoURL = phone.String, dob.String, photo.String
	return &acct, nil
}

func (s *Store) scanCollegeAdmin(row *sql.Row) (*auth.Account, error) {
	var acct auth.Account
	var phone, dob, photo sql.NullString
	err := row.Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &acct.FullName,
		&acct.CollegeID, &acct.Active, &phone, &dob, &photo, &acct.CreatedAt, &acct.LastLoginAt, &acct.LastLogoutAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	acct.Role = auth.RoleAdmin
	acct.Phone, acct.DOB, acct.PhotoURL = phone.String, dob.String, photo.String
	return &acct, nil
}

func (s *Store) CreateAdmin(ctx context.Context, acct *auth.Account) error {
	_, err := s.db.ExecContext(ctx, `
		insert into college_admins (id, username, password_hash, full_name, college_id, is_active, created_at)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, acct.ID, acct.Username, acct.PasswordHash, acct.FullName, acct.CollegeID, acct.Active, acct.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return auth.ErrConflict
	}
	return err
}

func (s *Store) ListAdmins(ctx context.Context) ([]auth.AdminSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		select a.id, a.username, a.full_name, a.college_id, a.is_active, a.created_at, a.last_login_at, c.name
		from college_admins a
		join colleges c on c.id = a.college_id
		order by a.created_at desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]auth.AdminSummary, 0)
	for rows.Next() {
		var sum auth.AdminSummary
		if err := rows.Scan(&sum.ID, &sum.Username, &sum.FullName, &sum.CollegeID,
			&sum.Active, &sum.CreatedAt, &sum.LastLoginAt, &sum.CollegeName); err != nil {
			return nil, err
		}
		sum.Role = auth.RoleAdmin
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) SetAdminActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx, `update college_admins set is_active = $2 where id = $1`, id, active)
	if err != nil {
		return err
	}
	return oneRowOr(res, auth.ErrNotFound)
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from college_admins where id = $1`, id)
	if err != nil {
		return err
	}
	return oneRowOr(res, auth.ErrNotFound)
}

func (s *Store) RecordLogin(ctx context.Context, role auth.Role, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`update `+tableFor(role)+` set last_login_at = $2 where id = $1`, id, at)
	if err != nil {
		return err
	}
	return oneRowOr(res, auth.ErrNotFound)
}

func (s *Store) RecordLogout(ctx context.Context, role auth.Role, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`update `+tableFor(role)+` set last_logout_at = $2 where id = $1`, id, at)
	if err != nil {
		return err
	}
	return oneRowOr(res, auth.ErrNotFound)
}

func (s *Store) UpdateProfile(ctx context.Context, role auth.Role, id string, upd auth.ProfileUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		update `+tableFor(role)+`
		set full_name = $2, dob = nullif($3, ''), phone = nullif($4, ''), photo_url = nullif($5, '')
		where id = $1
	`, id, upd.FullName, upd.DOB, upd.Phone, upd.PhotoURL)
	if err != nil {
		return err
	}
	return oneRowOr(res, auth.ErrNotFound)
}

func (s *Store) UpdatePassword(ctx context.Context, role auth.Role, id string, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update `+tableFor(role)+` set password_hash = $2 where id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	return oneRowOr(res, auth.ErrNotFound)
}

func tableFor(role auth.Role) string {
	if role == auth.RoleSuperAdmin {
		return "super_admins"
	}
	return "college_admins"
}

func oneRowOr(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

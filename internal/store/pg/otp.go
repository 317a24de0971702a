package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// One pending code per account; a newer send replaces the older one.

func (s *Store) UpsertOTP(ctx context.Context, accountID, phone, code string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		insert into otp_verification (account_id, phone, otp_code, expires_at)
		values ($1, $2, $3, $4)
		on conflict (account_id) do update
		set phone = excluded.phone, otp_code = excluded.otp_code, expires_at = excluded.expires_at
	`, accountID, phone, code, expiresAt)
	return err
}

// ConsumeOTP deletes the matching unexpired code in one statement, so two
// concurrent consumers can never both succeed.
func (s *Store) ConsumeOTP(ctx context.Context, accountID, code string, now time.Time) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		delete from otp_verification
		where account_id = $1 and otp_code = $2 and expires_at > $3
		returning account_id
	`, accountID, code, now).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

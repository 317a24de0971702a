package pg

import (
	"context"
	"database/sql"
	"errors"

	"admitdesk.org/internal/admissions"
	"admitdesk.org/internal/auth"
)

// Scoped queries pass the scope as ($all, $college_id) so every predicate is
// evaluated inside the statement, never in Go after the read.

const inquiryColumns = `id, college_id, candidate_name, candidate_mobile, candidate_email, parent_mobile,
	residential_address, twelfth_percentage, year_of_passing, twelfth_board,
	eligibility_status, status, admin_notes, created_at`

func (s *Store) InsertInquiry(ctx context.Context, inq *admissions.Inquiry) error {
	_, err := s.db.ExecContext(ctx, `
		insert into inquiries (id, college_id, candidate_name, candidate_mobile, candidate_email, parent_mobile,
			residential_address, twelfth_percentage, year_of_passing, twelfth_board,
			eligibility_status, status, created_at)
		values ($1, $2, $3, nullif($4,''), nullif($5,''), nullif($6,''), nullif($7,''), $8, nullif($9,0), nullif($10,''), $11, $12, $13)
	`, inq.ID, inq.CollegeID, inq.CandidateName, inq.CandidateMobile, inq.CandidateEmail, inq.ParentMobile,
		inq.ResidentialAddress, inq.TwelfthPercentage, inq.YearOfPassing, inq.TwelfthBoard,
		inq.Eligibility, inq.Status, inq.CreatedAt)
	return err
}

func (s *Store) ListInquiries(ctx context.Context, scope auth.Scope) ([]admissions.Inquiry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+inquiryColumns+`
		from inquiries
		where ($1 or college_id = $2)
		order by created_at desc
	`, scope.All, scope.CollegeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]admissions.Inquiry, 0)
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inq)
	}
	return out, rows.Err()
}

func (s *Store) GetInquiry(ctx context.Context, id string) (*admissions.Inquiry, error) {
	row := s.db.QueryRowContext(ctx, `select `+inquiryColumns+` from inquiries where id = $1`, id)
	inq, err := scanInquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, admissions.ErrNotFound
	}
	return inq, err
}

// UpdateInquiryStatus is one conditional statement: the scope predicate sits
// inside the UPDATE, and the CTE captures the pre-image before the write.
func (s *Store) UpdateInquiryStatus(ctx context.Context, scope auth.Scope, id string, status admissions.WorkflowStatus, notes string) (*admissions.Inquiry, error) {
	var prev admissions.Inquiry
	var prevNotes sql.NullString
	err := s.db.QueryRowContext(ctx, `
		with prev as (
			select id, college_id, candidate_name, status, admin_notes from inquiries where id = $1
		)
		update inquiries i
		set status = $2, admin_notes = coalesce(nullif($3, ''), i.admin_notes)
		from prev
		where i.id = prev.id and ($4 or i.college_id = $5)
		returning prev.id, prev.college_id, prev.candidate_name, prev.status, prev.admin_notes
	`, id, status, notes, scope.All, scope.CollegeID).
		Scan(&prev.ID, &prev.CollegeID, &prev.CandidateName, &prev.Status, &prevNotes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.inquiryMissReason(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	prev.AdminNotes = prevNotes.String
	return &prev, nil
}

func (s *Store) InsertFee(ctx context.Context, scope auth.Scope, fee *admissions.FeeRecord) (*admissions.Inquiry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		select `+inquiryColumns+`
		from inquiries
		where id = $1 and ($2 or college_id = $3)
		for update
	`, fee.InquiryID, scope.All, scope.CollegeID)
	inq, err := scanInquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.inquiryMissReason(ctx, fee.InquiryID)
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		insert into fees_collection (id, inquiry_id, amount, payment_mode, transaction_ref, remarks, paid_at)
		values ($1, $2, $3, $4, nullif($5,''), nullif($6,''), $7)
	`, fee.ID, fee.InquiryID, fee.Amount, fee.PaymentMode, fee.TransactionRef, fee.Remarks, fee.PaidAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inq, nil
}

func (s *Store) ListFees(ctx context.Context, inquiryID string) ([]admissions.FeeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, inquiry_id, amount, payment_mode, transaction_ref, remarks, paid_at
		from fees_collection
		where inquiry_id = $1
		order by paid_at desc
	`, inquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]admissions.FeeRecord, 0)
	for rows.Next() {
		var fee admissions.FeeRecord
		var ref, remarks sql.NullString
		if err := rows.Scan(&fee.ID, &fee.InquiryID, &fee.Amount, &fee.PaymentMode, &ref, &remarks, &fee.PaidAt); err != nil {
			return nil, err
		}
		fee.TransactionRef, fee.Remarks = ref.String, remarks.String
		out = append(out, fee)
	}
	return out, rows.Err()
}

func (s *Store) StatusCounts(ctx context.Context, scope auth.Scope) (int, []admissions.StatusCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		select status, count(*)
		from inquiries
		where ($1 or college_id = $2)
		group by status
		order by status
	`, scope.All, scope.CollegeID)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	total := 0
	out := make([]admissions.StatusCount, 0)
	for rows.Next() {
		var sc admissions.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return 0, nil, err
		}
		total += sc.Count
		out = append(out, sc)
	}
	return total, out, rows.Err()
}

func (s *Store) CollegeCounts(ctx context.Context) ([]admissions.CollegeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		select i.college_id, c.name, count(*)
		from inquiries i
		join colleges c on c.id = i.college_id
		group by i.college_id, c.name
		order by count(*) desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]admissions.CollegeCount, 0)
	for rows.Next() {
		var cc admissions.CollegeCount
		if err := rows.Scan(&cc.CollegeID, &cc.Name, &cc.Count); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

// inquiryMissReason distinguishes a row that does not exist from one that
// exists outside the caller's scope.
func (s *Store) inquiryMissReason(ctx context.Context, id string) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`select exists (select 1 from inquiries where id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return admissions.ErrForbidden
	}
	return admissions.ErrNotFound
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInquiry(row rowScanner) (*admissions.Inquiry, error) {
	var inq admissions.Inquiry
	var mobile, email, parent, addr, board, notes sql.NullString
	var year sql.NullInt64
	err := row.Scan(&inq.ID, &inq.CollegeID, &inq.CandidateName, &mobile, &email, &parent,
		&addr, &inq.TwelfthPercentage, &year, &board,
		&inq.Eligibility, &inq.Status, &notes, &inq.CreatedAt)
	if err != nil {
		return nil, err
	}
	inq.CandidateMobile, inq.CandidateEmail, inq.ParentMobile = mobile.String, email.String, parent.String
	inq.ResidentialAddress, inq.TwelfthBoard, inq.AdminNotes = addr.String, board.String, notes.String
	inq.YearOfPassing = int(year.Int64)
	return &inq, nil
}

package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"admitdesk.org/internal/admissions"
	"admitdesk.org/internal/auth"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestUpdateInquiryStatusReturnsPreImage(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("update inquiries").
		WithArgs("inq_1", "CONTACTED", "called twice", false, "col_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "college_id", "candidate_name", "status", "admin_notes"}).
			AddRow("inq_1", "col_1", "Asha Verma", "NEW", nil))

	scope := auth.Scope{CollegeID: "col_1"}
	prev, err := store.UpdateInquiryStatus(context.Background(), scope, "inq_1", admissions.StatusContacted, "called twice")
	if err != nil {
		t.Fatalf("UpdateInquiryStatus: %v", err)
	}
	if prev.Status != admissions.StatusNew || prev.CandidateName != "Asha Verma" {
		t.Fatalf("unexpected pre-image: %+v", prev)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateInquiryStatusOutOfScopeIsForbidden(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("update inquiries").
		WithArgs("inq_1", "ENROLLED", "", false, "col_2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "college_id", "candidate_name", "status", "admin_notes"}))
	mock.ExpectQuery("select exists").
		WithArgs("inq_1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	scope := auth.Scope{CollegeID: "col_2"}
	_, err := store.UpdateInquiryStatus(context.Background(), scope, "inq_1", admissions.StatusEnrolled, "")
	if !errors.Is(err, admissions.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateInquiryStatusMissingIsNotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("update inquiries").
		WithArgs("ghost", "CLOSED", "", true, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "college_id", "candidate_name", "status", "admin_notes"}))
	mock.ExpectQuery("select exists").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := store.UpdateInquiryStatus(context.Background(), auth.Scope{All: true}, "ghost", admissions.StatusClosed, "")
	if !errors.Is(err, admissions.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListInquiriesPassesScopePredicate(t *testing.T) {
	store, mock := newMock(t)

	cols := []string{"id", "college_id", "candidate_name", "candidate_mobile", "candidate_email",
		"parent_mobile", "residential_address", "twelfth_percentage", "year_of_passing",
		"twelfth_board", "eligibility_status", "status", "admin_notes", "created_at"}
	mock.ExpectQuery("from inquiries").
		WithArgs(false, "col_9").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("inq_5", "col_9", "Ravi Iyer", nil, nil, nil, nil, 72.5, 2025, "CBSE", "ELIGIBLE", "NEW", nil, time.Now()))

	out, err := store.ListInquiries(context.Background(), auth.Scope{CollegeID: "col_9"})
	if err != nil {
		t.Fatalf("ListInquiries: %v", err)
	}
	if len(out) != 1 || out[0].CollegeID != "col_9" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeOTPDeletesInOneStatement(t *testing.T) {
	store, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery("delete from otp_verification").
		WithArgs("adm_1", "482913", now).
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow("adm_1"))

	ok, err := store.ConsumeOTP(context.Background(), "adm_1", "482913", now)
	if err != nil || !ok {
		t.Fatalf("ConsumeOTP: ok=%v err=%v", ok, err)
	}

	mock.ExpectQuery("delete from otp_verification").
		WithArgs("adm_1", "482913", now).
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}))

	ok, err = store.ConsumeOTP(context.Background(), "adm_1", "482913", now)
	if err != nil {
		t.Fatalf("second ConsumeOTP: %v", err)
	}
	if ok {
		t.Fatal("code consumed twice")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

package repositories

import (
	"testing"

	"taskerhub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAcceptCascadeRejectsOtherPendingApplications(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE jobs SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE job_applications SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT tasker_id FROM job_applications").
		WillReturnRows(sqlmock.NewRows([]string{"tasker_id"}).AddRow(int64(31)).AddRow(int64(32)))
	mock.ExpectExec("UPDATE job_applications SET status").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := ApplicationRepo{DB: db}
	rejected, err := repo.Accept(10, 5, 20)
	if err != nil {
		t.Fatalf("accept error: %v", err)
	}
	if len(rejected) != 2 || rejected[0] != 31 || rejected[1] != 32 {
		t.Fatalf("rejected taskers = %v, want [31 32]", rejected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAcceptFailsWhenJobNoLongerOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE jobs SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := ApplicationRepo{DB: db}
	if _, err := repo.Accept(10, 5, 20); !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAcceptFailsWhenApplicationNotPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE jobs SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE job_applications SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := ApplicationRepo{DB: db}
	if _, err := repo.Accept(10, 5, 20); !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

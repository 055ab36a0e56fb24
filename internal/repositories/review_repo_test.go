package repositories

import (
	"testing"

	"taskerhub/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestReviewCreateRecomputesAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	bookingID := int64(7)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reviews").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT IGNORE INTO user_stats").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE user_stats SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := ReviewRepo{DB: db}
	id, err := repo.Create(models.Review{
		ReviewerID: 1,
		RevieweeID: 2,
		BookingID:  &bookingID,
		Rating:     5,
		Comment:    "spotless work",
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if id != 3 {
		t.Fatalf("id = %d, want 3", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetReplyIsOneShot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE reviews SET reply").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reviews SET reply").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := ReviewRepo{DB: db}
	ok, err := repo.SetReply(3, "thank you")
	if err != nil || !ok {
		t.Fatalf("first reply should land, got ok=%v err=%v", ok, err)
	}
	ok, err = repo.SetReply(3, "again")
	if err != nil {
		t.Fatalf("second reply error: %v", err)
	}
	if ok {
		t.Fatalf("second reply should be refused")
	}
}

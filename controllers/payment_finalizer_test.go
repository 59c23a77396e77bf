package controllers

import (
	"testing"

	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

// A retried gateway callback hits a payment that is no longer pending. The
// gate must hand back the already-issued invoice without touching any row.
func TestFinalizeReturnsExistingInvoiceWhenPaymentAlreadyCompleted(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET .* WHERE id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM "invoices" WHERE payment_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "enrollment_id", "invoice_number", "access_code", "amount", "status"}).
			AddRow(3, 9, 11, "INV-2026-123456", "RAH0305-BATCH12", 900.0, models.InvoiceStatusValid))
	mock.ExpectRollback()

	tx := gormDB.Begin()
	payment := models.Payment{ID: 9, EnrollmentID: 11, Amount: 900, Status: models.PaymentStatusPending}
	invoice, err := finalizeSuccessfulPayment(tx, &payment, `{"status":"VALID"}`)
	require.NoError(t, err)
	require.NotNil(t, invoice)
	assert.Equal(t, "INV-2026-123456", invoice.InvoiceNumber)
	assert.Equal(t, "RAH0305-BATCH12", invoice.AccessCode)
	tx.Rollback()

	// No enrollment update, usage insert or invoice insert may have run
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A couponed payment that wins the redemption slot records exactly one
// usage row and one invoice.
func TestFinalizeRecordsCouponUsageOnce(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET .* WHERE id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "enrollments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "coupon_id", "name", "batch", "status"}).
			AddRow(11, 2, 3, 5, "Rahim Uddin", "Batch 12", models.EnrollmentStatusPending))
	mock.ExpectExec(`UPDATE "enrollments" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "coupons" SET "usage_count"=usage_count \+ 1 WHERE .*usage_count < usage_limit`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "courses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price"}).
			AddRow(3, "Physics Crash Course", 1000.0))
	mock.ExpectQuery(`INSERT INTO "coupon_usages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectRollback()

	tx := gormDB.Begin()
	payment := models.Payment{ID: 9, EnrollmentID: 11, Amount: 900, Status: models.PaymentStatusPending}
	invoice, err := finalizeSuccessfulPayment(tx, &payment, `{"status":"VALID"}`)
	require.NoError(t, err)
	require.NotNil(t, invoice)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, 900.0, invoice.Amount)
	tx.Rollback()

	assert.NoError(t, mock.ExpectationsWereMet())
}

// The loser of a last-slot redemption race gets zero rows from the
// conditional increment: the payment still finalizes and the invoice is
// issued, but no usage row is written and the counter never passes the
// limit.
func TestFinalizeSkipsUsageWhenCouponLimitExhausted(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET .* WHERE id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "enrollments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "coupon_id", "name", "batch", "status"}).
			AddRow(11, 2, 3, 5, "Rahim Uddin", "Batch 12", models.EnrollmentStatusPending))
	mock.ExpectExec(`UPDATE "enrollments" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "coupons" SET "usage_count"=usage_count \+ 1 WHERE .*usage_count < usage_limit`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectRollback()

	tx := gormDB.Begin()
	payment := models.Payment{ID: 9, EnrollmentID: 11, Amount: 900, Status: models.PaymentStatusPending}
	invoice, err := finalizeSuccessfulPayment(tx, &payment, `{"status":"VALID"}`)
	require.NoError(t, err)
	require.NotNil(t, invoice)
	tx.Rollback()

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A whitespace-only buyer name must not break invoice creation; the access
// code generator falls back to its padded form.
func TestFinalizeHandlesBlankBuyerName(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET .* WHERE id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "enrollments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "coupon_id", "name", "batch", "status"}).
			AddRow(11, 2, 3, 0, "   ", "", models.EnrollmentStatusPending))
	mock.ExpectExec(`UPDATE "enrollments" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectRollback()

	tx := gormDB.Begin()
	payment := models.Payment{ID: 9, EnrollmentID: 11, Amount: 900, Status: models.PaymentStatusPending}
	invoice, err := finalizeSuccessfulPayment(tx, &payment, "")
	require.NoError(t, err)
	require.NotNil(t, invoice)
	assert.NotEmpty(t, invoice.AccessCode)
	tx.Rollback()

	assert.NoError(t, mock.ExpectationsWereMet())
}

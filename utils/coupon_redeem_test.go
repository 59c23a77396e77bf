package utils

import (
	"testing"

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

func TestRedeemCouponTakesRemainingSlot(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "coupons" SET "usage_count"=usage_count \+ 1 WHERE .*usage_count < usage_limit`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx := gormDB.Begin()
	redeemed, err := RedeemCoupon(tx, 7)
	require.NoError(t, err)
	assert.True(t, redeemed)
	tx.Rollback()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCouponClampsAtUsageLimit(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	// No row matches once usage_count has reached usage_limit; the loser
	// of a last-slot race sees zero rows affected, never an over-count.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "coupons" SET "usage_count"=usage_count \+ 1 WHERE .*usage_count < usage_limit`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx := gormDB.Begin()
	redeemed, err := RedeemCoupon(tx, 7)
	require.NoError(t, err)
	assert.False(t, redeemed)
	tx.Rollback()

	assert.NoError(t, mock.ExpectationsWereMet())
}

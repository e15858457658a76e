package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jptandoc/turo_backend/models"
)

func TestComputeTutorBalance(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	tutorID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(credits_required\), 0\) FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(20.0))
	// one completed 900 PHP withdrawal = 10 credits at the snapshotted rate
	mock.ExpectQuery(`SELECT .* FROM "tutor_withdrawals" WHERE tutor_id = `).
		WillReturnRows(sqlmock.NewRows(withdrawalColumns).
			AddRow(uuid.New().String(), tutorID.String(), "ABCDEFGHJK",
				900.0, CurrencyPHP, models.PricingRegionPH, 90.0,
				models.WithdrawalStatusCompleted, models.PaymentMethodPayMongo, time.Now()))

	balance, err := ComputeTutorBalance(db, tutorID)
	require.NoError(t, err)

	assert.Equal(t, 20.0, balance.EarnedCredits)
	assert.Equal(t, 10.0, balance.WithdrawnCredits)
	assert.Equal(t, 10.0, balance.AvailableCredits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeTutorBalance_UsesSnapshottedRates(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	tutorID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(credits_required\), 0\) FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(30.0))
	// withdrawals made under different regions convert with their own rates
	mock.ExpectQuery(`SELECT .* FROM "tutor_withdrawals" WHERE tutor_id = `).
		WillReturnRows(sqlmock.NewRows(withdrawalColumns).
			AddRow(uuid.New().String(), tutorID.String(), "AAAAAAAAAA",
				450.0, CurrencyPHP, models.PricingRegionPH, 90.0,
				models.WithdrawalStatusCompleted, models.PaymentMethodPayMongo, time.Now()).
			AddRow(uuid.New().String(), tutorID.String(), "BBBBBBBBBB",
				15.0, CurrencyUSD, models.PricingRegionInternational, 1.5,
				models.WithdrawalStatusPending, models.PaymentMethodStripe, time.Now()))

	balance, err := ComputeTutorBalance(db, tutorID)
	require.NoError(t, err)

	assert.Equal(t, 30.0, balance.EarnedCredits)
	assert.Equal(t, 15.0, balance.WithdrawnCredits)
	assert.Equal(t, 15.0, balance.AvailableCredits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeTutorBalance_CanGoNegative(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	tutorID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(credits_required\), 0\) FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(5.0))
	mock.ExpectQuery(`SELECT .* FROM "tutor_withdrawals" WHERE tutor_id = `).
		WillReturnRows(sqlmock.NewRows(withdrawalColumns).
			AddRow(uuid.New().String(), tutorID.String(), "CCCCCCCCCC",
				900.0, CurrencyPHP, models.PricingRegionPH, 90.0,
				models.WithdrawalStatusCompleted, models.PaymentMethodPayMongo, time.Now()))

	balance, err := ComputeTutorBalance(db, tutorID)
	require.NoError(t, err)

	// historical inconsistency shows up as a negative available figure
	assert.Equal(t, -5.0, balance.AvailableCredits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeTutorBalance_NoActivity(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(credits_required\), 0\) FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT .* FROM "tutor_withdrawals" WHERE tutor_id = `).
		WillReturnRows(sqlmock.NewRows(withdrawalColumns))

	balance, err := ComputeTutorBalance(db, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0.0, balance.EarnedCredits)
	assert.Equal(t, 0.0, balance.WithdrawnCredits)
	assert.Equal(t, 0.0, balance.AvailableCredits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

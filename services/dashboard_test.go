package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"salonpro-api/models"
	"salonpro-api/repository"
)

func newDashboard(store DashboardStore) *DashboardService {
	s := NewDashboardService(store, 3, time.UTC, testLogger())
	s.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestSummarizeSkipsFreeVisits(t *testing.T) {
	svc := &models.Service{TherapistFee: 20000}
	totals := Summarize([]models.Treatment{
		{Price: 50000, Service: svc},
		{Price: 50000, IsFreeVisit: true, Service: svc},
	})

	assert.Equal(t, PeriodTotals{
		Treatments:     2,
		Revenue:        50000,
		TherapistFees:  20000,
		FreeTreatments: 1,
		Profit:         30000,
	}, totals)
}

func TestDashboardSummary(t *testing.T) {
	_, store := newTestDB(t)
	ctx := context.Background()

	svc := seedService(t, store, "Balinese Massage", 50000, 20000)
	th := seedTherapist(t, store, "Ayu", 10000, 0.1)
	alice := seedCustomer(t, store, "Alice", "+628111111111")
	seedCustomer(t, store, "Bob", "+628122222222")
	require.NoError(t, store.RecordVisit(ctx, alice.ID, 0, time.Now()))
	require.NoError(t, store.RecordVisit(ctx, alice.ID, 0, time.Now()))
	require.NoError(t, store.RecordVisit(ctx, alice.ID, 0, time.Now()))

	seedTreatment(t, store, date(t, "2024-03-15"), svc, th, alice, 50000, false)
	seedTreatment(t, store, date(t, "2024-03-15"), svc, th, nil, 50000, true)
	seedTreatment(t, store, date(t, "2024-03-01"), svc, th, alice, 40000, false)
	seedTreatment(t, store, date(t, "2024-02-29"), svc, th, alice, 99000, false)
	seedTreatment(t, store, date(t, "2024-03-16"), svc, th, alice, 99000, false)

	summary, err := newDashboard(store).Summary(ctx, "2024-03-15")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-15", summary.Today.Date)
	assert.Equal(t, 2, summary.Today.Treatments)
	assert.Equal(t, int64(50000), summary.Today.Revenue)
	assert.Equal(t, int64(20000), summary.Today.TherapistFees)
	assert.Equal(t, 1, summary.Today.FreeTreatments)
	assert.Equal(t, int64(30000), summary.Today.Profit)
	require.Len(t, summary.Today.Details, 2)
	assert.Equal(t, "Alice", summary.Today.Details[0].CustomerName)
	assert.Equal(t, walkInCustomer, summary.Today.Details[1].CustomerName)
	assert.Equal(t, "Ayu", summary.Today.Details[1].TherapistName)

	assert.Equal(t, "2024-03-01", summary.Monthly.From)
	assert.Equal(t, "2024-03-15", summary.Monthly.To)
	assert.Equal(t, 3, summary.Monthly.Treatments)
	assert.Equal(t, int64(90000), summary.Monthly.Revenue)
	assert.Equal(t, int64(40000), summary.Monthly.TherapistFees)

	assert.Equal(t, int64(2), summary.Customers.Total)
	assert.Equal(t, int64(1), summary.Customers.LoyaltyEligible)
	assert.Equal(t, 3, summary.Customers.LoyaltyThreshold)
	assert.Equal(t, int64(1), summary.System.ActiveServices)
	assert.Equal(t, int64(1), summary.System.ActiveTherapists)
}

func TestDashboardSummaryDefaultsToToday(t *testing.T) {
	_, store := newTestDB(t)
	svc := seedService(t, store, "Facial", 30000, 10000)
	th := seedTherapist(t, store, "Dewi", 0, 0)
	seedTreatment(t, store, date(t, "2024-03-15"), svc, th, nil, 30000, false)

	summary, err := newDashboard(store).Summary(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", summary.Today.Date)
	assert.Equal(t, 1, summary.Today.Treatments)
}

func TestDashboardSummaryErrors(t *testing.T) {
	t.Run("malformed date", func(t *testing.T) {
		_, store := newTestDB(t)
		_, err := newDashboard(store).Summary(context.Background(), "15/03/2024")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := newDashboard(repository.New(nil)).Summary(context.Background(), "")
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.ErrorIs(t, err, ErrDataUnavailable)
	})

	t.Run("query failure aborts the whole summary", func(t *testing.T) {
		db, store := newTestDB(t)
		require.NoError(t, db.Migrator().DropTable(&models.Therapist{}))

		summary, err := newDashboard(store).Summary(context.Background(), "2024-03-15")
		assert.Nil(t, summary)
		assert.ErrorIs(t, err, ErrQueryFailed)
		assert.Contains(t, err.Error(), "therapists")
	})

	t.Run("unreachable store", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer sqlDB.Close()
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
		require.NoError(t, err)

		_, err = newDashboard(repository.New(db)).Summary(context.Background(), "2024-03-15")
		assert.ErrorIs(t, err, ErrDataUnavailable)
		assert.NotErrorIs(t, err, ErrNotConfigured)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

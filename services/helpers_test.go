package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"salonpro-api/models"
	"salonpro-api/repository"
)

func testLogger() *slog.Logger {
	return slog.New(tint.NewHandler(io.Discard, nil))
}

// newTestDB opens a fresh in-memory database with the full schema. The pool
// is pinned to one connection so every query sees the same memory database.
func newTestDB(t *testing.T) (*gorm.DB, *repository.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db, repository.New(db)
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func seedService(t *testing.T, store *repository.Store, name string, price, fee int64) *models.Service {
	t.Helper()
	svc := &models.Service{Name: name, Category: "Massage", NormalPrice: price, Duration: 60, TherapistFee: fee, IsActive: true}
	require.NoError(t, store.CreateService(context.Background(), svc))
	return svc
}

func seedTherapist(t *testing.T, store *repository.Store, name string, base int64, rate float64) *models.Therapist {
	t.Helper()
	th := &models.Therapist{Initial: name[:1], FullName: name, BaseFeePerTreatment: base, CommissionRate: rate, IsActive: true}
	require.NoError(t, store.CreateTherapist(context.Background(), th))
	return th
}

func seedCustomer(t *testing.T, store *repository.Store, name, phone string) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: name, Phone: phone}
	require.NoError(t, store.CreateCustomer(context.Background(), c))
	return c
}

// seedTreatment inserts a treatment row without touching any counters.
func seedTreatment(t *testing.T, store *repository.Store, day time.Time, svc *models.Service, th *models.Therapist, customer *models.Customer, price int64, free bool) *models.Treatment {
	t.Helper()
	tr := &models.Treatment{
		ServiceID:   svc.ID,
		TherapistID: th.ID,
		Date:        datatypes.Date(day),
		Price:       price,
		IsFreeVisit: free,
	}
	if customer != nil {
		tr.CustomerID = &customer.ID
	}
	require.NoError(t, store.CreateTreatment(context.Background(), tr))
	return tr
}

// inlineQueue runs tasks synchronously and keeps their errors.
type inlineQueue struct {
	errs []error
}

func (q *inlineQueue) Enqueue(task Task) bool {
	if err := task.Run(context.Background()); err != nil {
		q.errs = append(q.errs, err)
	}
	return true
}

package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGrowthPercentage(t *testing.T) {
	assert.Equal(t, 0.0, growthPercentage(0, 0))
	assert.Equal(t, 100.0, growthPercentage(5000, 0))
	assert.Equal(t, 50.0, growthPercentage(150, 100))
	assert.Equal(t, -25.0, growthPercentage(75, 100))
	assert.Equal(t, 33.33, growthPercentage(400, 300))
}

func newReportFixture(t *testing.T) *ReportService {
	_, store := newTestDB(t)
	massage := seedService(t, store, "Massage", 50000, 20000)
	facial := seedService(t, store, "Facial", 30000, 10000)
	ayu := seedTherapist(t, store, "Ayu", 0, 0)
	dewi := seedTherapist(t, store, "Dewi", 0, 0)
	alice := seedCustomer(t, store, "Alice", "+628111111111")

	seedTreatment(t, store, date(t, "2024-02-10"), massage, ayu, alice, 100000, false)
	seedTreatment(t, store, date(t, "2024-03-02"), massage, ayu, alice, 50000, false)
	seedTreatment(t, store, date(t, "2024-03-05"), massage, ayu, nil, 50000, false)
	seedTreatment(t, store, date(t, "2024-03-09"), facial, dewi, alice, 30000, false)
	seedTreatment(t, store, date(t, "2024-03-20"), facial, dewi, alice, 30000, true)
	seedTreatment(t, store, date(t, "2024-04-01"), facial, dewi, alice, 30000, false)

	r := NewReportService(store, time.UTC, testLogger())
	r.now = func() time.Time { return time.Date(2024, 3, 25, 9, 0, 0, 0, time.UTC) }
	return r
}

func TestMonthlyReport(t *testing.T) {
	r := newReportFixture(t)

	report, err := r.Monthly(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "2024-03", report.Month)
	assert.Equal(t, 4, report.Treatments)
	assert.Equal(t, 1, report.FreeTreatments)
	assert.Equal(t, int64(130000), report.Revenue)
	assert.Equal(t, int64(50000), report.TherapistFees)
	assert.Equal(t, int64(100000), report.PreviousRevenue)
	assert.Equal(t, 30.0, report.Growth)
	assert.InDelta(t, 43333.33, report.AvgOrderValue, 0.01)

	require.Len(t, report.TopServices, 2)
	assert.Equal(t, "Massage", report.TopServices[0].Name)
	assert.Equal(t, int64(2), report.TopServices[0].TreatmentCount)
	assert.Equal(t, int64(100000), report.TopServices[0].Revenue)
	require.Len(t, report.TopTherapists, 2)
	assert.Equal(t, "Ayu", report.TopTherapists[0].Name)

	_, err = r.Monthly(context.Background(), "March 2024")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportMonthly(t *testing.T) {
	r := newReportFixture(t)

	var buf bytes.Buffer
	require.NoError(t, r.ExportMonthly(context.Background(), "2024-03", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Treatments", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Treatments")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2024-03-02", rows[1][0])
	assert.Equal(t, "Walk-in", rows[2][1])

	revenue, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "130000", revenue)
}

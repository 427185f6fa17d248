package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"salonpro-api/models"
	"salonpro-api/repository"
	"salonpro-api/utils"
)

const topListSize = 5

type ReportStore interface {
	ListTreatments(ctx context.Context, from, to time.Time) ([]models.Treatment, error)
	RevenueBetween(ctx context.Context, from, to time.Time) (int64, error)
	TopServices(ctx context.Context, from, to time.Time, limit int) ([]repository.ServiceSummary, error)
	TopTherapists(ctx context.Context, from, to time.Time, limit int) ([]repository.TherapistSummary, error)
}

type MonthlyReport struct {
	Month string `json:"month"`
	PeriodTotals
	PreviousRevenue int64                         `json:"previousRevenue"`
	Growth          float64                       `json:"growth"`
	AvgOrderValue   float64                       `json:"avgOrderValue"`
	TopServices     []repository.ServiceSummary   `json:"topServices"`
	TopTherapists   []repository.TherapistSummary `json:"topTherapists"`
}

type ReportService struct {
	store  ReportStore
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

func NewReportService(store ReportStore, loc *time.Location, logger *slog.Logger) *ReportService {
	return &ReportService{store: store, loc: loc, now: time.Now, logger: logger}
}

// growthPercentage is 100 when the previous period had no revenue but the
// current one does.
func growthPercentage(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	growth := float64(current-previous) / float64(previous) * 100
	return math.Round(growth*100) / 100
}

func (s *ReportService) monthStart(month string) (time.Time, error) {
	if month == "" {
		return utils.BeginningOfMonth(utils.CalendarDate(s.now().In(s.loc))), nil
	}
	start, err := utils.ParseMonth(month)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return start, nil
}

// Monthly reports on the YYYY-MM month, the current month when empty.
func (s *ReportService) Monthly(ctx context.Context, month string) (*MonthlyReport, error) {
	start, err := s.monthStart(month)
	if err != nil {
		return nil, err
	}
	report, _, err := s.build(ctx, start)
	return report, err
}

func (s *ReportService) build(ctx context.Context, start time.Time) (*MonthlyReport, []models.Treatment, error) {
	end := start.AddDate(0, 1, 0)

	treatments, err := s.store.ListTreatments(ctx, start, end)
	if err != nil {
		return nil, nil, err
	}
	previous, err := s.store.RevenueBetween(ctx, start.AddDate(0, -1, 0), start)
	if err != nil {
		return nil, nil, err
	}
	topServices, err := s.store.TopServices(ctx, start, end, topListSize)
	if err != nil {
		return nil, nil, err
	}
	topTherapists, err := s.store.TopTherapists(ctx, start, end, topListSize)
	if err != nil {
		return nil, nil, err
	}

	totals := Summarize(treatments)
	report := &MonthlyReport{
		Month:           start.Format("2006-01"),
		PeriodTotals:    totals,
		PreviousRevenue: previous,
		Growth:          growthPercentage(totals.Revenue, previous),
		TopServices:     topServices,
		TopTherapists:   topTherapists,
	}
	if paid := totals.Treatments - totals.FreeTreatments; paid > 0 {
		report.AvgOrderValue = float64(totals.Revenue) / float64(paid)
	}
	return report, treatments, nil
}

// ExportMonthly writes the month's treatments and summary as an xlsx
// workbook to w.
func (s *ReportService) ExportMonthly(ctx context.Context, month string, w io.Writer) error {
	start, err := s.monthStart(month)
	if err != nil {
		return err
	}
	report, treatments, err := s.build(ctx, start)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Treatments"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	header := []interface{}{"Date", "Customer", "Service", "Therapist", "Price", "Tip", "Free Visit", "Therapist Fee", "Notes"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, d := range treatmentDetails(treatments) {
		row := []interface{}{
			time.Time(treatments[i].Date).Format(utils.DateLayout),
			d.CustomerName, d.ServiceName, d.TherapistName,
			d.Price, d.TipAmount, d.IsFreeVisit, d.TherapistFee, d.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Month", report.Month},
		{"Treatments", report.Treatments},
		{"Free Treatments", report.FreeTreatments},
		{"Revenue", report.Revenue},
		{"Therapist Fees", report.TherapistFees},
		{"Profit", report.Profit},
		{"Previous Month Revenue", report.PreviousRevenue},
		{"Growth %", report.Growth},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(summary, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	s.logger.Info("report exported", "month", report.Month, "treatments", len(treatments))
	return f.Write(w)
}

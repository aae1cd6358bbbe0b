package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrriyous/storefront-backend/internal/notifications"
	"github.com/mrriyous/storefront-backend/internal/reports"
	"github.com/mrriyous/storefront-backend/pkg/config"
	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/logger"
	"github.com/mrriyous/storefront-backend/pkg/mailer"
)

const dailyReportJobName = "daily_sales_report"

type transactionSource interface {
	FindBetweenWithItems(ctx context.Context, from, to time.Time) ([]models.Transaction, error)
}

type reportTracker interface {
	BeginReport(ctx context.Context, row *models.TransactionReportNotifProcess) error
	MarkReportSent(ctx context.Context, id uuid.UUID) error
	MarkReportFailed(ctx context.Context, id uuid.UUID, sendErr error) error
}

// DailyReportJobParams are the collaborators for the daily sales report.
type DailyReportJobParams struct {
	Logger       *logger.Logger
	Transactions transactionSource
	Tracker      reportTracker
	Sender       mailer.Sender
	Renderer     templateRenderer
	Store        config.StoreConfig
	Now          func() time.Time
}

// DailyReportJob compiles the current day's completed transactions and emails
// the rollup to the admin. Days with no transactions are skipped entirely.
type DailyReportJob struct {
	logg         *logger.Logger
	transactions transactionSource
	tracker      reportTracker
	sender       mailer.Sender
	renderer     templateRenderer
	store        config.StoreConfig
	now          func() time.Time
}

// NewDailyReportJob builds the daily report job.
func NewDailyReportJob(params DailyReportJobParams) (*DailyReportJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Transactions == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if params.Tracker == nil {
		return nil, fmt.Errorf("notification tracker required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if params.Renderer == nil {
		return nil, fmt.Errorf("template renderer required")
	}
	if params.Store.AdminEmail == "" {
		return nil, fmt.Errorf("admin email required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &DailyReportJob{
		logg:         params.Logger,
		transactions: params.Transactions,
		tracker:      params.Tracker,
		sender:       params.Sender,
		renderer:     params.Renderer,
		store:        params.Store,
		now:          params.Now,
	}, nil
}

func (j *DailyReportJob) Name() string { return dailyReportJobName }

// Run covers the calendar day the job fires in, local time.
func (j *DailyReportJob) Run(ctx context.Context) error {
	now := j.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	txns, err := j.transactions.FindBetweenWithItems(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	report := reports.Compile(dayStart, txns)
	if report.Empty() {
		j.logg.Info(ctx, "no transactions today; skipping report")
		return nil
	}

	payload, err := report.MarshalPayload()
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	// The audit row is persisted before the send so the compiled numbers
	// survive a delivery failure.
	row := &models.TransactionReportNotifProcess{
		ReportDate:       dayStart,
		Payload:          payload,
		TotalSales:       report.TotalSales.StringFixed(2),
		TotalItems:       report.TotalItems,
		TransactionCount: report.TransactionCount,
	}
	if err := j.tracker.BeginReport(ctx, row); err != nil {
		return fmt.Errorf("opening audit row: %w", err)
	}

	body, err := j.renderer.Render("daily_report.html", buildReportEmailData(report))
	if err != nil {
		j.recordFailure(ctx, row.ID, err)
		return err
	}

	msg := mailer.Message{
		To:      j.store.AdminEmail,
		Subject: fmt.Sprintf("Daily Sales Report - %s", dayStart.Format("2006-01-02")),
		Body:    body,
	}
	if err := j.sender.Send(ctx, msg); err != nil {
		j.recordFailure(ctx, row.ID, err)
		return err
	}

	if err := j.tracker.MarkReportSent(ctx, row.ID); err != nil {
		return fmt.Errorf("marking sent: %w", err)
	}
	return nil
}

type reportEmailData struct {
	Date             string
	Products         []reports.ProductRollup
	TotalSales       string
	TotalItems       int
	TransactionCount int
}

func buildReportEmailData(report reports.DailyReport) reportEmailData {
	return reportEmailData{
		Date:             report.Date.Format("2006-01-02"),
		Products:         report.Products,
		TotalSales:       report.TotalSales.StringFixed(2),
		TotalItems:       report.TotalItems,
		TransactionCount: report.TransactionCount,
	}
}

func (j *DailyReportJob) recordFailure(ctx context.Context, id uuid.UUID, cause error) {
	if err := j.tracker.MarkReportFailed(ctx, id, cause); err != nil {
		j.logg.Error(ctx, "failed to record report failure", err)
	}
}

var _ reportTracker = (*notifications.Service)(nil)

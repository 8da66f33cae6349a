package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"castlehire/internal/reports/repository"
	"castlehire/pkg/client"
	"castlehire/pkg/config"
	apperrors "castlehire/pkg/errors"
	"castlehire/pkg/timeslot"
)

// AnalyticsAPI is the slice of the analytics collaborator the reports
// service consumes. Nil means site stats are simply omitted.
type AnalyticsAPI interface {
	Stats(ctx context.Context, period string) (*client.SiteStats, error)
}

// RendererAPI turns an HTML document into PDF bytes.
type RendererAPI interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Summary is the admin reporting rollup for one window.
type Summary struct {
	From             string                   `json:"from"`
	To               string                   `json:"to"`
	BookingsByStatus map[string]int64         `json:"bookings_by_status"`
	Revenue          float64                  `json:"revenue"`
	DepositsTaken    float64                  `json:"deposits_taken"`
	CastleUsage      []repository.CastleUsage `json:"castle_usage"`
	SiteStats        *client.SiteStats        `json:"site_stats,omitempty"`
}

type ReportService interface {
	Summary(ctx context.Context, fromDate, toDate string) (*Summary, error)
	SummaryPDF(ctx context.Context, fromDate, toDate string) ([]byte, error)
}

type reportService struct {
	repo      repository.ReportRepository
	analytics AnalyticsAPI
	renderer  RendererAPI
	cfg       *config.Config
}

func NewReportService(repo repository.ReportRepository, analytics AnalyticsAPI, renderer RendererAPI, cfg *config.Config) ReportService {
	return &reportService{
		repo:      repo,
		analytics: analytics,
		renderer:  renderer,
		cfg:       cfg,
	}
}

func (s *reportService) Summary(ctx context.Context, fromDate, toDate string) (*Summary, error) {
	from, to, err := s.window(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		From: fromDate,
		To:   toDate,
	}

	var (
		wg         sync.WaitGroup
		statusErr  error
		revenueErr error
		usageErr   error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		summary.BookingsByStatus, statusErr = s.repo.CountByStatus(ctx, from, to)
	}()
	go func() {
		defer wg.Done()
		summary.Revenue, summary.DepositsTaken, revenueErr = s.repo.Revenue(ctx, from, to)
	}()
	go func() {
		defer wg.Done()
		summary.CastleUsage, usageErr = s.repo.CastleUsage(ctx, from, to)
	}()
	wg.Wait()

	for _, err := range []error{statusErr, revenueErr, usageErr} {
		if err != nil {
			return nil, apperrors.Internal("Failed to build report", err)
		}
	}

	// Site stats are decoration; an analytics outage never fails the
	// report.
	if s.analytics != nil {
		stats, statsErr := s.analytics.Stats(ctx, fmt.Sprintf("%s,%s", fromDate, toDate))
		if statsErr != nil {
			s.cfg.Log.Warn("Analytics unavailable, omitting site stats", "error", statsErr)
		} else {
			summary.SiteStats = stats
		}
	}

	return summary, nil
}

func (s *reportService) SummaryPDF(ctx context.Context, fromDate, toDate string) ([]byte, error) {
	if s.renderer == nil {
		return nil, apperrors.Unavailable("renderer")
	}

	summary, err := s.Summary(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	html, err := renderSummaryHTML(summary)
	if err != nil {
		return nil, apperrors.Internal("Failed to render report template", err)
	}

	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to render report PDF", err)
	}
	return pdf, nil
}

func (s *reportService) window(fromDate, toDate string) (time.Time, time.Time, error) {
	fromDay, err := timeslot.ParseDate(fromDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput(fmt.Sprintf("invalid from date: %s", fromDate))
	}
	toDay, err := timeslot.ParseDate(toDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput(fmt.Sprintf("invalid to date: %s", toDate))
	}

	loc := s.cfg.Location
	from := time.Date(fromDay.Year(), fromDay.Month(), fromDay.Day(), 0, 0, 0, 0, loc)
	to := time.Date(toDay.Year(), toDay.Month(), toDay.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	if !to.After(from) {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("to date must not be before from date")
	}
	return from, to, nil
}

var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Hire summary {{.From}} to {{.To}}</title></head>
<body>
<h1>Castle hire summary</h1>
<p>{{.From}} to {{.To}}</p>
<h2>Bookings</h2>
<table border="1" cellpadding="4">
<tr><th>Status</th><th>Count</th></tr>
{{range $status, $count := .BookingsByStatus}}<tr><td>{{$status}}</td><td>{{$count}}</td></tr>
{{end}}</table>
<h2>Money</h2>
<p>Revenue: &pound;{{printf "%.2f" .Revenue}}<br>Deposits taken: &pound;{{printf "%.2f" .DepositsTaken}}</p>
<h2>Fleet usage</h2>
<table border="1" cellpadding="4">
<tr><th>Castle</th><th>Bookings</th><th>Hire days</th><th>Revenue</th></tr>
{{range .CastleUsage}}<tr><td>{{.CastleName}}</td><td>{{.Bookings}}</td><td>{{printf "%.0f" .HireDays}}</td><td>&pound;{{printf "%.2f" .Revenue}}</td></tr>
{{end}}</table>
{{if .SiteStats}}<h2>Site</h2>
<p>Visitors: {{.SiteStats.Visitors}}<br>Pageviews: {{.SiteStats.Pageviews}}</p>{{end}}
</body>
</html>`))

func renderSummaryHTML(summary *Summary) (string, error) {
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, summary); err != nil {
		return "", err
	}
	return buf.String(), nil
}

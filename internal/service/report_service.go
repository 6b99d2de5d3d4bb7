package service

import (
	"context"
	"io"
	"time"

	"alcyxob/gymledger/internal/clock"
	"alcyxob/gymledger/internal/ledger"
	"alcyxob/gymledger/internal/metrics"
	"alcyxob/gymledger/internal/repository"

	"go.uber.org/zap"
)

// SalesReport is a financial report over one window of one gym.
type SalesReport struct {
	Window      ledger.WindowKind  `json:"window"`
	Label       string             `json:"label"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Timezone    string             `json:"timezone"`
	Sales       []ledger.SaleEvent `json:"sales"`
	ledger.Report
}

type ReportService interface {
	Report(ctx context.Context, gymID string, w ledger.Window) (*SalesReport, error)
	// ExportCSV writes the sale events of the window as CSV and returns the
	// number of rows written.
	ExportCSV(ctx context.Context, gymID string, w ledger.Window, out io.Writer) (int, error)
}

type reportService struct {
	members repository.MemberRepository
	clock   clock.Clock
	log     *zap.Logger
}

func NewReportService(members repository.MemberRepository, clk clock.Clock, log *zap.Logger) ReportService {
	return &reportService{members: members, clock: clk, log: log.Named("report.service")}
}

// events reads a snapshot of the gym's members and returns the sale events
// inside the window, most recent first.
func (s *reportService) events(ctx context.Context, gymID string, w ledger.Window, now time.Time) ([]ledger.SaleEvent, error) {
	members, err := s.members.ListByGym(ctx, gymID)
	if err != nil {
		return nil, err
	}
	return ledger.Filter(ledger.Extract(members), w, now), nil
}

func (s *reportService) Report(ctx context.Context, gymID string, w ledger.Window) (*SalesReport, error) {
	now := s.clock.Now()
	sales, err := s.events(ctx, gymID, w, now)
	if err != nil {
		s.log.Error("failed to load members for report", zap.String("gym_id", gymID), zap.Error(err))
		return nil, err
	}

	metrics.RecordReport(string(w.Kind), "json")
	return &SalesReport{
		Window:      w.Kind,
		Label:       w.Describe(),
		GeneratedAt: now,
		Timezone:    now.Location().String(),
		Sales:       sales,
		Report:      ledger.Aggregate(sales, w, now),
	}, nil
}

func (s *reportService) ExportCSV(ctx context.Context, gymID string, w ledger.Window, out io.Writer) (int, error) {
	now := s.clock.Now()
	sales, err := s.events(ctx, gymID, w, now)
	if err != nil {
		return 0, err
	}
	if err := ledger.WriteCSV(out, sales, now.Location()); err != nil {
		s.log.Error("failed to write sales export", zap.String("gym_id", gymID), zap.Error(err))
		return 0, err
	}

	metrics.RecordReport(string(w.Kind), "csv")
	s.log.Info("sales exported",
		zap.String("gym_id", gymID),
		zap.String("window", w.Describe()),
		zap.Int("rows", len(sales)))
	return len(sales), nil
}

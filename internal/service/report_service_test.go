package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedLedger stores one member who joined two days ago, extended yesterday
// and bought a supplement today, plus a member who joined last month.
func seedLedger(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()

	m := f.seedMember(t, "Nisha", testNow.AddDate(0, 0, -2), 30, 1000)
	extended, err := domain.ExtendPlan(*m, 30, decimal.NewFromInt(800), testNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	sold, err := domain.BillSupplement(extended, "Whey", decimal.RequireFromString("45.50"), nil, testNow.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.members.Update(ctx, &sold))

	f.seedMember(t, "Old Timer", testNow.AddDate(0, -1, 0), 90, 3000)
}

func TestReportService_Report(t *testing.T) {
	f := newFixture(t, nil)
	seedLedger(t, f)
	ctx := context.Background()

	report, err := f.reportSvc.Report(ctx, testGym, ledger.Weekly())
	require.NoError(t, err)

	assert.Equal(t, ledger.WindowWeekly, report.Window)
	assert.Equal(t, testNow, report.GeneratedAt)
	assert.Equal(t, "UTC", report.Timezone)
	assert.Equal(t, 3, report.EventCount)
	assert.True(t, report.GrossTotal.Equal(decimal.RequireFromString("1845.50")), report.GrossTotal.String())
	assert.True(t, report.TotalsByCategory[ledger.CategoryMembership].Equal(decimal.NewFromInt(1800)))
	assert.True(t, report.TotalsByCategory[ledger.CategorySupplement].Equal(decimal.RequireFromString("45.50")))

	require.Len(t, report.Sales, 3)
	assert.Equal(t, "Whey", report.Sales[0].Description)
	assert.Equal(t, "Extension Renewal (30 Days)", report.Sales[1].Description)
	assert.Equal(t, domain.LabelInitialJoiningFee, report.Sales[2].Description)

	require.Len(t, report.ProductBreakdown, 1)
	assert.True(t, report.ProductBreakdown[0].SharePercent.Equal(decimal.NewFromInt(100)))
	assert.Len(t, report.ChartSeries, 7)
}

func TestReportService_WindowsAndIsolation(t *testing.T) {
	f := newFixture(t, nil)
	seedLedger(t, f)
	ctx := context.Background()

	daily, err := f.reportSvc.Report(ctx, testGym, ledger.Daily())
	require.NoError(t, err)
	assert.Equal(t, 1, daily.EventCount)

	month, err := f.reportSvc.Report(ctx, testGym, ledger.Between(ledger.DateOf(testNow.AddDate(0, -1, 0)), ledger.DateOf(testNow)))
	require.NoError(t, err)
	assert.Equal(t, 4, month.EventCount)

	inverted, err := f.reportSvc.Report(ctx, testGym, ledger.Between(ledger.DateOf(testNow), ledger.DateOf(testNow.AddDate(0, 0, -3))))
	require.NoError(t, err)
	assert.Zero(t, inverted.EventCount)
	assert.True(t, inverted.GrossTotal.IsZero())

	other, err := f.reportSvc.Report(ctx, "another-gym", ledger.Monthly())
	require.NoError(t, err)
	assert.Zero(t, other.EventCount)
	assert.Empty(t, other.Sales)
}

func TestReportService_ExportCSV(t *testing.T) {
	f := newFixture(t, nil)
	seedLedger(t, f)

	var buf bytes.Buffer
	rows, err := f.reportSvc.ExportCSV(context.Background(), testGym, ledger.Weekly(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,member,category,description,amount", lines[0])
	assert.Equal(t, "2024-03-10 08:30,Nisha,SUPPLEMENT,Whey,45.50", lines[1])
}

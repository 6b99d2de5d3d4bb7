package ledger

import (
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// maxDailyBinSpan is the longest RANGE, in days, still charted per date.
// Longer ranges are charted per month.
const maxDailyBinSpan = 32

var hundred = decimal.NewFromInt(100)

// ProductSales summarizes supplement sales of one product.
type ProductSales struct {
	Product      string          `json:"product"`
	Count        int             `json:"count"`
	Revenue      decimal.Decimal `json:"revenue"`
	SharePercent decimal.Decimal `json:"sharePercent"`
}

// ChartBin is one point of a chart series.
type ChartBin struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Report is the aggregate view of a set of sale events.
type Report struct {
	EventCount       int                          `json:"eventCount"`
	GrossTotal       decimal.Decimal              `json:"grossTotal"`
	TotalsByCategory map[Category]decimal.Decimal `json:"totalsByCategory"`
	ProductBreakdown []ProductSales               `json:"productBreakdown"`
	ChartSeries      []ChartBin                   `json:"chartSeries"`
}

// SharePercent is part as a percentage of total, rounded to two places.
// A zero total yields zero rather than a division error.
func SharePercent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

// Aggregate computes totals, the supplement product breakdown, and a chart
// series binned according to the window's granularity. events is expected to
// be the output of Filter for the same window and now.
func Aggregate(events []SaleEvent, w Window, now time.Time) Report {
	report := Report{
		EventCount:       len(events),
		GrossTotal:       decimal.Zero,
		TotalsByCategory: make(map[Category]decimal.Decimal, len(Categories)),
	}
	for _, c := range Categories {
		report.TotalsByCategory[c] = decimal.Zero
	}

	for _, e := range events {
		report.GrossTotal = report.GrossTotal.Add(e.Amount)
		report.TotalsByCategory[e.Category] = report.TotalsByCategory[e.Category].Add(e.Amount)
	}

	report.ProductBreakdown = productBreakdown(events, report.TotalsByCategory[CategorySupplement])
	report.ChartSeries = chartSeries(events, w, now)
	return report
}

func productBreakdown(events []SaleEvent, supplementTotal decimal.Decimal) []ProductSales {
	index := make(map[string]int)
	products := []ProductSales{}
	for _, e := range events {
		if e.Category != CategorySupplement {
			continue
		}
		i, ok := index[e.Description]
		if !ok {
			i = len(products)
			index[e.Description] = i
			products = append(products, ProductSales{Product: e.Description, Revenue: decimal.Zero})
		}
		products[i].Count++
		products[i].Revenue = products[i].Revenue.Add(e.Amount)
	}

	for i := range products {
		products[i].SharePercent = SharePercent(products[i].Revenue, supplementTotal)
	}
	// Stable so that equal revenues keep first-seen order.
	slices.SortStableFunc(products, func(a, b ProductSales) int {
		return b.Revenue.Cmp(a.Revenue)
	})
	return products
}

func chartSeries(events []SaleEvent, w Window, now time.Time) []ChartBin {
	loc := now.Location()

	switch w.Kind {
	case WindowWeekly:
		return weekdayBins(events, now)
	case WindowMonthly:
		return dayOfMonthBins(events, now)
	case WindowRange:
		if w.Start.DaysUntil(w.End)+1 > maxDailyBinSpan {
			return observedBins(events, loc, monthKey, "Jan 2006")
		}
		return observedBins(events, loc, dateKey, "Jan 2")
	}
	return categoryBins(events)
}

// categoryBins is used by windows with no time granularity of their own.
func categoryBins(events []SaleEvent) []ChartBin {
	membership, supplement := decimal.Zero, decimal.Zero
	for _, e := range events {
		switch e.Category {
		case CategoryMembership:
			membership = membership.Add(e.Amount)
		case CategorySupplement:
			supplement = supplement.Add(e.Amount)
		}
	}
	return []ChartBin{
		{Label: "Membership", Value: membership},
		{Label: "Supplement", Value: supplement},
	}
}

// weekdayBins returns seven bins, one per weekday, ending with today's.
// Events are bucketed by weekday, so the partial day a week ago shares
// today's bin.
func weekdayBins(events []SaleEvent, now time.Time) []ChartBin {
	bins := make([]ChartBin, 7)
	slot := make(map[time.Weekday]int, 7)
	for i := 0; i < 7; i++ {
		d := now.AddDate(0, 0, i-6)
		bins[i] = ChartBin{Label: d.Weekday().String()[:3], Value: decimal.Zero}
		slot[d.Weekday()] = i
	}
	for _, e := range events {
		i := slot[e.Date.In(now.Location()).Weekday()]
		bins[i].Value = bins[i].Value.Add(e.Amount)
	}
	return bins
}

// dayOfMonthBins returns one bin per day of now's month.
func dayOfMonthBins(events []SaleEvent, now time.Time) []ChartBin {
	days := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	bins := make([]ChartBin, days)
	for i := range bins {
		bins[i] = ChartBin{Label: strconv.Itoa(i + 1), Value: decimal.Zero}
	}
	for _, e := range events {
		local := e.Date.In(now.Location())
		if local.Year() != now.Year() || local.Month() != now.Month() {
			continue
		}
		bins[local.Day()-1].Value = bins[local.Day()-1].Value.Add(e.Amount)
	}
	return bins
}

func dateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func monthKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// observedBins creates a bin for every key that has at least one event,
// in chronological order.
func observedBins(events []SaleEvent, loc *time.Location, key func(time.Time) time.Time, layout string) []ChartBin {
	sums := make(map[time.Time]decimal.Decimal)
	for _, e := range events {
		k := key(e.Date.In(loc))
		sums[k] = sums[k].Add(e.Amount)
	}

	keys := make([]time.Time, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b time.Time) int { return a.Compare(b) })

	bins := make([]ChartBin, 0, len(keys))
	for _, k := range keys {
		bins = append(bins, ChartBin{Label: k.Format(layout), Value: sums[k]})
	}
	return bins
}

package ledger

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"
)

// SaleCSV is one row of the sales export.
type SaleCSV struct {
	Date        string `csv:"date"`
	Member      string `csv:"member"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
}

// WriteCSV writes events as CSV with a header row. Dates are rendered in loc.
// An empty slice still produces the header.
func WriteCSV(w io.Writer, events []SaleEvent, loc *time.Location) error {
	records := make([]*SaleCSV, 0, len(events))
	for _, e := range events {
		records = append(records, &SaleCSV{
			Date:        e.Date.In(loc).Format("2006-01-02 15:04"),
			Member:      e.MemberName,
			Category:    string(e.Category),
			Description: e.Description,
			Amount:      e.Amount.StringFixed(2),
		})
	}
	return gocsv.Marshal(records, w)
}

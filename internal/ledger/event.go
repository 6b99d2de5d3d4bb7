// Package ledger turns member billing histories into dated sale events and
// aggregates them into financial reports. Everything here is a pure function
// over snapshots; nothing is cached between calls.
package ledger

import (
	"slices"
	"time"

	"alcyxob/gymledger/internal/domain"

	"github.com/shopspring/decimal"
)

// Category splits revenue into membership fees and retail sales.
type Category string

const (
	CategoryMembership Category = "MEMBERSHIP"
	CategorySupplement Category = "SUPPLEMENT"
)

// Categories in reporting order.
var Categories = []Category{CategoryMembership, CategorySupplement}

// DefaultMembershipDescription describes payments recorded without a label.
const DefaultMembershipDescription = "Membership Fee"

// SaleEvent is a normalized monetary record derived from a payment or a
// supplement purchase.
type SaleEvent struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	MemberName  string          `json:"memberName"`
}

// Extract flattens the payment and supplement histories of members into sale
// events, most recent first. Events with equal dates keep their input order.
func Extract(members []domain.Member) []SaleEvent {
	size := 0
	for _, m := range members {
		size += len(m.PaymentHistory) + len(m.SupplementHistory)
	}

	events := make([]SaleEvent, 0, size)
	for _, m := range members {
		for _, p := range m.PaymentHistory {
			description := p.RecordedBy
			if description == "" {
				description = DefaultMembershipDescription
			}
			events = append(events, SaleEvent{
				ID:          p.ID,
				Date:        p.Date,
				Amount:      p.Amount,
				Category:    CategoryMembership,
				Description: description,
				MemberName:  m.Name,
			})
		}
		for _, s := range m.SupplementHistory {
			events = append(events, SaleEvent{
				ID:          s.ID,
				Date:        s.PurchaseDate,
				Amount:      s.Price,
				Category:    CategorySupplement,
				Description: s.ProductName,
				MemberName:  m.Name,
			})
		}
	}

	slices.SortStableFunc(events, func(a, b SaleEvent) int {
		return b.Date.Compare(a.Date)
	})
	return events
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod records how a payment was collected.
type PaymentMethod string

const (
	PaymentOnline  PaymentMethod = "ONLINE"
	PaymentOffline PaymentMethod = "OFFLINE"
)

// Goal is the fitness goal a member signed up with.
type Goal string

const (
	GoalWeightLoss          Goal = "WEIGHT_LOSS"
	GoalMuscleGain          Goal = "MUSCLE_GAIN"
	GoalMaintenance         Goal = "MAINTENANCE"
	GoalFlexibility         Goal = "FLEXIBILITY"
	GoalAthleticPerformance Goal = "ATHLETIC_PERFORMANCE"
)

// Labels used as PaymentRecord.RecordedBy.
const (
	LabelInitialJoiningFee = "Initial Joining Fee"
)

// ExtensionLabel is the provenance label of a payment produced by an extension.
func ExtensionLabel(days int) string {
	return fmt.Sprintf("Extension Renewal (%d Days)", days)
}

// PaymentRecord is a single membership payment. Immutable once appended.
type PaymentRecord struct {
	ID         string          `bson:"id" json:"id"`
	Date       time.Time       `bson:"date" json:"date"`
	Amount     decimal.Decimal `bson:"amount" json:"amount"`
	Method     PaymentMethod   `bson:"method" json:"method"`
	RecordedBy string          `bson:"recordedBy" json:"recordedBy"`
}

// Supplement is a retail purchase billed to a member. Immutable once appended.
type Supplement struct {
	ID           string          `bson:"id" json:"id"`
	ProductName  string          `bson:"productName" json:"productName"`
	PurchaseDate time.Time       `bson:"purchaseDate" json:"purchaseDate"`
	EndDate      *time.Time      `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Price        decimal.Decimal `bson:"price" json:"price"`
}

// PhotoKind names one of the member photo slots.
type PhotoKind string

const (
	PhotoProfile PhotoKind = "profile"
	PhotoBefore  PhotoKind = "before"
	PhotoAfter   PhotoKind = "after"
	PhotoIDProof PhotoKind = "id_proof"
)

// PhotoKinds lists every photo slot in display order.
var PhotoKinds = []PhotoKind{PhotoProfile, PhotoBefore, PhotoAfter, PhotoIDProof}

// IsValid reports whether k is a known photo slot.
func (k PhotoKind) IsValid() bool {
	for _, known := range PhotoKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Photos holds object storage keys, one per slot. Empty means not uploaded.
type Photos struct {
	Profile string `bson:"profile,omitempty" json:"profile,omitempty"`
	Before  string `bson:"before,omitempty" json:"before,omitempty"`
	After   string `bson:"after,omitempty" json:"after,omitempty"`
	IDProof string `bson:"idProof,omitempty" json:"idProof,omitempty"`
}

// Key returns the object key stored for the given slot.
func (p Photos) Key(kind PhotoKind) string {
	switch kind {
	case PhotoProfile:
		return p.Profile
	case PhotoBefore:
		return p.Before
	case PhotoAfter:
		return p.After
	case PhotoIDProof:
		return p.IDProof
	}
	return ""
}

// WithKey returns a copy of p with the slot set to key.
func (p Photos) WithKey(kind PhotoKind, key string) Photos {
	switch kind {
	case PhotoProfile:
		p.Profile = key
	case PhotoBefore:
		p.Before = key
	case PhotoAfter:
		p.After = key
	case PhotoIDProof:
		p.IDProof = key
	}
	return p
}

// Member is a gym member together with its full billing history.
// Version is incremented by the store on every successful update.
type Member struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GymID            string             `bson:"gymId" json:"gymId"`
	Name             string             `bson:"name" json:"name"`
	Phone            string             `bson:"phone" json:"phone"`
	Age              int                `bson:"age" json:"age"`
	JoinDate         time.Time          `bson:"joinDate" json:"joinDate"`
	PlanDurationDays int                `bson:"planDurationDays" json:"planDurationDays"`
	ExpiryDate       time.Time          `bson:"expiryDate" json:"expiryDate"`
	AmountPaid       decimal.Decimal    `bson:"amountPaid" json:"amountPaid"`

	Height                  string        `bson:"height,omitempty" json:"height,omitempty"`
	Weight                  string        `bson:"weight,omitempty" json:"weight,omitempty"`
	Address                 string        `bson:"address,omitempty" json:"address,omitempty"`
	Goal                    Goal          `bson:"goal,omitempty" json:"goal,omitempty"`
	RegistrationPaymentMode PaymentMethod `bson:"registrationPaymentMode,omitempty" json:"registrationPaymentMode,omitempty"`
	Photos                  Photos        `bson:"photos" json:"photos"`

	Username     string `bson:"username" json:"username"`
	PasswordHash string `bson:"passwordHash" json:"-"`
	IsActive     bool   `bson:"isActive" json:"isActive"`
	Notes        string `bson:"notes,omitempty" json:"notes,omitempty"`

	PaymentHistory    []PaymentRecord `bson:"paymentHistory" json:"paymentHistory"`
	SupplementHistory []Supplement    `bson:"supplementHistory" json:"supplementHistory"`

	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Status classifies the membership relative to now.
func (m Member) Status(now time.Time) MembershipStatus {
	return ClassifyStatus(m.ExpiryDate, now)
}

// DaysLeft is the rounded-up number of days until expiry, never below zero.
func (m Member) DaysLeft(now time.Time) int {
	return max(DaysBetween(now, m.ExpiryDate), 0)
}

// DaysActive is the rounded-up number of days since the member joined.
func (m Member) DaysActive(now time.Time) int {
	return max(DaysBetween(m.JoinDate, now), 0)
}

// NewMemberParams carries the data a manager enters when registering a member.
type NewMemberParams struct {
	GymID            string
	Name             string
	Phone            string
	Age              int
	Username         string
	PlanDurationDays int
	AmountPaid       decimal.Decimal
	PaymentMethod    PaymentMethod
	Height           string
	Weight           string
	Address          string
	Goal             Goal
	Notes            string
}

// MaxPlanDays bounds plan durations and single extensions.
const MaxPlanDays = 36500

// NewMember builds a member whose plan starts at now and whose first payment
// is the joining fee. The password hash is left for the caller to set.
func NewMember(p NewMemberParams, now time.Time) (Member, error) {
	if p.PlanDurationDays <= 0 || p.PlanDurationDays > MaxPlanDays {
		return Member{}, ErrInvalidPlanDuration
	}
	if p.AmountPaid.IsNegative() {
		return Member{}, ErrInvalidAmount
	}
	if strings.TrimSpace(p.Name) == "" || p.GymID == "" {
		return Member{}, ErrMissingMemberFields
	}
	method := p.PaymentMethod
	if method != PaymentOnline {
		method = PaymentOffline
	}
	username := p.Username
	if username == "" {
		username = DefaultUsername(p.Name)
	}

	return Member{
		GymID:                   p.GymID,
		Name:                    p.Name,
		Phone:                   p.Phone,
		Age:                     p.Age,
		JoinDate:                now,
		PlanDurationDays:        p.PlanDurationDays,
		ExpiryDate:              now.AddDate(0, 0, p.PlanDurationDays),
		AmountPaid:              p.AmountPaid,
		Height:                  p.Height,
		Weight:                  p.Weight,
		Address:                 p.Address,
		Goal:                    p.Goal,
		RegistrationPaymentMode: method,
		Username:                username,
		IsActive:                true,
		Notes:                   p.Notes,
		PaymentHistory: []PaymentRecord{{
			ID:         uuid.NewString(),
			Date:       now,
			Amount:     p.AmountPaid,
			Method:     method,
			RecordedBy: LabelInitialJoiningFee,
		}},
		SupplementHistory: []Supplement{},
	}, nil
}

// DefaultUsername derives a login name from a display name.
func DefaultUsername(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// ExtendPlan returns a copy of m whose expiry is pushed forward by days and
// whose payment history carries the payment that funded the extension.
//
// The new expiry is anchored on the later of now and the current expiry, so an
// expired membership restarts from now and an active one stacks on its balance.
// Days are calendar days in the location of the base instant, matching
// NewMember. A zero-day extension only records the payment.
func ExtendPlan(m Member, days int, amount decimal.Decimal, now time.Time) (Member, error) {
	if days < 0 || days > MaxPlanDays {
		return Member{}, ErrInvalidDuration
	}
	if amount.IsNegative() {
		return Member{}, ErrInvalidAmount
	}

	next := m.clone()
	if days > 0 {
		base := m.ExpiryDate
		if now.After(base) {
			base = now
		}
		next.ExpiryDate = base.AddDate(0, 0, days)
	}
	next.IsActive = true
	next.PaymentHistory = append(next.PaymentHistory, PaymentRecord{
		ID:         uuid.NewString(),
		Date:       now,
		Amount:     amount,
		Method:     PaymentOffline,
		RecordedBy: ExtensionLabel(days),
	})
	return next, nil
}

// BillSupplement returns a copy of m with a supplement purchase appended.
func BillSupplement(m Member, productName string, price decimal.Decimal, endDate *time.Time, now time.Time) (Member, error) {
	if strings.TrimSpace(productName) == "" {
		return Member{}, ErrMissingProductName
	}
	if price.IsNegative() {
		return Member{}, ErrInvalidAmount
	}

	next := m.clone()
	next.SupplementHistory = append(next.SupplementHistory, Supplement{
		ID:           uuid.NewString(),
		ProductName:  productName,
		PurchaseDate: now,
		EndDate:      endDate,
		Price:        price,
	})
	return next, nil
}

// clone copies m so that appending to the histories of the copy never
// writes into the backing arrays of the original.
func (m Member) clone() Member {
	c := m
	c.PaymentHistory = append(make([]PaymentRecord, 0, len(m.PaymentHistory)+1), m.PaymentHistory...)
	c.SupplementHistory = append(make([]Supplement, 0, len(m.SupplementHistory)+1), m.SupplementHistory...)
	return c
}

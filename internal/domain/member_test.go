package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func sampleMember(expiry time.Time) Member {
	return Member{
		GymID:      "GYM001",
		Name:       "John Doe",
		ExpiryDate: expiry,
		PaymentHistory: []PaymentRecord{
			{ID: "p1", Date: testNow.AddDate(0, 0, -25), Amount: decimal.NewFromInt(50), Method: PaymentOnline, RecordedBy: LabelInitialJoiningFee},
		},
		SupplementHistory: []Supplement{},
	}
}

func TestExtendPlan_ExpiredMemberAnchorsOnNow(t *testing.T) {
	m := sampleMember(testNow.AddDate(0, 0, -10))
	m.IsActive = false

	got, err := ExtendPlan(m, 30, decimal.Zero, testNow)
	require.NoError(t, err)

	assert.Equal(t, testNow.AddDate(0, 0, 30), got.ExpiryDate)
	assert.True(t, got.IsActive)
}

func TestExtendPlan_ActiveMemberStacks(t *testing.T) {
	expiry := testNow.AddDate(0, 0, 3)
	m := sampleMember(expiry)

	got, err := ExtendPlan(m, 30, decimal.NewFromInt(45), testNow)
	require.NoError(t, err)

	assert.Equal(t, expiry.AddDate(0, 0, 30), got.ExpiryDate)
	require.Len(t, got.PaymentHistory, 2)
	last := got.PaymentHistory[1]
	assert.True(t, decimal.NewFromInt(45).Equal(last.Amount))
	assert.Equal(t, testNow, last.Date)
	assert.Equal(t, PaymentOffline, last.Method)
	assert.Equal(t, "Extension Renewal (30 Days)", last.RecordedBy)
	assert.NotEmpty(t, last.ID)
}

func TestExtendPlan_DoesNotMutateInput(t *testing.T) {
	m := sampleMember(testNow.AddDate(0, 0, 3))
	m.PaymentHistory = append(make([]PaymentRecord, 0, 10), m.PaymentHistory...)

	_, err := ExtendPlan(m, 30, decimal.NewFromInt(10), testNow)
	require.NoError(t, err)

	assert.Len(t, m.PaymentHistory, 1)
	assert.Equal(t, testNow.AddDate(0, 0, 3), m.ExpiryDate)
	assert.Empty(t, m.PaymentHistory[:cap(m.PaymentHistory)][1].ID)
}

func TestExtendPlan_NegativeDays(t *testing.T) {
	_, err := ExtendPlan(sampleMember(testNow), -1, decimal.Zero, testNow)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestExtendPlan_DayBounds(t *testing.T) {
	m := sampleMember(testNow.AddDate(0, 0, 10))

	got, err := ExtendPlan(m, MaxPlanDays, decimal.Zero, testNow)
	require.NoError(t, err)
	assert.Equal(t, m.ExpiryDate.AddDate(0, 0, MaxPlanDays), got.ExpiryDate)
	assert.True(t, got.ExpiryDate.After(m.ExpiryDate))

	for _, days := range []int{MaxPlanDays + 1, 106752, 200000, 1000000} {
		_, err := ExtendPlan(m, days, decimal.Zero, testNow)
		assert.ErrorIs(t, err, ErrInvalidDuration, "days=%d", days)
	}
}

func TestExtendPlan_CalendarDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, ny)
	m := sampleMember(now)

	got, err := ExtendPlan(m, 30, decimal.Zero, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 31, 9, 0, 0, 0, ny), got.ExpiryDate)

	fresh, err := NewMember(NewMemberParams{GymID: "g", Name: "Asha", PlanDurationDays: 30}, now)
	require.NoError(t, err)
	assert.Equal(t, fresh.ExpiryDate, got.ExpiryDate)
}

func TestExtendPlan_NegativeAmount(t *testing.T) {
	_, err := ExtendPlan(sampleMember(testNow), 30, decimal.NewFromInt(-1), testNow)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestExtendPlan_Laws(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		offsetDays := rapid.IntRange(-400, 400).Draw(t, "expiryOffsetDays")
		days := rapid.IntRange(0, MaxPlanDays).Draw(t, "days")
		cents := rapid.Int64Range(0, 1_000_000).Draw(t, "cents")

		m := sampleMember(testNow.AddDate(0, 0, offsetDays))
		got, err := ExtendPlan(m, days, decimal.New(cents, -2), testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.ExpiryDate.Before(m.ExpiryDate) {
			t.Fatalf("expiry moved backwards: %v -> %v", m.ExpiryDate, got.ExpiryDate)
		}
		if days == 0 && !got.ExpiryDate.Equal(m.ExpiryDate) {
			t.Fatalf("zero-day extension changed expiry: %v -> %v", m.ExpiryDate, got.ExpiryDate)
		}
		if len(got.PaymentHistory) != len(m.PaymentHistory)+1 {
			t.Fatalf("expected one appended payment, got %d", len(got.PaymentHistory))
		}
		if !got.IsActive {
			t.Fatalf("extension must reactivate the member")
		}
	})
}

func TestBillSupplement(t *testing.T) {
	m := sampleMember(testNow)
	end := testNow.AddDate(0, 1, 0)

	got, err := BillSupplement(m, "Whey Protein", decimal.NewFromInt(30), &end, testNow)
	require.NoError(t, err)
	require.Len(t, got.SupplementHistory, 1)
	assert.Equal(t, "Whey Protein", got.SupplementHistory[0].ProductName)
	assert.Equal(t, testNow, got.SupplementHistory[0].PurchaseDate)
	assert.Equal(t, &end, got.SupplementHistory[0].EndDate)
	assert.Empty(t, m.SupplementHistory)

	_, err = BillSupplement(m, " ", decimal.NewFromInt(30), nil, testNow)
	assert.ErrorIs(t, err, ErrMissingProductName)

	_, err = BillSupplement(m, "Creatine", decimal.NewFromInt(-5), nil, testNow)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestNewMember(t *testing.T) {
	m, err := NewMember(NewMemberParams{
		GymID:            "GYM001",
		Name:             "Jane  Roe",
		PlanDurationDays: 30,
		AmountPaid:       decimal.NewFromInt(50),
		PaymentMethod:    PaymentOnline,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "janeroe", m.Username)
	assert.Equal(t, testNow.AddDate(0, 0, 30), m.ExpiryDate)
	assert.True(t, m.IsActive)
	require.Len(t, m.PaymentHistory, 1)
	assert.Equal(t, LabelInitialJoiningFee, m.PaymentHistory[0].RecordedBy)
	assert.Equal(t, PaymentOnline, m.PaymentHistory[0].Method)
	assert.NotNil(t, m.SupplementHistory)

	_, err = NewMember(NewMemberParams{GymID: "GYM001", Name: "X", PlanDurationDays: 0}, testNow)
	assert.ErrorIs(t, err, ErrInvalidPlanDuration)

	_, err = NewMember(NewMemberParams{GymID: "GYM001", Name: "X", PlanDurationDays: MaxPlanDays + 1}, testNow)
	assert.ErrorIs(t, err, ErrInvalidPlanDuration)

	_, err = NewMember(NewMemberParams{GymID: "GYM001", PlanDurationDays: 30}, testNow)
	assert.ErrorIs(t, err, ErrMissingMemberFields)
}

func TestPhotos_WithKey(t *testing.T) {
	var p Photos
	p = p.WithKey(PhotoIDProof, "k1")
	assert.Equal(t, "k1", p.Key(PhotoIDProof))
	assert.Empty(t, p.Key(PhotoProfile))
	assert.False(t, PhotoKind("selfie").IsValid())
}

func TestPrincipal(t *testing.T) {
	assert.True(t, SuperAdmin().Valid())
	assert.False(t, Principal{Role: RoleManager}.Valid())
	assert.True(t, Manager("GYM001").ManagesGym("GYM001"))
	assert.False(t, Manager("GYM001").ManagesGym("GYM002"))
	assert.False(t, MemberOf("GYM001", "m1").ManagesGym("GYM001"))
}

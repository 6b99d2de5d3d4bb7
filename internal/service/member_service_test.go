package service

import (
	"context"
	"errors"
	"testing"

	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/messaging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestMemberService_Register(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	view, err := f.memberSvc.Register(ctx, testGym, RegisterMemberInput{
		NewMemberParams: domain.NewMemberParams{
			Name:             "Asha Rao",
			Phone:            "9876500001",
			PlanDurationDays: 30,
			AmountPaid:       decimal.NewFromInt(1500),
			PaymentMethod:    domain.PaymentOnline,
		},
		Password: "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, testGym, view.GymID)
	assert.Equal(t, "asharao", view.Username)
	assert.Equal(t, testNow.AddDate(0, 0, 30), view.ExpiryDate)
	assert.Equal(t, domain.StatusActive, view.Status)
	assert.Equal(t, 30, view.DaysLeft)
	require.Len(t, view.PaymentHistory, 1)
	assert.Equal(t, domain.LabelInitialJoiningFee, view.PaymentHistory[0].RecordedBy)
	assert.Equal(t, domain.PaymentOnline, view.PaymentHistory[0].Method)

	stored, err := f.members.GetByID(ctx, testGym, view.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestMemberService_RegisterValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	base := domain.NewMemberParams{Name: "Asha", PlanDurationDays: 30, AmountPaid: decimal.NewFromInt(10)}

	_, err := f.memberSvc.Register(ctx, testGym, RegisterMemberInput{NewMemberParams: base})
	assert.ErrorIs(t, err, ErrPasswordRequired)

	bad := base
	bad.PlanDurationDays = 0
	_, err = f.memberSvc.Register(ctx, testGym, RegisterMemberInput{NewMemberParams: bad, Password: "pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidPlanDuration)

	_, err = f.memberSvc.Register(ctx, testGym, RegisterMemberInput{NewMemberParams: base, Password: "pass"})
	require.NoError(t, err)
	_, err = f.memberSvc.Register(ctx, testGym, RegisterMemberInput{NewMemberParams: base, Password: "pass"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestMemberService_ListFiltersAndSearch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	active := f.seedMember(t, "Ravi Kumar", testNow.AddDate(0, 0, -10), 60, 100)
	expiring := f.seedMember(t, "Meena", testNow.AddDate(0, 0, -27), 30, 100)
	expired := f.seedMember(t, "Arjun", testNow.AddDate(0, 0, -40), 30, 100)

	ids := func(views []MemberView) []primitive.ObjectID {
		out := make([]primitive.ObjectID, 0, len(views))
		for _, v := range views {
			out = append(out, v.ID)
		}
		return out
	}

	tests := []struct {
		name  string
		query MemberQuery
		want  []primitive.ObjectID
	}{
		{"all", MemberQuery{}, []primitive.ObjectID{active.ID, expiring.ID, expired.ID}},
		{"active includes expiring soon", MemberQuery{Status: FilterActive}, []primitive.ObjectID{active.ID, expiring.ID}},
		{"expiring soon", MemberQuery{Status: FilterExpiringSoon}, []primitive.ObjectID{expiring.ID}},
		{"expired", MemberQuery{Status: FilterExpired}, []primitive.ObjectID{expired.ID}},
		{"name search is case insensitive", MemberQuery{Search: "kUMar"}, []primitive.ObjectID{active.ID}},
		{"phone search", MemberQuery{Search: "98765A"}, []primitive.ObjectID{expired.ID}},
		{"search and status combine", MemberQuery{Search: "a", Status: FilterExpired}, []primitive.ObjectID{expired.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.memberSvc.List(ctx, testGym, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestParseStatusFilter(t *testing.T) {
	got, err := ParseStatusFilter("expiring_soon")
	require.NoError(t, err)
	assert.Equal(t, FilterExpiringSoon, got)

	got, err = ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, got)

	_, err = ParseStatusFilter("LAPSED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMemberService_ExtendPlan(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	t.Run("active membership stacks on current expiry", func(t *testing.T) {
		m := f.seedMember(t, "Stack", testNow.AddDate(0, 0, -10), 30, 100)
		view, err := f.memberSvc.ExtendPlan(ctx, testGym, m.ID, 30, decimal.NewFromInt(1200))
		require.NoError(t, err)

		assert.Equal(t, m.ExpiryDate.AddDate(0, 0, 30), view.ExpiryDate)
		require.Len(t, view.PaymentHistory, 2)
		assert.Equal(t, "Extension Renewal (30 Days)", view.PaymentHistory[1].RecordedBy)
		assert.True(t, view.PaymentHistory[1].Amount.Equal(decimal.NewFromInt(1200)))
		assert.Equal(t, int64(2), view.Version)
	})

	t.Run("expired membership restarts from now", func(t *testing.T) {
		m := f.seedMember(t, "Restart", testNow.AddDate(0, 0, -90), 30, 100)
		view, err := f.memberSvc.ExtendPlan(ctx, testGym, m.ID, 15, decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.Equal(t, testNow.AddDate(0, 0, 15), view.ExpiryDate)
		assert.Equal(t, domain.StatusActive, view.Status)
	})

	t.Run("validation errors leave the record untouched", func(t *testing.T) {
		m := f.seedMember(t, "Untouched", testNow, 30, 100)
		_, err := f.memberSvc.ExtendPlan(ctx, testGym, m.ID, -1, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
		_, err = f.memberSvc.ExtendPlan(ctx, testGym, m.ID, 10, decimal.NewFromInt(-10))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)

		stored, err := f.members.GetByID(ctx, testGym, m.ID)
		require.NoError(t, err)
		assert.Len(t, stored.PaymentHistory, 1)
		assert.Equal(t, int64(1), stored.Version)
	})

	t.Run("unknown member and other gym are not found", func(t *testing.T) {
		_, err := f.memberSvc.ExtendPlan(ctx, testGym, primitive.NewObjectID(), 10, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ErrMemberNotFound)

		m := f.seedMember(t, "Scoped", testNow, 30, 100)
		_, err = f.memberSvc.ExtendPlan(ctx, "other-gym", m.ID, 10, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestMemberService_ExtendPlanRetriesOnConflict(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	m := f.seedMember(t, "Racer", testNow.AddDate(0, 0, -5), 30, 100)

	// A concurrent supplement sale lands between our read and our write.
	conflicts := 1
	f.members.BeforeUpdate = func(next *domain.Member) {
		if conflicts == 0 {
			return
		}
		conflicts--
		current, err := f.members.GetByID(ctx, testGym, next.ID)
		require.NoError(t, err)
		sold, err := domain.BillSupplement(*current, "Whey", decimal.NewFromInt(40), nil, testNow)
		require.NoError(t, err)
		sold.Version++
		f.members.Put(ctx, sold.ID.Hex(), &sold)
	}

	view, err := f.memberSvc.ExtendPlan(ctx, testGym, m.ID, 30, decimal.NewFromInt(900))
	require.NoError(t, err)

	assert.Len(t, view.PaymentHistory, 2, "extension recorded exactly once")
	assert.Len(t, view.SupplementHistory, 1, "concurrent sale preserved")
	assert.Equal(t, m.ExpiryDate.AddDate(0, 0, 30), view.ExpiryDate)
}

func TestMemberService_ExtendPlanGivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	m := f.seedMember(t, "Loser", testNow, 30, 100)

	f.members.BeforeUpdate = func(next *domain.Member) { f.members.Bump(next.ID) }

	_, err := f.memberSvc.ExtendPlan(ctx, testGym, m.ID, 30, decimal.NewFromInt(900))
	assert.ErrorIs(t, err, ErrConcurrentUpdate)

	f.members.BeforeUpdate = nil
	stored, err := f.members.GetByID(ctx, testGym, m.ID)
	require.NoError(t, err)
	assert.Len(t, stored.PaymentHistory, 1)
	assert.Equal(t, m.ExpiryDate, stored.ExpiryDate)
}

func TestMemberService_BillSupplement(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	m := f.seedMember(t, "Buyer", testNow, 30, 100)

	end := testNow.AddDate(0, 1, 0)
	view, err := f.memberSvc.BillSupplement(ctx, testGym, m.ID, SupplementInput{
		ProductName: "  Creatine ",
		Price:       decimal.RequireFromString("24.50"),
		EndDate:     &end,
	})
	require.NoError(t, err)
	require.Len(t, view.SupplementHistory, 1)
	s := view.SupplementHistory[0]
	assert.Equal(t, "Creatine", s.ProductName)
	assert.Equal(t, testNow, s.PurchaseDate)
	assert.Equal(t, &end, s.EndDate)
	assert.Equal(t, m.ExpiryDate, view.ExpiryDate, "billing never moves expiry")

	_, err = f.memberSvc.BillSupplement(ctx, testGym, m.ID, SupplementInput{ProductName: " ", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrMissingProductName)
}

func TestMemberService_UpdateProfile(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	m := f.seedMember(t, "Old Name", testNow, 30, 100)
	f.seedMember(t, "Taken", testNow, 30, 100)

	name, username, password := "New Name", "NewUser", "changed"
	view, err := f.memberSvc.UpdateProfile(ctx, testGym, m.ID, UpdateMemberInput{
		Name:     &name,
		Username: &username,
		Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", view.Name)
	assert.Equal(t, "newuser", view.Username)
	assert.Equal(t, m.Phone, view.Phone, "nil fields unchanged")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(view.PasswordHash), []byte("changed")))

	taken := "taken"
	_, err = f.memberSvc.UpdateProfile(ctx, testGym, m.ID, UpdateMemberInput{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	short := "abc"
	_, err = f.memberSvc.UpdateProfile(ctx, testGym, m.ID, UpdateMemberInput{Password: &short})
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestMemberService_DashboardStats(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.seedMember(t, "Active", testNow.AddDate(0, 0, -1), 60, 100)
	soon := f.seedMember(t, "Soon", testNow.AddDate(0, 0, -27), 30, 100)
	gone := f.seedMember(t, "Gone", testNow.AddDate(0, 0, -45), 30, 100)

	stats, err := f.memberSvc.DashboardStats(ctx, testGym)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.ExpiringSoon)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, stats.Total, stats.Active+stats.ExpiringSoon+stats.Expired)
	require.Len(t, stats.UrgentAlerts, 2)
	assert.Equal(t, gone.ID, stats.UrgentAlerts[0].ID)
	assert.Equal(t, soon.ID, stats.UrgentAlerts[1].ID)
}

func TestMemberService_DraftMessage(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("Renew now! 💪", nil).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()

	f := newFixture(t, gen)
	ctx := context.Background()
	m := f.seedMember(t, "Texted", testNow, 30, 100)

	text, err := f.memberSvc.DraftMessage(ctx, testGym, m.ID, messaging.MessageReminder)
	require.NoError(t, err)
	assert.Equal(t, "Renew now! 💪", text)

	text, err = f.memberSvc.DraftMessage(ctx, testGym, m.ID, messaging.MessageOffer)
	require.NoError(t, err)
	assert.Equal(t, messaging.FallbackMemberMessage, text)

	_, err = f.memberSvc.DraftMessage(ctx, testGym, primitive.NewObjectID(), messaging.MessageWelcome)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	gen.AssertExpectations(t)
}

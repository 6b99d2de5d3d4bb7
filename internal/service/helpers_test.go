package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/gymledger/internal/clock"
	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/messaging"
	"alcyxob/gymledger/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testGym = "iron-temple"

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type fixture struct {
	members  *testutil.InMemoryMemberStore
	gyms     *testutil.InMemoryGymStore
	settings *testutil.InMemorySettingsStore
	files    *testutil.FakeStorage
	clock    clock.Fixed

	memberSvc MemberService
	gymSvc    GymService
	photoSvc  PhotoService
	reportSvc ReportService
	portalSvc PortalService
}

func newFixture(t *testing.T, gen messaging.TextGenerator) *fixture {
	t.Helper()

	f := &fixture{
		members:  testutil.NewInMemoryMemberStore(),
		gyms:     testutil.NewInMemoryGymStore(),
		settings: testutil.NewInMemorySettingsStore(),
		files:    testutil.NewFakeStorage(),
		clock:    clock.Fixed(testNow),
	}
	log := zap.NewNop()
	policy := RetryPolicy{MaxRetries: 3, InitialInterval: time.Millisecond}
	messenger := messaging.NewMessenger(gen, log)

	f.memberSvc = NewMemberService(f.members, messenger, f.clock, policy, log)
	f.gymSvc = NewGymService(f.gyms, f.members, f.settings, f.clock, log)
	f.photoSvc = NewPhotoService(f.members, f.files, f.clock, policy, time.Minute, log)
	f.reportSvc = NewReportService(f.members, f.clock, log)
	f.portalSvc = NewPortalService(f.members, f.gymSvc, f.photoSvc, messenger, f.clock, log)

	require.NoError(t, f.gyms.Create(context.Background(), &domain.Gym{ID: testGym, Name: "Iron Temple"}))
	return f
}

// seedMember stores a member that joined planDays before expiry.
func (f *fixture) seedMember(t *testing.T, name string, joined time.Time, planDays int, paid int64) *domain.Member {
	t.Helper()
	m, err := domain.NewMember(domain.NewMemberParams{
		GymID:            testGym,
		Name:             name,
		Phone:            "98765" + name[:1],
		PlanDurationDays: planDays,
		AmountPaid:       decimal.NewFromInt(paid),
	}, joined)
	require.NoError(t, err)
	_, err = f.members.Create(context.Background(), &m)
	require.NoError(t, err)
	return &m
}

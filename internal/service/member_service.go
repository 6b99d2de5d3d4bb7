package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"alcyxob/gymledger/internal/clock"
	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/messaging"
	"alcyxob/gymledger/internal/metrics"
	"alcyxob/gymledger/internal/repository"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// StatusFilter narrows a member listing. ACTIVE includes members that are
// expiring soon, since their plan is still running.
type StatusFilter string

const (
	FilterAll          StatusFilter = "ALL"
	FilterActive       StatusFilter = "ACTIVE"
	FilterExpiringSoon StatusFilter = "EXPIRING_SOON"
	FilterExpired      StatusFilter = "EXPIRED"
)

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToUpper(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterExpiringSoon, FilterExpired:
		return f, nil
	}
	return "", ErrInvalidStatus
}

func (f StatusFilter) matches(s domain.MembershipStatus) bool {
	switch f {
	case FilterActive:
		return s == domain.StatusActive || s == domain.StatusExpiringSoon
	case FilterExpiringSoon:
		return s == domain.StatusExpiringSoon
	case FilterExpired:
		return s == domain.StatusExpired
	}
	return true
}

// MemberQuery filters a member listing. Search matches a case-insensitive
// substring of the name or the phone number.
type MemberQuery struct {
	Search string
	Status StatusFilter
}

// MemberView is a member together with its standing at the time of the request.
type MemberView struct {
	domain.Member
	Status   domain.MembershipStatus `json:"status"`
	DaysLeft int                     `json:"daysLeft"`
}

func newMemberView(m domain.Member, now time.Time) MemberView {
	return MemberView{Member: m, Status: m.Status(now), DaysLeft: m.DaysLeft(now)}
}

// RegisterMemberInput is the registration form. Password is required.
type RegisterMemberInput struct {
	domain.NewMemberParams
	Password string
}

// UpdateMemberInput holds profile changes; nil fields are left untouched.
// Billing fields are changed only through ExtendPlan and BillSupplement.
type UpdateMemberInput struct {
	Name     *string
	Phone    *string
	Age      *int
	Username *string
	Password *string
	Height   *string
	Weight   *string
	Address  *string
	Goal     *domain.Goal
	Notes    *string
}

type SupplementInput struct {
	ProductName string
	Price       decimal.Decimal
	EndDate     *time.Time
}

// DashboardStats summarizes the members of a gym. The three status counts
// partition Total.
type DashboardStats struct {
	Total        int          `json:"total"`
	Active       int          `json:"active"`
	ExpiringSoon int          `json:"expiringSoon"`
	Expired      int          `json:"expired"`
	UrgentAlerts []MemberView `json:"urgentAlerts"`
}

type MemberService interface {
	Register(ctx context.Context, gymID string, in RegisterMemberInput) (*MemberView, error)
	Get(ctx context.Context, gymID string, id primitive.ObjectID) (*MemberView, error)
	List(ctx context.Context, gymID string, q MemberQuery) ([]MemberView, error)
	UpdateProfile(ctx context.Context, gymID string, id primitive.ObjectID, in UpdateMemberInput) (*MemberView, error)
	ExtendPlan(ctx context.Context, gymID string, id primitive.ObjectID, days int, amount decimal.Decimal) (*MemberView, error)
	BillSupplement(ctx context.Context, gymID string, id primitive.ObjectID, in SupplementInput) (*MemberView, error)
	DashboardStats(ctx context.Context, gymID string) (*DashboardStats, error)
	DraftMessage(ctx context.Context, gymID string, id primitive.ObjectID, kind messaging.MessageType) (string, error)
}

type memberService struct {
	members   repository.MemberRepository
	updater   *memberUpdater
	messenger *messaging.Messenger
	clock     clock.Clock
	log       *zap.Logger
}

func NewMemberService(
	members repository.MemberRepository,
	messenger *messaging.Messenger,
	clk clock.Clock,
	policy RetryPolicy,
	log *zap.Logger,
) MemberService {
	log = log.Named("member.service")
	return &memberService{
		members:   members,
		updater:   &memberUpdater{members: members, clock: clk, policy: policy, log: log},
		messenger: messenger,
		clock:     clk,
		log:       log,
	}
}

func (s *memberService) Register(ctx context.Context, gymID string, in RegisterMemberInput) (*MemberView, error) {
	in.GymID = gymID
	in.Username = domain.DefaultUsername(in.Username)

	now := s.clock.Now()
	member, err := domain.NewMember(in.NewMemberParams, now)
	if err != nil {
		return nil, err
	}
	member.PasswordHash, err = hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	if _, err := s.members.Create(ctx, &member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	metrics.RecordMemberRegistered(member.AmountPaid.InexactFloat64())
	s.log.Info("member registered",
		zap.String("gym_id", gymID),
		zap.String("member_id", member.ID.Hex()),
		zap.Int("plan_days", member.PlanDurationDays))

	view := newMemberView(member, now)
	return &view, nil
}

func (s *memberService) Get(ctx context.Context, gymID string, id primitive.ObjectID) (*MemberView, error) {
	m, err := s.members.GetByID(ctx, gymID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	view := newMemberView(*m, s.clock.Now())
	return &view, nil
}

func (s *memberService) List(ctx context.Context, gymID string, q MemberQuery) ([]MemberView, error) {
	if q.Status == "" {
		q.Status = FilterAll
	}
	members, err := s.members.ListByGym(ctx, gymID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	search := strings.ToLower(strings.TrimSpace(q.Search))

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		if search != "" && !strings.Contains(strings.ToLower(m.Name), search) && !strings.Contains(strings.ToLower(m.Phone), search) {
			continue
		}
		v := newMemberView(m, now)
		if !q.Status.matches(v.Status) {
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *memberService) UpdateProfile(ctx context.Context, gymID string, id primitive.ObjectID, in UpdateMemberInput) (*MemberView, error) {
	var passwordHash string
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.ErrMissingMemberFields
	}

	updated, err := s.updater.apply(ctx, gymID, id, func(m domain.Member, _ time.Time) (domain.Member, error) {
		setIf(&m.Name, in.Name)
		setIf(&m.Phone, in.Phone)
		setIf(&m.Age, in.Age)
		setIf(&m.Height, in.Height)
		setIf(&m.Weight, in.Weight)
		setIf(&m.Address, in.Address)
		setIf(&m.Goal, in.Goal)
		setIf(&m.Notes, in.Notes)
		if in.Username != nil {
			if u := domain.DefaultUsername(*in.Username); u != "" {
				m.Username = u
			}
		}
		if passwordHash != "" {
			m.PasswordHash = passwordHash
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	view := newMemberView(*updated, s.clock.Now())
	return &view, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ExtendPlan records a paid extension and pushes the expiry forward.
func (s *memberService) ExtendPlan(ctx context.Context, gymID string, id primitive.ObjectID, days int, amount decimal.Decimal) (*MemberView, error) {
	var now time.Time
	updated, err := s.updater.apply(ctx, gymID, id, func(m domain.Member, at time.Time) (domain.Member, error) {
		now = at
		return domain.ExtendPlan(m, days, amount, at)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPlanExtension(amount.InexactFloat64())
	s.log.Info("plan extended",
		zap.String("gym_id", gymID),
		zap.String("member_id", id.Hex()),
		zap.Int("days", days),
		zap.String("amount", amount.String()),
		zap.Time("expiry", updated.ExpiryDate))

	view := newMemberView(*updated, now)
	return &view, nil
}

func (s *memberService) BillSupplement(ctx context.Context, gymID string, id primitive.ObjectID, in SupplementInput) (*MemberView, error) {
	product := strings.TrimSpace(in.ProductName)
	var now time.Time
	updated, err := s.updater.apply(ctx, gymID, id, func(m domain.Member, at time.Time) (domain.Member, error) {
		now = at
		return domain.BillSupplement(m, product, in.Price, in.EndDate, at)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSupplementSale(product, in.Price.InexactFloat64())
	s.log.Info("supplement billed",
		zap.String("gym_id", gymID),
		zap.String("member_id", id.Hex()),
		zap.String("product", product),
		zap.String("price", in.Price.String()))

	view := newMemberView(*updated, now)
	return &view, nil
}

// DashboardStats counts members per status. Urgent alerts list expired and
// expiring members, soonest expiry first.
func (s *memberService) DashboardStats(ctx context.Context, gymID string) (*DashboardStats, error) {
	members, err := s.members.ListByGym(ctx, gymID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := lo.Map(members, func(m domain.Member, _ int) MemberView { return newMemberView(m, now) })
	counts := lo.CountValuesBy(views, func(v MemberView) domain.MembershipStatus { return v.Status })

	urgent := lo.Filter(views, func(v MemberView, _ int) bool { return v.Status != domain.StatusActive })
	slices.SortStableFunc(urgent, func(a, b MemberView) int { return a.ExpiryDate.Compare(b.ExpiryDate) })

	return &DashboardStats{
		Total:        len(views),
		Active:       counts[domain.StatusActive],
		ExpiringSoon: counts[domain.StatusExpiringSoon],
		Expired:      counts[domain.StatusExpired],
		UrgentAlerts: urgent,
	}, nil
}

// DraftMessage asks the message generator for a text addressed to a member.
// Generation problems yield a fixed fallback text, never an error.
func (s *memberService) DraftMessage(ctx context.Context, gymID string, id primitive.ObjectID, kind messaging.MessageType) (string, error) {
	m, err := s.members.GetByID(ctx, gymID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrMemberNotFound
		}
		return "", err
	}
	now := s.clock.Now()
	return s.messenger.MemberMessage(ctx, m.Name, m.ExpiryDate.In(now.Location()), kind), nil
}

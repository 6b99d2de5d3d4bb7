package service

import (
	"context"
	"errors"
	"slices"

	"alcyxob/gymledger/internal/clock"
	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/messaging"
	"alcyxob/gymledger/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MemberOverview is what a member sees about their own membership.
type MemberOverview struct {
	Member      MemberView          `json:"member"`
	DaysActive  int                 `json:"daysActive"`
	Supplements []domain.Supplement `json:"supplements"`
	GymName     string              `json:"gymName"`
	Terms       string              `json:"terms"`
	WorkoutTip  string              `json:"workoutTip"`
	PhotoURLs   PhotoURLs           `json:"photoUrls"`
}

type PortalService interface {
	Overview(ctx context.Context, principal domain.Principal) (*MemberOverview, error)
}

type portalService struct {
	members   repository.MemberRepository
	gyms      GymService
	photos    PhotoService
	messenger *messaging.Messenger
	clock     clock.Clock
	log       *zap.Logger
}

func NewPortalService(
	members repository.MemberRepository,
	gyms GymService,
	photos PhotoService,
	messenger *messaging.Messenger,
	clk clock.Clock,
	log *zap.Logger,
) PortalService {
	return &portalService{
		members:   members,
		gyms:      gyms,
		photos:    photos,
		messenger: messenger,
		clock:     clk,
		log:       log.Named("portal.service"),
	}
}

func (s *portalService) Overview(ctx context.Context, principal domain.Principal) (*MemberOverview, error) {
	if principal.Role != domain.RoleMember || !principal.Valid() {
		return nil, ErrForbidden
	}
	id, err := primitive.ObjectIDFromHex(principal.MemberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	m, err := s.members.GetByID(ctx, principal.GymID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	now := s.clock.Now()
	overview := &MemberOverview{
		Member:     newMemberView(*m, now),
		DaysActive: m.DaysActive(now),
	}

	overview.Supplements = slices.Clone(m.SupplementHistory)
	slices.SortStableFunc(overview.Supplements, func(a, b domain.Supplement) int {
		return b.PurchaseDate.Compare(a.PurchaseDate)
	})

	// A gym without stored settings still has defaults; a deleted gym has none.
	settings, err := s.gyms.GetSettings(ctx, principal.GymID)
	switch {
	case err == nil:
		overview.GymName = settings.GymName
		overview.Terms = settings.TermsAndConditions
	case errors.Is(err, ErrGymNotFound):
		overview.Terms = domain.DefaultTerms
	default:
		return nil, err
	}

	overview.PhotoURLs, err = s.photos.DownloadURLs(ctx, m.Photos)
	if err != nil {
		s.log.Warn("failed to presign member photos", zap.String("member_id", principal.MemberID), zap.Error(err))
		overview.PhotoURLs = PhotoURLs{}
	}

	overview.WorkoutTip = s.messenger.WorkoutTip(ctx, overview.DaysActive)
	return overview, nil
}

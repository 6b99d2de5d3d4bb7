package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/gymledger/internal/clock"
	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/metrics"
	"alcyxob/gymledger/internal/repository"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RetryPolicy bounds the read-modify-write loop on member records.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
}

// memberUpdater applies pure transitions to stored members. Each attempt
// reads the current record, applies the transition at the current instant
// and writes it back conditionally on the version it read. A write that
// lost the race is retried from a fresh read, so no transition is ever
// applied on top of a stale snapshot or lost.
type memberUpdater struct {
	members repository.MemberRepository
	clock   clock.Clock
	policy  RetryPolicy
	log     *zap.Logger
}

type memberTransition func(m domain.Member, now time.Time) (domain.Member, error)

func (u *memberUpdater) apply(ctx context.Context, gymID string, id primitive.ObjectID, fn memberTransition) (*domain.Member, error) {
	var result *domain.Member
	attempt := 0

	op := func() error {
		attempt++
		current, err := u.members.GetByID(ctx, gymID, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return backoff.Permanent(ErrMemberNotFound)
			}
			return backoff.Permanent(err)
		}

		next, err := fn(*current, u.clock.Now())
		if err != nil {
			return backoff.Permanent(err)
		}

		err = u.members.Update(ctx, &next)
		switch {
		case err == nil:
			result = &next
			return nil
		case errors.Is(err, repository.ErrVersionConflict):
			metrics.RecordUpdateConflict()
			u.log.Debug("member update conflict, retrying",
				zap.String("member_id", id.Hex()),
				zap.Int("attempt", attempt))
			return err
		case errors.Is(err, repository.ErrNotFound):
			return backoff.Permanent(ErrMemberNotFound)
		case errors.Is(err, repository.ErrDuplicate):
			return backoff.Permanent(ErrUsernameTaken)
		}
		return backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	if u.policy.InitialInterval > 0 {
		b.InitialInterval = u.policy.InitialInterval
	}
	retries := u.policy.MaxRetries
	if retries < 0 {
		retries = 0
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx))
	if errors.Is(err, repository.ErrVersionConflict) {
		u.log.Warn("giving up on member update after repeated conflicts",
			zap.String("member_id", id.Hex()),
			zap.Int("attempts", attempt))
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

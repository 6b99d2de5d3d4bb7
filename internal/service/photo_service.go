package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/gymledger/internal/clock"
	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/repository"
	"alcyxob/gymledger/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PhotoUpload is a presigned PUT URL together with the key to confirm afterwards.
type PhotoUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PhotoURLs maps each uploaded photo slot to a presigned download URL.
type PhotoURLs map[domain.PhotoKind]string

type PhotoService interface {
	RequestUpload(ctx context.Context, gymID string, memberID primitive.ObjectID, kind domain.PhotoKind, contentType string) (*PhotoUpload, error)
	// ConfirmUpload stores key in the member's slot once the object exists.
	// The object previously stored in that slot is removed.
	ConfirmUpload(ctx context.Context, gymID string, memberID primitive.ObjectID, kind domain.PhotoKind, key string) (*domain.Member, error)
	DownloadURLs(ctx context.Context, photos domain.Photos) (PhotoURLs, error)
}

type photoService struct {
	members repository.MemberRepository
	files   storage.FileStorage
	updater *memberUpdater
	expiry  time.Duration
	log     *zap.Logger
}

func NewPhotoService(
	members repository.MemberRepository,
	files storage.FileStorage,
	clk clock.Clock,
	policy RetryPolicy,
	expiry time.Duration,
	log *zap.Logger,
) PhotoService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	log = log.Named("photo.service")
	return &photoService{
		members: members,
		files:   files,
		updater: &memberUpdater{members: members, clock: clk, policy: policy, log: log},
		expiry:  expiry,
		log:     log,
	}
}

func (s *photoService) RequestUpload(ctx context.Context, gymID string, memberID primitive.ObjectID, kind domain.PhotoKind, contentType string) (*PhotoUpload, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidPhotoKind
	}
	if _, err := s.members.GetByID(ctx, gymID, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	key, err := storage.NewPhotoKey(gymID, memberID.Hex(), kind, contentType)
	if err != nil {
		return nil, err
	}
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		s.log.Error("failed to presign photo upload", zap.String("object_key", key), zap.Error(err))
		return nil, err
	}
	return &PhotoUpload{UploadURL: url, ObjectKey: key, ExpiresAt: s.updater.clock.Now().Add(s.expiry)}, nil
}

func (s *photoService) ConfirmUpload(ctx context.Context, gymID string, memberID primitive.ObjectID, kind domain.PhotoKind, key string) (*domain.Member, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidPhotoKind
	}
	if !storage.OwnsPhotoKey(gymID, memberID.Hex(), kind, key) {
		return nil, ErrInvalidPhotoKey
	}
	exists, err := s.files.ObjectExists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPhotoNotUploaded
	}

	var previous string
	updated, err := s.updater.apply(ctx, gymID, memberID, func(m domain.Member, _ time.Time) (domain.Member, error) {
		previous = m.Photos.Key(kind)
		m.Photos = m.Photos.WithKey(kind, key)
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	if previous != "" && previous != key {
		if err := s.files.DeleteObject(ctx, previous); err != nil {
			s.log.Warn("failed to delete replaced photo", zap.String("object_key", previous), zap.Error(err))
		}
	}
	return updated, nil
}

func (s *photoService) DownloadURLs(ctx context.Context, photos domain.Photos) (PhotoURLs, error) {
	urls := make(PhotoURLs)
	for _, kind := range domain.PhotoKinds {
		key := photos.Key(kind)
		if key == "" {
			continue
		}
		url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.expiry)
		if err != nil {
			return nil, err
		}
		urls[kind] = url
	}
	return urls, nil
}

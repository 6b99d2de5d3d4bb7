package service

import (
	"errors"
	"fmt"

	"alcyxob/gymledger/internal/repository"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid credentials")
	ErrInvalidRole          = errors.New("role must be SUPER_ADMIN, MANAGER or MEMBER")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrForbidden            = errors.New("not allowed for this account")

	ErrGymNotFound     = fmt.Errorf("gym: %w", repository.ErrNotFound)
	ErrGymExists       = errors.New("a gym with this id already exists")
	ErrMissingGymField = errors.New("gym id and name are required")

	// ErrMemberNotFound also covers members that exist in another gym.
	ErrMemberNotFound   = fmt.Errorf("member: %w", repository.ErrNotFound)
	ErrUsernameTaken    = errors.New("username already taken in this gym")
	ErrPasswordRequired = errors.New("password must be at least 4 characters")
	ErrInvalidStatus    = errors.New("status filter must be ALL, ACTIVE, EXPIRING_SOON or EXPIRED")
	ErrConcurrentUpdate = errors.New("member was modified concurrently, please retry")
	ErrInvalidPhotoKind = errors.New("photo kind must be profile, before, after or id_proof")
	ErrInvalidPhotoKey  = errors.New("photo key was not issued for this member")
	ErrPhotoNotUploaded = errors.New("photo has not been uploaded yet")
)

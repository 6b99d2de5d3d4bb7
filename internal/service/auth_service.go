package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/gymledger/internal/config"
	"alcyxob/gymledger/internal/domain"
	"alcyxob/gymledger/internal/metrics"
	"alcyxob/gymledger/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 4

// LoginRequest carries the credentials of one of the three login forms.
// GymID is ignored for SUPER_ADMIN, Username for MANAGER.
type LoginRequest struct {
	Role     domain.Role
	GymID    string
	Username string
	Password string
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (token string, principal domain.Principal, err error)
	ParseToken(token string) (domain.Principal, error)
}

// authService implements the AuthService interface.
type authService struct {
	gymRepo       repository.GymRepository
	memberRepo    repository.MemberRepository
	admin         config.AdminConfig
	jwtSecret     string
	jwtExpiration time.Duration
	log           *zap.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	gymRepo repository.GymRepository,
	memberRepo repository.MemberRepository,
	admin config.AdminConfig,
	jwtCfg config.JWTConfig,
	log *zap.Logger,
) AuthService {
	if jwtCfg.Secret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtCfg.Expiration <= 0 {
		jwtCfg.Expiration = 12 * time.Hour
	}
	return &authService{
		gymRepo:       gymRepo,
		memberRepo:    memberRepo,
		admin:         admin,
		jwtSecret:     jwtCfg.Secret,
		jwtExpiration: jwtCfg.Expiration,
		log:           log.Named("auth.service"),
	}
}

// Login authenticates against the credential store of the requested role
// and issues a token carrying the resulting principal.
func (s *authService) Login(ctx context.Context, req LoginRequest) (string, domain.Principal, error) {
	principal, err := s.authenticate(ctx, req)
	if err != nil {
		metrics.RecordLogin(string(req.Role), "failure")
		if errors.Is(err, ErrAuthenticationFailed) || errors.Is(err, ErrInvalidRole) {
			s.log.Info("login rejected", zap.String("role", string(req.Role)), zap.String("gym_id", req.GymID))
		}
		return "", domain.Principal{}, err
	}

	token, err := s.generateJWT(principal)
	if err != nil {
		s.log.Error("failed to sign token", zap.Error(err))
		return "", domain.Principal{}, ErrTokenGeneration
	}

	metrics.RecordLogin(string(req.Role), "success")
	return token, principal, nil
}

func (s *authService) authenticate(ctx context.Context, req LoginRequest) (domain.Principal, error) {
	if req.Password == "" {
		return domain.Principal{}, ErrAuthenticationFailed
	}

	switch req.Role {
	case domain.RoleSuperAdmin:
		if s.admin.Password == "" ||
			subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.admin.Username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.Password)) != 1 {
			return domain.Principal{}, ErrAuthenticationFailed
		}
		return domain.SuperAdmin(), nil

	case domain.RoleManager:
		gym, err := s.gymRepo.GetByID(ctx, strings.TrimSpace(req.GymID))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Principal{}, ErrAuthenticationFailed
			}
			return domain.Principal{}, err
		}
		if bcrypt.CompareHashAndPassword([]byte(gym.ManagerPasswordHash), []byte(req.Password)) != nil {
			return domain.Principal{}, ErrAuthenticationFailed
		}
		return domain.Manager(gym.ID), nil

	case domain.RoleMember:
		gymID := strings.TrimSpace(req.GymID)
		member, err := s.memberRepo.GetByUsername(ctx, gymID, strings.ToLower(strings.TrimSpace(req.Username)))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Principal{}, ErrAuthenticationFailed
			}
			return domain.Principal{}, err
		}
		// Only the member's own password is accepted.
		if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)) != nil {
			return domain.Principal{}, ErrAuthenticationFailed
		}
		return domain.MemberOf(member.GymID, member.ID.Hex()), nil
	}

	return domain.Principal{}, ErrInvalidRole
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	Role     domain.Role `json:"role"`
	GymID    string      `json:"gid,omitempty"`
	MemberID string      `json:"mid,omitempty"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(p domain.Principal) (string, error) {
	now := time.Now()
	subject := string(p.Role)
	if p.MemberID != "" {
		subject = p.MemberID
	} else if p.GymID != "" {
		subject = p.GymID
	}

	claims := &jwtClaims{
		Role:     p.Role,
		GymID:    p.GymID,
		MemberID: p.MemberID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "gymledger",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken validates a signed token and returns the principal it carries.
func (s *authService) ParseToken(tokenString string) (domain.Principal, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	p := domain.Principal{Role: claims.Role, GymID: claims.GymID, MemberID: claims.MemberID}
	if !p.Valid() {
		return domain.Principal{}, ErrInvalidToken
	}
	return p, nil
}

// hashPassword enforces the minimum length and hashes with bcrypt.
func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrPasswordRequired
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

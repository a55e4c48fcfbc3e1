package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"certificados/internal/models"
	"certificados/pkg/config"
	appErrors "certificados/pkg/errors"
)

// Denylist records revoked session ids until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// AuthService issues and validates admin session tokens. There is one
// shared administrator credential; each successful login still gets its
// own session id so logout can revoke exactly that session.
type AuthService struct {
	cfg       config.SecurityConfig
	denylist  Denylist
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(cfg config.SecurityConfig, denylist Denylist, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if denylist == nil {
		denylist = NewMemoryDenylist()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{cfg: cfg, denylist: denylist, validator: validate, logger: logger, now: time.Now}
}

// Login verifies the shared secret and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "password is required")
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.AdminPassword)) != 1 {
		s.logger.Warn("admin login rejected")
		return nil, appErrors.ErrInvalidCredentials
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.cfg.SessionTTL)
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	s.logger.Info("admin session issued", zap.String("session_id", claims.ID), zap.Time("expires_at", expiresAt))
	return &models.LoginResponse{
		SessionToken: token,
		ExpiresIn:    int64(s.cfg.SessionTTL.Seconds()),
		IssuedAt:     issuedAt,
	}, nil
}

// Logout revokes the presented session until it would have expired.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke session")
	}
	s.logger.Info("admin session revoked", zap.String("session_id", claims.ID))
	return nil
}

// ValidateToken checks signature, expiry, and the revocation denylist.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.SessionClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check session state")
	}
	if revoked {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session revoked")
	}
	return claims, nil
}

func (s *AuthService) parse(token string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
	}
	return claims, nil
}

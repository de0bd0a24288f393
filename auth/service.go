package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/princinho/storefront/apperr"
	"github.com/princinho/storefront/config"
	"github.com/princinho/storefront/dto"
	"github.com/princinho/storefront/logger"
	"github.com/princinho/storefront/models"
	"github.com/princinho/storefront/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type Store interface {
	CreateUser(ctx context.Context, u models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	InsertRefreshToken(ctx context.Context, rt models.RefreshToken) error
	FindActiveRefreshToken(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, hash string, now time.Time, replacedBy *string) error
}

// Session is what a successful sign-up, sign-in or refresh hands back.
type Session struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	User         models.User
}

type Service struct {
	store Store
	cfg   config.JWTConfig
	now   func() time.Time
}

func NewService(store Store, cfg config.JWTConfig) *Service {
	return &Service{store: store, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, body dto.RegisterUserDTO) (*Session, error) {
	body.Email = normalizeEmail(body.Email)
	if err := dto.Validate(body); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return nil, apperr.Upstream("failed to hash password", err)
	}

	now := s.now()
	user := models.User{
		ID:           bson.NewObjectID(),
		Email:        body.Email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.store.CreateUser(ctx, user)
	if errors.Is(err, models.ErrDuplicate) {
		return nil, apperr.New(apperr.Conflict, "email already registered")
	}
	if err != nil {
		logger.Error("[SignUp] error store.CreateUser", zap.Error(err))
		return nil, apperr.Upstream("failed to create account", err)
	}
	return s.issue(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, body dto.LoginDTO) (*Session, error) {
	body.Email = normalizeEmail(body.Email)
	if err := dto.Validate(body); err != nil {
		return nil, err
	}

	user, err := s.store.FindUserByEmail(ctx, body.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		logger.Error("[SignIn] error store.FindUserByEmail", zap.Error(err))
		return nil, apperr.Upstream("sign in failed", err)
	}
	if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
		return nil, apperr.NewUnauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperr.NewForbidden("account disabled")
	}
	return s.issue(ctx, *user)
}

// Refresh rotates the refresh token. The presented token is revoked before
// the new session is stored, and only the caller whose revoke matched gets a
// session, so a token can be exchanged once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperr.NewUnauthorized("missing refresh token")
	}
	if _, err := utils.ValidateToken(refreshToken, s.cfg.RefreshSecret, utils.TokenTypeRefresh); err != nil {
		return nil, apperr.Wrap(apperr.Unauthorized, "invalid refresh token", err)
	}

	now := s.now()
	hash := utils.HashToken(refreshToken)
	rt, err := s.store.FindActiveRefreshToken(ctx, hash, now)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NewUnauthorized("invalid refresh token")
	}
	if err != nil {
		return nil, apperr.Upstream("failed to refresh session", err)
	}

	user, err := s.store.FindUserByID(ctx, rt.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NewUnauthorized("invalid user")
	}
	if err != nil {
		return nil, apperr.Upstream("failed to refresh session", err)
	}
	if !user.IsActive {
		return nil, apperr.NewForbidden("account disabled")
	}

	session, err := s.mint(*user)
	if err != nil {
		return nil, err
	}
	replacedBy := utils.HashToken(session.RefreshToken)
	err = s.store.RevokeRefreshToken(ctx, hash, now, &replacedBy)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NewUnauthorized("invalid refresh token")
	}
	if err != nil {
		return nil, apperr.Upstream("failed to revoke refresh token", err)
	}
	if err := s.persist(ctx, *user, session.RefreshToken); err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut revokes the refresh token if there is one. It never fails the
// caller.
func (s *Service) SignOut(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	err := s.store.RevokeRefreshToken(ctx, utils.HashToken(refreshToken), s.now(), nil)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		logger.Warn("[SignOut] revoke failed", zap.Error(err))
	}
}

// Verify checks an access token and returns its subject (the user id).
func (s *Service) Verify(_ context.Context, token string) (string, error) {
	claims, err := s.Identify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *Service) Identify(token string) (*utils.Claims, error) {
	claims, err := utils.ValidateToken(token, s.cfg.Secret, utils.TokenTypeAccess)
	if err != nil {
		return nil, apperr.Wrap(apperr.Forbidden, "invalid or expired token", err)
	}
	return claims, nil
}

func (s *Service) issue(ctx context.Context, user models.User) (*Session, error) {
	session, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, user, session.RefreshToken); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) mint(user models.User) (*Session, error) {
	access, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, s.cfg.AccessTTL, s.cfg.Secret)
	if err != nil {
		return nil, apperr.Upstream("failed to generate access token", err)
	}
	refresh, err := utils.GenerateRefreshToken(user.ID.Hex(), s.cfg.RefreshTTL, s.cfg.RefreshSecret)
	if err != nil {
		return nil, apperr.Upstream("failed to generate refresh token", err)
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    s.cfg.AccessTTL,
		RefreshTTL:   s.cfg.RefreshTTL,
		User:         user,
	}, nil
}

func (s *Service) persist(ctx context.Context, user models.User, refresh string) error {
	now := s.now()
	err := s.store.InsertRefreshToken(ctx, models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(refresh),
		ExpiresAt: now.Add(s.cfg.RefreshTTL),
		CreatedAt: now,
	})
	if err != nil {
		logger.Error("[persist] error store.InsertRefreshToken", zap.Error(err))
		return apperr.Upstream("failed to store refresh token", err)
	}
	return nil
}

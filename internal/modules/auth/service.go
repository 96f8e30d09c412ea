package auth

import (
	"context"
	"errors"

	"github.com/mist-space/auth-core/internal/models"
	"github.com/mist-space/auth-core/internal/modules/user"
	jwtpkg "github.com/mist-space/auth-core/internal/pkg/jwt"
)

// UserStore is the persistence collaborator: user records and the one-way
// password check.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, name, email, password string) (*models.User, error)
	VerifyPassword(submitted, storedHash string) bool
}

// SessionStore holds the currently valid refresh token per user and device.
type SessionStore interface {
	Put(ctx context.Context, userID, token, deviceID string) error
	Get(ctx context.Context, userID, deviceID string) (string, error)
	DeleteAll(ctx context.Context, userID string) error
}

// TokenIssuer mints and verifies the token pair.
type TokenIssuer interface {
	IssuePair(userID string) (jwtpkg.TokenPair, error)
	IssueAccess(userID string) (string, error)
	ParseRefresh(token string) (*jwtpkg.Claims, error)
}

// Service coordinates the signup, login, logout and refresh flows across the
// user store, the session store and the token issuer.
type Service struct {
	users    UserStore
	sessions SessionStore
	issuer   TokenIssuer
}

func NewService(users UserStore, sessions SessionStore, issuer TokenIssuer) *Service {
	return &Service{users: users, sessions: sessions, issuer: issuer}
}

// Signup creates the user, mints a token pair and persists the refresh token
// under the device session.
func (s *Service) Signup(ctx context.Context, dto *SignupDTO, deviceID string) (models.PublicUser, jwtpkg.TokenPair, error) {
	existing, err := s.users.FindByEmail(ctx, dto.Email)
	if err != nil {
		return models.PublicUser{}, jwtpkg.TokenPair{}, err
	}
	if existing != nil {
		return models.PublicUser{}, jwtpkg.TokenPair{}, errUserExists
	}

	u, err := s.users.Create(ctx, dto.Name, dto.Email, dto.Password)
	if errors.Is(err, user.ErrDuplicate) {
		// Lost the race against a concurrent signup for the same email.
		return models.PublicUser{}, jwtpkg.TokenPair{}, errUserExists
	}
	if err != nil {
		return models.PublicUser{}, jwtpkg.TokenPair{}, err
	}

	return s.authenticate(ctx, u, deviceID)
}

// Login verifies credentials and rotates the device session. Unknown email
// and wrong password return the same error.
func (s *Service) Login(ctx context.Context, dto *LoginDTO, deviceID string) (models.PublicUser, jwtpkg.TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, dto.Email)
	if err != nil {
		return models.PublicUser{}, jwtpkg.TokenPair{}, err
	}
	if u == nil {
		return models.PublicUser{}, jwtpkg.TokenPair{}, errInvalidCredentials
	}
	if !s.users.VerifyPassword(dto.Password, u.Password) {
		return models.PublicUser{}, jwtpkg.TokenPair{}, errInvalidCredentials
	}

	return s.authenticate(ctx, u, deviceID)
}

func (s *Service) authenticate(ctx context.Context, u *models.User, deviceID string) (models.PublicUser, jwtpkg.TokenPair, error) {
	pair, err := s.issuer.IssuePair(u.ID.Hex())
	if err != nil {
		return models.PublicUser{}, jwtpkg.TokenPair{}, err
	}
	if err := s.sessions.Put(ctx, u.ID.Hex(), pair.RefreshToken, deviceID); err != nil {
		return models.PublicUser{}, jwtpkg.TokenPair{}, err
	}
	return u.Public(), pair, nil
}

// Logout invalidates every session for the user the refresh token belongs
// to. A missing or unverifiable token is tolerated: sessions that cannot be
// attributed are left alone and the caller still clears cookies.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil
	}
	return s.sessions.DeleteAll(ctx, claims.UserID)
}

// Refresh silently renews the access token. The signature is checked before
// any store lookup; the store entry is then authoritative, so a revoked or
// rotated-away token fails even with a valid signature. The refresh token
// itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken, deviceID string) (string, error) {
	if refreshToken == "" {
		return "", errMissingToken
	}
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return "", errInvalidToken
	}

	stored, err := s.sessions.Get(ctx, claims.UserID, deviceID)
	if err != nil {
		return "", err
	}
	if stored == "" || stored != refreshToken {
		return "", errInvalidToken
	}

	return s.issuer.IssueAccess(claims.UserID)
}

// CurrentUser returns the sanitized projection for an authenticated user id,
// or (zero, false) when the user no longer exists.
func (s *Service) CurrentUser(ctx context.Context, userID string) (models.PublicUser, bool, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.PublicUser{}, false, err
	}
	if u == nil {
		return models.PublicUser{}, false, nil
	}
	return u.Public(), true, nil
}

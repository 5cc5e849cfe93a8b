package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"stockportal/internal/dto"
	"stockportal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSession     = errors.New("session is invalid or expired")
)

// ── Authenticator ────────────────────────────────────────────────────────────

type Credentials struct {
	Username string
	Password string
}

type Principal struct {
	Username string
}

// Authenticator checks a login attempt. Implementations return
// ErrInvalidCredentials for a rejected attempt.
type Authenticator interface {
	Authenticate(ctx context.Context, c Credentials) (*Principal, error)
}

type staticAuthenticator struct {
	username     string
	passwordHash []byte
}

// NewStaticAuthenticator accepts a single configured user whose password is
// stored as a bcrypt hash. An empty hash rejects every attempt.
func NewStaticAuthenticator(username, passwordHash string) Authenticator {
	if passwordHash == "" {
		log.Warn().Msg("no portal password hash configured, every login will be rejected")
	}
	return &staticAuthenticator{username: username, passwordHash: []byte(passwordHash)}
}

func (a *staticAuthenticator) Authenticate(_ context.Context, c Credentials) (*Principal, error) {
	if len(a.passwordHash) == 0 {
		return nil, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(c.Password))
	if !userOK || passErr != nil {
		return nil, ErrInvalidCredentials
	}
	return &Principal{Username: a.username}, nil
}

// ── Sessions ─────────────────────────────────────────────────────────────────

// SessionClaims is the payload of a portal session token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

type SessionService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Validate(ctx context.Context, token string) (*SessionClaims, error)
	Logout(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

type sessionService struct {
	auth   Authenticator
	repo   repository.SessionRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(auth Authenticator, repo repository.SessionRepository, secret string, ttl time.Duration) SessionService {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &sessionService{auth: auth, repo: repo, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *sessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	p, err := s.auth.Authenticate(ctx, Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		return nil, err
	}

	sid := uuid.NewString()
	now := s.now()
	claims := SessionClaims{
		SessionID: sid,
		Username:  p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	if err := s.repo.Save(ctx, sid, p.Username, s.ttl); err != nil {
		return nil, err
	}

	log.Info().Str("username", p.Username).Str("session_id", sid).Msg("session opened")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
		Username:    p.Username,
	}, nil
}

func (s *sessionService) Validate(ctx context.Context, token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return nil, ErrInvalidSession
	}

	username, err := s.repo.Get(ctx, claims.SessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	if username != claims.Username {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	log.Info().Str("session_id", sessionID).Msg("session closed")
	return nil
}

func (s *sessionService) Ping(ctx context.Context) error { return s.repo.Ping(ctx) }

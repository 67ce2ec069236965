package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vrent/config"
	"vrent/shared/timezone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrInvalidClaim   = errors.New("invalid token claim")
	ErrMissingToken   = errors.New("authorization header is required")
	ErrMissingSecret  = errors.New("portal session secret is not configured")
	ErrMalformedToken = errors.New("authorization header must start with 'Bearer '")
)

const (
	bearerPrefix       = "Bearer "
	portalSessionScope = "portal"
)

// SessionClaims identifies the customer behind a portal session.
type SessionClaims struct {
	CustomerID string `json:"customer_id"`
	Scope      string `json:"scope"`
	jwt.RegisteredClaims
}

type Session struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int64     `json:"expires_in"`
}

type JWT interface {
	IssueSession(customerID string) (*Session, error)
	ValidateSession(token string) (*SessionClaims, error)
}

type Service struct {
	config *config.Config
}

func New(cfg *config.Config) JWT {
	return &Service{
		config: cfg,
	}
}

func (s *Service) secret() ([]byte, error) {
	if s.config.Portal.SessionSecret == "" {
		return nil, ErrMissingSecret
	}

	return []byte(s.config.Portal.SessionSecret), nil
}

// IssueSession signs a session token valid for Portal.SessionExpireMin minutes.
func (s *Service) IssueSession(customerID string) (*Session, error) {
	secret, err := s.secret()
	if err != nil {
		return nil, err
	}

	issuedAt := timezone.Now()
	expireIn := time.Duration(s.config.Portal.SessionExpireMin) * time.Minute
	expiresAt := issuedAt.Add(expireIn)
	tokenID := uuid.NewString()

	claims := SessionClaims{
		CustomerID: customerID,
		Scope:      portalSessionScope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   customerID,
			ID:        tokenID,
		},
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{
		Token:     signedToken,
		TokenType: strings.TrimSpace(bearerPrefix),
		ExpiresAt: expiresAt,
		ExpiresIn: int64(expireIn.Seconds()),
	}, nil
}

func (s *Service) ValidateSession(tokenString string) (*SessionClaims, error) {
	secret, err := s.secret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Scope != portalSessionScope || claims.CustomerID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrMalformedToken
	}

	return authHeader[len(bearerPrefix):], nil
}

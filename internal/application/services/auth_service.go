package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/api/internal/infrastructure/config"
	"github.com/taskboard/api/internal/infrastructure/logger"
)

// Credential verification errors. Each maps to a distinct 401 message at the
// gateway layer.
var (
	ErrMissingToken = errors.New("authorization token is required")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims represents the JWT claims carried by the session cookie
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies the stateless session credential and owns
// password hashing. Tokens are never stored server-side; they expire or are
// invalidated by secret rotation only.
type AuthService struct {
	jwtConfig config.JWTConfig
	logger    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

// IssueToken produces a signed, time-limited credential bound to userID
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}

// VerifyCookie extracts the token from a Cookie header and validates it.
// The header is parsed into name=value sections separated by ';'; the section
// named "token" carries the credential.
func (s *AuthService) VerifyCookie(cookieHeader string) error {
	token := extractToken(cookieHeader)
	if token == "" {
		return ErrMissingToken
	}

	_, err := s.ValidateToken(token)
	return err
}

// ValidateToken verifies signature and expiry and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// HashPassword produces a one-way bcrypt hash of the plaintext password
func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext password matches the hash
func (s *AuthService) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func extractToken(cookieHeader string) string {
	if cookieHeader == "" {
		return ""
	}

	for _, section := range strings.Split(cookieHeader, ";") {
		section = strings.TrimSpace(section)
		if value, ok := strings.CutPrefix(section, "token="); ok {
			return value
		}
	}

	return ""
}

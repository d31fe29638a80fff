package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

// Roles carried in session credentials
const (
	RoleCitizen    = "citizen"
	RoleDepartment = "department"
	RoleAdmin      = "admin"
)

// Claims represents JWT claims. Subject is the citizen email or the department code.
type Claims struct {
	Purpose    string `json:"purpose,omitempty"`
	Role       string `json:"role"`
	Department string `json:"dept,omitempty"`
	jwt.RegisteredClaims
}

// Config represents JWT configuration
type Config struct {
	Secret        string
	AccessExpiry  time.Duration
	Issuer        string
	SigningMethod jwt.SigningMethod
}

// DefaultConfig returns default JWT configuration
func DefaultConfig(secret string, expiry time.Duration) *Config {
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &Config{
		Secret:        secret,
		AccessExpiry:  expiry,
		Issuer:        "civic-connect-api",
		SigningMethod: jwt.SigningMethodHS256,
	}
}

// Issuer signs session credentials
type Issuer struct {
	cfg *Config
	now func() time.Time
}

func NewIssuer(cfg *Config) *Issuer {
	return &Issuer{cfg: cfg, now: time.Now}
}

// GenerateToken signs a credential for subject with the given role and purpose
func (i *Issuer) GenerateToken(subject, role, purpose, department string) (string, time.Time, error) {
	if i == nil || i.cfg == nil {
		return "", time.Time{}, errors.New("JWT config is required")
	}

	now := i.now()
	expiresAt := now.Add(i.cfg.AccessExpiry)
	claims := &Claims{
		Purpose:    purpose,
		Role:       role,
		Department: department,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    i.cfg.Issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(i.cfg.SigningMethod, claims)
	signed, err := token.SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses a credential and fails closed with ErrInvalidToken on any
// signature, algorithm, expiry or shape problem.
func (i *Issuer) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(i.cfg.Secret), nil
	}, jwt.WithIssuer(i.cfg.Issuer), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidToken, apperrors.ErrInvalidToken.Message, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

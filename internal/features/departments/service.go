package departments

import (
	"context"
	"fmt"

	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// errInvalidCredentials hides whether the department or the password was wrong
var errInvalidCredentials = apperrors.New(apperrors.KindInvalidToken, "invalid credentials")

type Service struct {
	repo   Store
	issuer *jwt.Issuer
	cost   int
}

func NewService(repo Store, issuer *jwt.Issuer) *Service {
	return &Service{repo: repo, issuer: issuer, cost: bcrypt.DefaultCost}
}

// Signup creates an active department account and signs it in
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d := &Department{
		Name:         req.Name,
		Code:         req.Code,
		Email:        req.Email,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.session(d)
}

// Login checks the password of the department found by code, or by email when code is empty
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var (
		d   *Department
		err error
	)
	if req.Code != "" {
		d, err = s.repo.FindByCode(ctx, req.Code)
	} else {
		d, err = s.repo.FindByEmail(ctx, req.Email)
	}
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !d.Active {
		return nil, apperrors.New(apperrors.KindForbidden, "department account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(req.Password)) != nil {
		return nil, errInvalidCredentials
	}
	return s.session(d)
}

func (s *Service) session(d *Department) (*AuthResponse, error) {
	token, expiresAt, err := s.issuer.GenerateToken(d.Code, jwt.RoleDepartment, "session", d.Code)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{Token: token, ExpiresAt: expiresAt, Department: d.Response()}, nil
}

// Me returns the signed-in department
func (s *Service) Me(ctx context.Context, code string) (*Department, error) {
	return s.repo.FindByCode(ctx, code)
}

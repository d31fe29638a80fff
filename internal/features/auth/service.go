package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xyz-asif/civic-connect/internal/features/users"
	"github.com/xyz-asif/civic-connect/internal/pkg/detached"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	"github.com/xyz-asif/civic-connect/internal/pkg/ratelimit"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

// Options tunes the one-time-code service
type Options struct {
	TTL time.Duration
	// ExposeCode returns the code in the request response; never set in production
	ExposeCode bool
}

// Service issues and verifies one-time codes for citizen login and signup
type Service struct {
	tokens   TokenStore
	accounts users.Store
	codes    CodeSource
	sender   Sender
	issuer   *jwt.Issuer
	limiter  ratelimit.Limiter
	runner   *detached.Runner
	opts     Options
	now      func() time.Time
	log      *logger.Logger
}

func NewService(tokens TokenStore, accounts users.Store, codes CodeSource, sender Sender, issuer *jwt.Issuer,
	limiter ratelimit.Limiter, runner *detached.Runner, opts Options, log *logger.Logger) *Service {
	if codes == nil {
		codes = LocalCodes{}
	}
	if log == nil {
		log = logger.Default().Named("otp")
	}
	if sender == nil {
		sender = LogSender{Log: log}
	}
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Minute
	}
	return &Service{
		tokens:   tokens,
		accounts: accounts,
		codes:    codes,
		sender:   sender,
		issuer:   issuer,
		limiter:  limiter,
		runner:   runner,
		opts:     opts,
		now:      time.Now,
		log:      log,
	}
}

// RequestCode enforces the account rule for purpose, stores a fresh code and
// hands delivery off. Delivery failure never fails the request.
func (s *Service) RequestCode(ctx context.Context, req RequestCodeRequest) (*RequestCodeResponse, error) {
	if s.limiter != nil {
		allowed, _, err := s.limiter.Allow(ctx, "otp:"+req.Target)
		if err != nil {
			s.log.Warn("rate limiter unavailable for %s: %v", req.Target, err)
		} else if !allowed {
			return nil, apperrors.ErrRateLimited
		}
	}

	exists, err := s.accounts.Exists(ctx, req.Target)
	if err != nil {
		return nil, fmt.Errorf("check account: %w", err)
	}
	switch {
	case req.Purpose == PurposeLogin && !exists:
		return nil, apperrors.New(apperrors.KindAccountNotFound, "No account found for this email. Please sign up first.")
	case req.Purpose == PurposeSignup && exists:
		return nil, apperrors.New(apperrors.KindAccountConflict, "Email already registered. Please login instead.")
	}

	code, err := s.codes.Generate(ctx, req.Target, req.Purpose, s.opts.TTL)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	token := &OtpToken{
		Target:    req.Target,
		Channel:   "email",
		Purpose:   req.Purpose,
		Code:      code,
		ExpiresAt: now.Add(s.opts.TTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}

	target, ttl := req.Target, s.opts.TTL
	s.runner.Go("deliver-code:"+target, func(ctx context.Context) error {
		return s.sender.Send(ctx, target, code, ttl)
	})

	resp := &RequestCodeResponse{ExpiresAt: token.ExpiresAt}
	if s.opts.ExposeCode {
		resp.Code = code
	}
	return resp, nil
}

// VerifyCode consumes a live matching code and issues a citizen session.
// Wrong, expired and reused codes all fail the same way.
func (s *Service) VerifyCode(ctx context.Context, req VerifyCodeRequest) (*VerifyCodeResponse, error) {
	if _, err := s.tokens.Consume(ctx, req.Target, req.Purpose, req.Code, s.now().UTC()); err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			return nil, fmt.Errorf("consume code: %w", err)
		}
		return nil, apperrors.ErrInvalidOrExpired
	}

	var user *users.User
	if req.Purpose == PurposeSignup {
		name := req.Name
		if name == "" {
			name = strings.SplitN(req.Target, "@", 2)[0]
		}
		user = &users.User{Name: name, Email: req.Target, Phone: req.Phone}
		if err := s.accounts.Create(ctx, user); err != nil {
			return nil, err
		}
	} else {
		found, err := s.accounts.FindByEmail(ctx, req.Target)
		if err != nil {
			return nil, err
		}
		user = found
	}

	token, expiresAt, err := s.issuer.GenerateToken(req.Target, jwt.RoleCitizen, req.Purpose, "")
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	profile := user.Profile()
	return &VerifyCodeResponse{Token: token, ExpiresAt: expiresAt, User: &profile}, nil
}

// PurgeStale removes consumed and expired codes
func (s *Service) PurgeStale(ctx context.Context) (int64, error) {
	return s.tokens.PurgeStale(ctx, s.now().UTC())
}

package auth

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	"github.com/xyz-asif/civic-connect/internal/pkg/validator"
)

// CodeSource produces the digits of a new one-time code
type CodeSource interface {
	Generate(ctx context.Context, target, purpose string, ttl time.Duration) (string, error)
}

// LocalCodes draws codes from crypto/rand
type LocalCodes struct{}

var codeSpace = big.NewInt(1_000_000)

func (LocalCodes) Generate(context.Context, string, string, time.Duration) (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RemoteCodes asks an external issuer for the code and falls back to local
// generation when the issuer fails or answers with anything but six digits.
type RemoteCodes struct {
	baseURL  string
	client   *http.Client
	fallback CodeSource
	log      *logger.Logger
}

func NewRemoteCodes(baseURL string, timeout time.Duration, log *logger.Logger) *RemoteCodes {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if log == nil {
		log = logger.Default().Named("otp")
	}
	return &RemoteCodes{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		fallback: LocalCodes{},
		log:      log,
	}
}

type generateRequest struct {
	Target     string `json:"target"`
	Purpose    string `json:"purpose"`
	TTLSeconds int    `json:"ttl_seconds"`
}

type generateResponse struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (r *RemoteCodes) Generate(ctx context.Context, target, purpose string, ttl time.Duration) (string, error) {
	code, err := r.fetch(ctx, target, purpose, ttl)
	if err != nil {
		r.log.Warn("code issuer failed, falling back to local code: %v", err)
		return r.fallback.Generate(ctx, target, purpose, ttl)
	}
	return code, nil
}

func (r *RemoteCodes) fetch(ctx context.Context, target, purpose string, ttl time.Duration) (string, error) {
	body, err := json.Marshal(generateRequest{Target: target, Purpose: purpose, TTLSeconds: int(ttl.Seconds())})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode issuer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("issuer returned %d: %s", resp.StatusCode, out.Detail)
	}
	if !validator.IsValidOTPCode(out.Code) {
		return "", fmt.Errorf("issuer returned malformed code")
	}
	return out.Code, nil
}

package grant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-access-gate/internal/domain"
	jwtinfra "github.com/go-access-gate/internal/infrastructure/jwt"
	"github.com/go-access-gate/internal/pkg/id"
)

// Ledger records issued grants and their redemption.
type Ledger interface {
	Put(ctx context.Context, g *domain.Grant) error
	Get(ctx context.Context, grantID string) (*domain.Grant, error)
	MarkRedeemed(ctx context.Context, grantID string, at time.Time) error
}

// Signer turns a grant id into a verifiable token.
type Signer interface {
	SignGrant(grantID, resourceID string, ttl time.Duration) (string, error)
	VerifyGrant(token string) (*jwtinfra.GrantClaims, error)
}

// Presigner hands out short-lived download links for a resource key.
type Presigner interface {
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service interface {
	Issue(ctx context.Context, req domain.GrantRequest) (domain.GrantToken, error)
	Redeem(ctx context.Context, token string) (string, error)
}

type ServiceDeps struct {
	Ledger    Ledger
	Signer    Signer // nil when no keys are configured; Issue then always fails
	Presigner Presigner

	PublicBaseURL string
	GrantTTL      time.Duration // zero means grants never expire
	PresignTTL    time.Duration
	Now           func() time.Time
}

type service struct {
	ledger    Ledger
	signer    Signer
	presigner Presigner
	baseURL   string
	grantTTL  time.Duration
	presign   time.Duration
	now       func() time.Time
}

func NewService(d ServiceDeps) Service {
	s := &service{
		ledger:    d.Ledger,
		signer:    d.Signer,
		presigner: d.Presigner,
		baseURL:   d.PublicBaseURL,
		grantTTL:  d.GrantTTL,
		presign:   d.PresignTTL,
		now:       d.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.presign <= 0 {
		s.presign = 5 * time.Minute
	}
	return s
}

// Issue records a grant and returns the link that redeems it.
func (s *service) Issue(ctx context.Context, req domain.GrantRequest) (domain.GrantToken, error) {
	if s.signer == nil {
		return "", fmt.Errorf("grant signing keys not configured: %w", domain.ErrGrantIssue)
	}
	now := s.now().UTC()
	g := &domain.Grant{
		GrantID:    id.New(),
		ResourceID: req.ResourceID,
		Identity:   string(req.Identity),
		Email:      req.Email,
		SingleUse:  req.SingleUse,
		CreatedAt:  now,
	}
	if s.grantTTL > 0 {
		g.ExpiresAt = now.Add(s.grantTTL).Unix()
	}
	// Sign before storing so a signing failure never leaves an unusable record.
	tok, err := s.signer.SignGrant(g.GrantID, g.ResourceID, s.grantTTL)
	if err != nil {
		return "", fmt.Errorf("sign grant: %v: %w", err, domain.ErrGrantIssue)
	}
	if err := s.ledger.Put(ctx, g); err != nil {
		return "", fmt.Errorf("store grant: %v: %w", err, domain.ErrGrantIssue)
	}
	slog.Info("grant issued", "grant_id", g.GrantID, "resource_id", g.ResourceID, "single_use", g.SingleUse)
	return domain.GrantToken(s.baseURL + "/v1/grants/" + tok), nil
}

// Redeem validates token, consumes single-use grants and returns a presigned
// link to the resource.
func (s *service) Redeem(ctx context.Context, token string) (string, error) {
	if s.signer == nil {
		return "", fmt.Errorf("grant signing keys not configured: %w", domain.ErrUnauthorized)
	}
	claims, err := s.signer.VerifyGrant(token)
	if err != nil {
		return "", fmt.Errorf("verify grant: %v: %w", err, domain.ErrUnauthorized)
	}
	g, err := s.ledger.Get(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if g.SingleUse {
		if g.RedeemedAt != nil {
			return "", fmt.Errorf("grant already redeemed: %w", domain.ErrConflict)
		}
		if err := s.ledger.MarkRedeemed(ctx, g.GrantID, s.now()); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				slog.Warn("grant redeemed twice", "grant_id", g.GrantID)
			}
			return "", err
		}
	}
	url, err := s.presigner.PresignedURL(ctx, g.ResourceID, s.presign)
	if err != nil {
		return "", err
	}
	slog.Info("grant redeemed", "grant_id", g.GrantID)
	return url, nil
}

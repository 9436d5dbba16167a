package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-access-gate/internal/domain"
	"github.com/go-access-gate/internal/pkg/code"
	"github.com/go-access-gate/internal/pkg/emailpolicy"
)

// Mailer delivers the verification code to an address.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// GrantIssuer produces the one-time credential for the restricted resource.
type GrantIssuer interface {
	Issue(ctx context.Context, req domain.GrantRequest) (domain.GrantToken, error)
}

// Escalator notifies a human operator about failures the requester cannot fix.
type Escalator interface {
	Escalate(ctx context.Context, message string) error
}

// SessionStore is the minimal interface the service requires from a session store.
type SessionStore interface {
	Reset(id domain.Identity, now time.Time) domain.Session
	Update(id domain.Identity, fn func(*domain.Session) error) error
}

// Service answers each inbound message with exactly one state transition.
type Service interface {
	Handle(ctx context.Context, msg domain.InboundMessage) []domain.OutboundMessage
}

// ServiceDeps groups the service's collaborators and settings.
type ServiceDeps struct {
	Sessions  SessionStore
	Policy    emailpolicy.Policy
	Codes     code.Generator
	Mailer    Mailer
	Grants    GrantIssuer
	Escalator Escalator // optional

	ResourceID          string
	ResourceName        string
	EscalationContact   string
	CodeTTL             time.Duration
	CollaboratorTimeout time.Duration
	Now                 func() time.Time
}

type service struct {
	sessions  SessionStore
	policy    emailpolicy.Policy
	codes     code.Generator
	mailer    Mailer
	grants    GrantIssuer
	escalator Escalator

	resourceID        string
	resourceName      string
	escalationContact string
	codeTTL           time.Duration
	timeout           time.Duration
	now               func() time.Time
}

func NewService(d ServiceDeps) Service {
	s := &service{
		sessions:          d.Sessions,
		policy:            d.Policy,
		codes:             d.Codes,
		mailer:            d.Mailer,
		grants:            d.Grants,
		escalator:         d.Escalator,
		resourceID:        d.ResourceID,
		resourceName:      d.ResourceName,
		escalationContact: d.EscalationContact,
		codeTTL:           d.CodeTTL,
		timeout:           d.CollaboratorTimeout,
		now:               d.Now,
	}
	if s.codes == nil {
		s.codes = code.NewGenerator()
	}
	if s.codeTTL <= 0 {
		s.codeTTL = 10 * time.Minute
	}
	if s.timeout <= 0 {
		s.timeout = 15 * time.Second
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Handle(ctx context.Context, msg domain.InboundMessage) []domain.OutboundMessage {
	if msg.Start {
		s.sessions.Reset(msg.Identity, s.now())
		slog.Info("verification started", "identity", msg.Identity)
		return replies(s.replyStart())
	}

	var (
		out   []domain.OutboundMessage
		alert string
	)
	err := s.sessions.Update(msg.Identity, func(sess *domain.Session) error {
		out, alert = s.dispatch(ctx, sess, msg.Text)
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return replies(replyNotStarted())
	}
	if err != nil {
		slog.Error("session update failed", "identity", msg.Identity, "err", err)
		return replies(fmt.Sprintf("Something went wrong. Contact %s.", s.escalationContact))
	}
	// Alerts go out after the session lock is released.
	if alert != "" {
		s.escalate(ctx, alert)
	}
	return out
}

// dispatch applies text to sess and returns the replies plus an operator
// alert, empty when nothing needs escalating.
func (s *service) dispatch(ctx context.Context, sess *domain.Session, text string) ([]domain.OutboundMessage, string) {
	switch sess.State {
	case domain.StateAwaitingEmail:
		return s.submitEmail(ctx, sess, text)
	case domain.StateAwaitingCode:
		return s.submitCode(ctx, sess, text)
	default:
		return replies(s.replyAlreadyVerified()), ""
	}
}

func (s *service) submitEmail(ctx context.Context, sess *domain.Session, text string) ([]domain.OutboundMessage, string) {
	email := emailpolicy.Normalize(text)
	if !s.policy.Accepts(email) {
		slog.Info("email rejected", "identity", sess.Identity, "err", domain.ErrPolicyRejected)
		return replies(s.replyRejected()), ""
	}

	c, err := s.codes.Next()
	if err != nil {
		slog.Error("code generation failed", "identity", sess.Identity, "err", err)
		return replies(s.replyMailFailed(err)), ""
	}
	now := s.now()
	if err := sess.AcceptEmail(email, c, now.Add(s.codeTTL), now); err != nil {
		slog.Error("accept email", "identity", sess.Identity, "err", err)
		return replies(s.replyMailFailed(err)), ""
	}

	subject, body := codeEmail(c)
	mctx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.mailer.SendEmail(mctx, email, subject, body)
	cancel()
	if err != nil {
		if rbErr := sess.Rollback(s.now()); rbErr != nil {
			slog.Error("rollback after mail failure", "identity", sess.Identity, "err", rbErr)
		}
		slog.Error("code delivery failed", "identity", sess.Identity, "email", email,
			"err", fmt.Errorf("%w: %w", domain.ErrMailDelivery, err))
		return replies(s.replyMailFailed(err)),
			fmt.Sprintf("Verification email to %s (requester %s) failed: %v", email, sess.Identity, err)
	}

	slog.Info("verification code sent", "identity", sess.Identity, "email", email, "expires_at", sess.ExpiresAt)
	return replies(s.replyCodeSent(email)), ""
}

func (s *service) submitCode(ctx context.Context, sess *domain.Session, text string) ([]domain.OutboundMessage, string) {
	now := s.now()
	if sess.Expired(now) {
		if err := sess.Expire(now); err != nil {
			slog.Error("expire session", "identity", sess.Identity, "err", err)
		}
		slog.Info("verification code expired", "identity", sess.Identity, "err", domain.ErrCodeExpired)
		return replies(replyExpired()), ""
	}
	if !sess.Matches(text) {
		slog.Info("verification code mismatch", "identity", sess.Identity)
		return replies(replyWrongCode()), ""
	}

	if err := sess.MarkVerified(now); err != nil {
		slog.Error("mark verified", "identity", sess.Identity, "err", err)
		return replies(s.replyGrantFailed(err)), ""
	}
	slog.Info("requester verified", "identity", sess.Identity, "email", sess.Email)

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	token, err := s.grants.Issue(gctx, domain.GrantRequest{
		ResourceID: s.resourceID,
		SingleUse:  true,
		Identity:   sess.Identity,
		Email:      sess.Email,
	})
	cancel()
	if err != nil {
		// Verification stays committed; only an operator can hand out access now.
		slog.Error("grant issuance failed", "identity", sess.Identity,
			"err", fmt.Errorf("%w: %w", domain.ErrGrantIssue, err))
		return replies(s.replyGrantFailed(err)),
			fmt.Sprintf("Access link for verified %s (requester %s) failed: %v", sess.Email, sess.Identity, err)
	}

	slog.Info("access granted", "identity", sess.Identity)
	return replies(s.replyConfirmed(), string(token)), ""
}

func (s *service) escalate(ctx context.Context, message string) {
	if s.escalator == nil {
		return
	}
	ectx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.escalator.Escalate(ectx, message); err != nil {
		slog.Warn("operator escalation failed", "err", err)
	}
}

func replies(texts ...string) []domain.OutboundMessage {
	out := make([]domain.OutboundMessage, 0, len(texts))
	for _, t := range texts {
		out = append(out, domain.OutboundMessage{Text: t})
	}
	return out
}

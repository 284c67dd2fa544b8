package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/itimad/portal-api/internal/captcha"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	apperrors "github.com/itimad/portal-api/internal/errors"
	"github.com/itimad/portal-api/internal/ports"
)

const (
	defaultChallengeTTL = 5 * time.Minute
	defaultAttempts     = 5
	defaultSessionTTL   = 24 * time.Hour
)

// CaptchaServiceOptions groups dependencies for CaptchaService.
type CaptchaServiceOptions struct {
	Sessions  ports.SessionStore
	Generator *captcha.Generator

	// ChallengeTTL bounds how long an issued challenge stays answerable.
	ChallengeTTL time.Duration
	// Attempts is how many wrong answers a single challenge survives.
	Attempts int
	// SessionTTL is the lifetime of sessions this service mints.
	SessionTTL time.Duration
}

// CaptchaService issues and validates session-bound image challenges.
// The plaintext answer lives only on the server-side session record.
type CaptchaService struct {
	sessions     ports.SessionStore
	generator    *captcha.Generator
	challengeTTL time.Duration
	attempts     int
	sessionTTL   time.Duration

	now func() time.Time
}

// NewCaptchaService constructs a new CaptchaService.
func NewCaptchaService(opts CaptchaServiceOptions) *CaptchaService {
	if opts.ChallengeTTL <= 0 {
		opts.ChallengeTTL = defaultChallengeTTL
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	return &CaptchaService{
		sessions:     opts.Sessions,
		generator:    opts.Generator,
		challengeTTL: opts.ChallengeTTL,
		attempts:     opts.Attempts,
		sessionTTL:   opts.SessionTTL,
		now:          time.Now,
	}
}

// ChallengeResult is what the challenge endpoint returns to the client.
// The answer is deliberately absent.
type ChallengeResult struct {
	ChallengeID string
	Image       string // base64 data URI
	CSRFToken   string
	Session     domainauth.Session
}

// Issue renders a fresh challenge and binds it to the session, overwriting
// any prior unconsumed challenge. When sessionID is empty or stale a new
// anonymous session is minted; callers set the sid cookie from the returned
// session.
func (s *CaptchaService) Issue(ctx context.Context, sessionID string) (*ChallengeResult, error) {
	sess, err := s.sessionOrNew(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	answer, image, err := s.generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate challenge: %w", err)
	}

	now := s.now()
	sess.Captcha = &domainauth.CaptchaChallenge{
		ID:           uuid.NewString(),
		Answer:       answer,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.challengeTTL),
		AttemptsLeft: s.attempts,
	}

	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &ChallengeResult{
		ChallengeID: sess.Captcha.ID,
		Image:       image,
		CSRFToken:   sess.CSRFToken,
		Session:     sess,
	}, nil
}

// Validate checks the visitor's answer against the session's challenge.
// Wrong answers return (false, nil): the challenge stays, one attempt is
// burned. A correct answer consumes the challenge, so it never validates
// twice. Missing session or challenge fails closed with (false, nil); an
// expired challenge reports an expired_challenge error so explicit endpoints
// can surface 410. Real transport failures are the only other errors.
func (s *CaptchaService) Validate(ctx context.Context, sessionID, input string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get session: %w", err)
	}
	if sess.Captcha == nil {
		return false, nil
	}

	now := s.now()
	if sess.Captcha.Expired(now) {
		// An expired challenge can never validate again; drop it.
		sess.Captcha = nil
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			return false, fmt.Errorf("save session: %w", saveErr)
		}
		return false, apperrors.ExpiredChallenge("challenge has expired, request a new one")
	}

	if sess.Captcha.Matches(input, now) {
		// Single use: consume on success.
		sess.Captcha = nil
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			return false, fmt.Errorf("save session: %w", saveErr)
		}
		return true, nil
	}

	sess.Captcha.AttemptsLeft--
	if sess.Captcha.AttemptsLeft <= 0 {
		sess.Captcha = nil
	}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return false, fmt.Errorf("save session: %w", saveErr)
	}
	return false, nil
}

// sessionOrNew loads the session when it exists and mints an anonymous one
// otherwise. New sessions get their CSRF token here; the token is scoped to
// the session, never process-wide.
func (s *CaptchaService) sessionOrNew(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID != "" {
		sess, err := s.sessions.Get(ctx, sessionID)
		if err == nil {
			if sess.CSRFToken == "" {
				sess.CSRFToken = newCSRFToken()
			}
			return sess, nil
		}
		if !errors.Is(err, ports.ErrSessionNotFound) {
			return domainauth.Session{}, fmt.Errorf("get session: %w", err)
		}
	}

	now := s.now()
	return domainauth.Session{
		ID:        generateSessionID(),
		CSRFToken: newCSRFToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}, nil
}

func newCSRFToken() string {
	return uuid.NewString()
}

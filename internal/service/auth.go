package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/itimad/portal-api/internal/core"
	"github.com/itimad/portal-api/internal/data"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/domain/model"
	apperrors "github.com/itimad/portal-api/internal/errors"
	"github.com/itimad/portal-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	Users    core.UserRepository
	Captcha  *CaptchaService

	// SessionTTL bounds credential-login sessions; SSO sessions follow the
	// IdP token expiry when present.
	SessionTTL time.Duration
}

// AuthService orchestrates both authentication paths: credential login with
// the CAPTCHA gate for self-service accounts, and OIDC SSO for staff.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	roles      ports.RoleMapper
	users      core.UserRepository
	captcha    *CaptchaService
	sessionTTL time.Duration

	now func() time.Time
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		users:      opts.Users,
		captcha:    opts.Captcha,
		sessionTTL: opts.SessionTTL,
		now:        time.Now,
	}
}

// Register creates a self-service account. The request must carry a correct
// answer to the session's pending challenge.
func (s *AuthService) Register(ctx context.Context, sessionID string, req model.RegisterRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := s.gate(ctx, sessionID, req.CaptchaInput); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, data.CreateParams{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, data.ErrUserEmailExists) {
			return nil, apperrors.Conflict("email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// LoginResult contains the authenticated session and account after a
// successful credential login.
type LoginResult struct {
	Session domainauth.Session
	User    *model.User
}

// Login authenticates a self-service account. On success the session is
// rotated: the pre-login session is discarded and a fresh ID issued, so a
// fixated sid never survives authentication.
func (s *AuthService) Login(ctx context.Context, sessionID string, req model.LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := s.gate(ctx, sessionID, req.CaptchaInput); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.AuthRequired("invalid email or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.AuthRequired("invalid email or password")
	}
	if !user.Active() {
		return nil, apperrors.PermissionDenied("account is suspended")
	}

	session, err := s.startSession(ctx, sessionID, user, s.now().Add(s.sessionTTL))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Session: session, User: user}, nil
}

// BeginLoginResult contains the result of beginning an SSO login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates the staff SSO flow and returns the provider auth URL
// with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing an SSO login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string

	// SessionID is the visitor's pre-login session, rotated away on success.
	SessionID string
}

// CompleteLoginResult contains the result of completing an SSO login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
	User    *model.User
}

// CompleteLogin finishes the staff SSO flow: exchanges the code for an
// identity, maps IdP groups to a staff role (unmapped identities are denied),
// provisions or refreshes the staff account, and persists a fresh session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	exchangeInput := ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	}
	identity, err := s.provider.Exchange(ctx, exchangeInput)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := s.roles.Map(identity.Groups)
	if role == "" {
		return nil, apperrors.PermissionDenied("no portal role is mapped to your directory groups")
	}

	fullName := strings.TrimSpace(identity.FirstName + " " + identity.LastName)
	user, err := s.users.UpsertStaff(ctx, identity.Email, fullName, role)
	if err != nil {
		return nil, fmt.Errorf("provision staff account: %w", err)
	}

	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.sessionTTL)
	}
	session, err := s.startSession(ctx, input.SessionID, user, expiresAt)
	if err != nil {
		return nil, err
	}

	return &CompleteLoginResult{Session: session, User: user}, nil
}

// GetSession retrieves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// gate enforces the CAPTCHA check on credential endpoints. Any failure,
// including expiry, reads as a validation failure here; the explicit
// verify endpoint is where expiry gets its own status.
func (s *AuthService) gate(ctx context.Context, sessionID, input string) error {
	ok, err := s.captcha.Validate(ctx, sessionID, input)
	if err != nil && !apperrors.IsExpiredChallenge(err) {
		return fmt.Errorf("validate challenge: %w", err)
	}
	if !ok {
		return apperrors.ValidationField("captcha_input", "captcha verification failed")
	}
	return nil
}

// startSession rotates the visitor's session: the old record is removed and
// a fresh ID and CSRF token issued for the authenticated principal.
func (s *AuthService) startSession(
	ctx context.Context,
	oldSessionID string,
	user *model.User,
	expiresAt time.Time,
) (domainauth.Session, error) {
	if oldSessionID != "" {
		if err := s.sessions.Delete(ctx, oldSessionID); err != nil {
			return domainauth.Session{}, fmt.Errorf("rotate session: %w", err)
		}
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CSRFToken: newCSRFToken(),
		CreatedAt: s.now(),
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	id := uuid.New()
	return id.String()
}

package authsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mkrupp/storefront/internal/domain"
	context_ "github.com/mkrupp/storefront/internal/infra/context"
	"github.com/mkrupp/storefront/internal/infra/logging"
	"github.com/mkrupp/storefront/internal/repo/session"
	"github.com/mkrupp/storefront/internal/svc/authsvc/authtoken"
)

// ErrIncompleteSession is returned when only part of a session is found in the store.
var ErrIncompleteSession = errors.New("stored session is incomplete")

// DefaultSweepInterval is used when neither the caller nor the config set an interval.
const DefaultSweepInterval = 5 * time.Second

// AuthConfig contains configuration parameters for the auth session manager.
type AuthConfig struct {
	// SweepInterval is the period of the storage consistency sweep
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" default:"5s"`
}

// API is the part of the remote API the auth session manager talks to.
type API interface {
	SignIn(ctx context.Context, creds domain.Credentials) (domain.AuthResponse, error)
	SignUp(ctx context.Context, data domain.SignupData) (domain.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (domain.MessageResponse, error)
	VerifyResetCode(ctx context.Context, code string) (domain.MessageResponse, error)
	ResetPassword(ctx context.Context, email, newPassword string) (domain.MessageResponse, error)
	VerifyToken(ctx context.Context) (domain.VerifyTokenResponse, error)
	UpdateMe(ctx context.Context, update domain.ProfileUpdate) (domain.ProfileResponse, error)
	ChangeMyPassword(ctx context.Context, change domain.PasswordChange) (domain.MessageResponse, error)
}

// AuthService manages the client session: the bearer token and the user profile,
// kept in memory and mirrored to the session store.
//
// Whenever the session is authenticated, the store holds the same token and a
// profile. Writes to the store and the in-memory transition that follows happen
// under one lock so the consistency sweep never observes them half done.
type AuthService struct {
	Config AuthConfig
	API    API
	Store  session.Store
	Log    logging.Logger
	Now    func() time.Time

	state   domain.Session
	stateM  sync.Mutex
	persist sync.Mutex
}

// NewAuthService creates a new AuthService talking to api and persisting to store.
func NewAuthService(api API, store session.Store, cfg AuthConfig) *AuthService {
	return &AuthService{
		Config: cfg,
		API:    api,
		Store:  store,
		Log:    logging.GetLogger("svc.authsvc.auth_service"),
		Now:    time.Now,
	}
}

// State returns a snapshot of the session.
func (s *AuthService) State() domain.Session {
	s.stateM.Lock()
	defer s.stateM.Unlock()

	state := s.state
	if state.Profile != nil {
		profile := *state.Profile
		state.Profile = &profile
	}

	return state
}

// Context returns ctx tagged with the signed-in user id, if any.
func (s *AuthService) Context(ctx context.Context) context.Context {
	if userID := s.State().UserID; userID != "" {
		return context_.WithUserID(ctx, userID)
	}

	return ctx
}

func (s *AuthService) dispatch(action Action) {
	s.stateM.Lock()
	defer s.stateM.Unlock()

	s.state = Reduce(s.state, action)
}

// Login signs in with the given credentials.
// On success the token, the user id decoded from it and the profile are persisted
// together and the session becomes authenticated. On failure the session is left
// unauthenticated and the error is recorded; remote rejections are *domain.RemoteError
// carrying the server message.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (err error) {
	log := s.Log.With(logging.Group("user", "email", creds.Email))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "login failed", "error", err)
		} else {
			log.DebugContext(ctx, "login successful")
		}
	}()

	s.dispatch(ActionLoginStart{})

	resp, err := s.API.SignIn(ctx, creds)
	if err != nil {
		return s.loginFailed(fmt.Errorf("sign in: %w", err))
	}

	if err := s.establish(ctx, resp); err != nil {
		return s.loginFailed(err)
	}

	return nil
}

// Signup registers a new account and signs in with it.
// Mismatched password confirmation fails with domain.ErrValidation before any request.
func (s *AuthService) Signup(ctx context.Context, data domain.SignupData) (err error) {
	log := s.Log.With(logging.Group("user", "email", data.Email))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "signup failed", "error", err)
		} else {
			log.DebugContext(ctx, "signup successful")
		}
	}()

	if err := data.Validate(); err != nil {
		return s.loginFailed(err)
	}

	s.dispatch(ActionLoginStart{})

	resp, err := s.API.SignUp(ctx, data)
	if err != nil {
		return s.loginFailed(fmt.Errorf("sign up: %w", err))
	}

	if err := s.establish(ctx, resp); err != nil {
		return s.loginFailed(err)
	}

	return nil
}

func (s *AuthService) loginFailed(err error) error {
	s.dispatch(ActionLoginFailure{Err: err})

	return err
}

// establish decodes the returned token and persists the new session.
// A response without a decodable token is rejected without touching the store.
func (s *AuthService) establish(ctx context.Context, resp domain.AuthResponse) error {
	claims, err := authtoken.Decode(resp.Token)
	if err != nil {
		return errors.Join(domain.ErrMalformedResponse, fmt.Errorf("decode token: %w", err))
	}

	profile := resp.User
	if profile.ID == "" {
		profile.ID = claims.UserID
	}

	if profile.Name == "" {
		profile.Name = claims.Name
	}

	s.persist.Lock()
	defer s.persist.Unlock()

	if err := s.save(ctx, resp.Token, claims.UserID, profile); err != nil {
		return err
	}

	s.dispatch(ActionLoginSuccess{Token: resp.Token, UserID: claims.UserID, Profile: profile})

	return nil
}

func (s *AuthService) save(ctx context.Context, token, userID string, profile domain.UserProfile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := s.Store.SetAll(ctx, map[string]string{
		domain.StoreKeyToken:  token,
		domain.StoreKeyUser:   string(profileJSON),
		domain.StoreKeyUserID: userID,
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// Logout clears every persisted session key and resets the session.
// The in-memory reset happens even when the store cannot be cleared.
func (s *AuthService) Logout(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "logout failed", "error", err)
		} else {
			s.Log.DebugContext(ctx, "logged out")
		}
	}()

	s.persist.Lock()
	defer s.persist.Unlock()

	return s.reset(ctx)
}

// reset clears the store and the session. The caller holds s.persist.
func (s *AuthService) reset(ctx context.Context) error {
	defer s.dispatch(ActionLogout{})

	if err := s.Store.Delete(ctx, domain.SessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	return nil
}

// RestoreOnStartup rehydrates a persisted session.
// The stored token is checked locally and then verified by the remote API.
// Any failure, including a partial or unreadable store entry, clears the store
// and leaves the session unauthenticated; the returned error then wraps
// domain.ErrAuthRequired and the cause. An empty store is not an error.
func (s *AuthService) RestoreOnStartup(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			s.Log.WarnContext(ctx, "session not restored", "error", err)
		} else if state := s.State(); state.IsAuthenticated {
			s.Log.DebugContext(ctx, "session restored", logging.Group("user", "id", state.UserID))
		}
	}()

	s.persist.Lock()
	defer s.persist.Unlock()

	token, hasToken, err := s.Store.Get(ctx, domain.StoreKeyToken)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	profileJSON, hasProfile, err := s.Store.Get(ctx, domain.StoreKeyUser)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}

	if !hasToken && !hasProfile {
		s.dispatch(ActionLogout{})

		return nil
	}

	if !hasToken || !hasProfile || token == "" {
		return s.discard(ctx, ErrIncompleteSession)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return s.discard(ctx, errors.Join(domain.ErrMalformedResponse, fmt.Errorf("decode profile: %w", err)))
	}

	claims, err := authtoken.DecodeValid(token, s.Now())
	if err != nil {
		return s.discard(ctx, err)
	}

	s.dispatch(ActionSetLoading{Loading: true})

	if _, err := s.API.VerifyToken(ctx); err != nil {
		return s.discard(ctx, fmt.Errorf("verify token: %w", err))
	}

	if profile.ID == "" {
		profile.ID = claims.UserID
	}

	if err := s.save(ctx, token, claims.UserID, profile); err != nil {
		return s.discard(ctx, err)
	}

	s.dispatch(ActionLoginSuccess{Token: token, UserID: claims.UserID, Profile: profile})

	return nil
}

// discard clears the session after a failed restore. The caller holds s.persist.
func (s *AuthService) discard(ctx context.Context, cause error) error {
	if err := s.reset(ctx); err != nil {
		return errors.Join(domain.ErrAuthRequired, cause, err)
	}

	return fmt.Errorf("%w: %w", domain.ErrAuthRequired, cause)
}

// ConsistencyCheck forces a logout when the session is authenticated in memory
// but the store no longer holds the same token and a profile, for example because
// another process cleared it. Store read failures are logged and leave the session alone.
func (s *AuthService) ConsistencyCheck(ctx context.Context) {
	s.persist.Lock()
	defer s.persist.Unlock()

	state := s.State()
	if !state.IsAuthenticated {
		return
	}

	token, hasToken, err := s.Store.Get(ctx, domain.StoreKeyToken)
	if err != nil {
		s.Log.ErrorContext(ctx, "consistency check failed", "error", err)

		return
	}

	_, hasProfile, err := s.Store.Get(ctx, domain.StoreKeyUser)
	if err != nil {
		s.Log.ErrorContext(ctx, "consistency check failed", "error", err)

		return
	}

	if hasToken && hasProfile && token == state.Token {
		return
	}

	s.Log.WarnContext(ctx, "session store diverged, logging out",
		"hasToken", hasToken,
		"hasProfile", hasProfile,
		"tokenChanged", hasToken && token != state.Token,
	)

	if err := s.reset(ctx); err != nil {
		s.Log.ErrorContext(ctx, "forced logout failed", "error", err)
	}
}

// StartConsistencySweep runs ConsistencyCheck every interval until stop is called
// or ctx is done. A non-positive interval uses the configured one, falling back
// to DefaultSweepInterval.
// stop blocks until the sweep has exited and may be called more than once.
func (s *AuthService) StartConsistencySweep(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = s.Config.SweepInterval
	}

	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ConsistencyCheck(ctx)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// ClearError drops the last recorded error.
func (s *AuthService) ClearError() {
	s.dispatch(ActionClearError{})
}

// ForgotPassword asks the remote API to mail a reset code. Returns the server message.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (_ string, err error) {
	defer s.track(ctx, "forgot password", &err)

	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	resp, err := s.API.ForgotPassword(ctx, email)
	if err != nil {
		return "", fmt.Errorf("forgot password: %w", err)
	}

	return resp.Text(), nil
}

// VerifyResetCode checks a mailed reset code. Returns the server status.
func (s *AuthService) VerifyResetCode(ctx context.Context, code string) (_ string, err error) {
	defer s.track(ctx, "verify reset code", &err)

	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: reset code is required", domain.ErrValidation)
	}

	resp, err := s.API.VerifyResetCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("verify reset code: %w", err)
	}

	return resp.Text(), nil
}

// ResetPassword sets a new password after the reset code was verified.
// The session is not changed; the user signs in again with the new password.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) (err error) {
	defer s.track(ctx, "reset password", &err)

	if strings.TrimSpace(email) == "" || newPassword == "" {
		return fmt.Errorf("%w: email and new password are required", domain.ErrValidation)
	}

	if _, err := s.API.ResetPassword(ctx, email, newPassword); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	return nil
}

// UpdateProfile updates the profile remotely and merges the result into the
// stored and in-memory profile.
func (s *AuthService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (err error) {
	defer s.track(ctx, "update profile", &err)

	state := s.State()
	if !state.IsAuthenticated || state.Profile == nil {
		return domain.ErrAuthRequired
	}

	resp, err := s.API.UpdateMe(ctx, update)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	profile := update.Apply(*state.Profile)
	profile = domain.ProfileUpdate{Name: resp.User.Name, Email: resp.User.Email, Phone: resp.User.Phone}.Apply(profile)

	s.persist.Lock()
	defer s.persist.Unlock()

	if err := s.save(ctx, state.Token, state.UserID, profile); err != nil {
		return err
	}

	s.dispatch(ActionProfileUpdated{Profile: profile})

	return nil
}

// ChangePassword changes the password of the signed-in user.
// A mismatched confirmation fails with domain.ErrValidation before any request.
// The fresh token issued by the remote API replaces the stored one.
func (s *AuthService) ChangePassword(ctx context.Context, change domain.PasswordChange) (err error) {
	defer s.track(ctx, "change password", &err)

	if err := change.Validate(); err != nil {
		return err
	}

	state := s.State()
	if !state.IsAuthenticated || state.Profile == nil {
		return domain.ErrAuthRequired
	}

	resp, err := s.API.ChangeMyPassword(ctx, change)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if resp.Token == "" {
		s.dispatch(ActionSetLoading{Loading: false})

		return nil
	}

	claims, err := authtoken.Decode(resp.Token)
	if err != nil {
		return errors.Join(domain.ErrMalformedResponse, fmt.Errorf("decode token: %w", err))
	}

	s.persist.Lock()
	defer s.persist.Unlock()

	if err := s.save(ctx, resp.Token, claims.UserID, *state.Profile); err != nil {
		return err
	}

	s.dispatch(ActionTokenRefreshed{Token: resp.Token})

	return nil
}

// track records the outcome of an account operation. An auth-required failure
// means the remote API or the local pre-check discarded the stored session, so the
// in-memory session follows.
func (s *AuthService) track(ctx context.Context, op string, errp *error) {
	err := *errp
	if err == nil {
		s.Log.DebugContext(ctx, op+" successful")

		return
	}

	s.Log.ErrorContext(ctx, op+" failed", "error", err)

	if errors.Is(err, domain.ErrAuthRequired) {
		s.dispatch(ActionLoginFailure{Err: err})

		return
	}

	s.dispatch(ActionSetError{Err: err})
}

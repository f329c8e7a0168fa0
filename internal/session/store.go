package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/yyc-track/trackctl/internal/api"
)

// Token slots in the credential store. One per realm; never shared.
const (
	UserTokenSlot  = "authToken"
	AdminTokenSlot = "adminToken"
)

// Login routes per realm; the unauthorized gate decision points here.
const (
	UserLoginRoute  = "/login"
	AdminLoginRoute = "/admin/login"
)

// Resolver exchanges credentials or a persisted token for an identity.
// Implemented by api.Realm.
type Resolver interface {
	WhoAmI(ctx context.Context, token string) (*api.Identity, error)
	Login(ctx context.Context, email, password string) (*api.Credentials, error)
}

// AccountAPI is the account-management surface available to the user realm.
// Implemented by api.Client. The admin realm configures none.
type AccountAPI interface {
	Register(ctx context.Context, profile api.RegistrationProfile) (*api.Credentials, error)
	VerifyEmail(ctx context.Context, token, code string) error
	ResendVerification(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, token string, update api.ProfileUpdate) (*api.Identity, error)
	ChangePassword(ctx context.Context, token, current, next string) error
	CompleteProfile(ctx context.Context, token, postalCode string) (*api.Identity, error)
}

// TokenVault is the persisted slot holding this realm's bearer token.
// Implemented by credstore.Store and credstore.Memory.
type TokenVault interface {
	Get(ctx context.Context, slot string) (string, bool, error)
	Put(ctx context.Context, slot, token string) error
	Delete(ctx context.Context, slot string) error
}

// Config parameterizes a Store for one realm.
type Config struct {
	Realm      string // "user" or "admin", used in diagnostics only
	Slot       string // credential store slot key
	LoginRoute string // where an unauthorized gate decision points
	Resolver   Resolver
	Account    AccountAPI // nil for realms without account management
}

// Result is the discriminated outcome of every session operation. Operations
// never leak transport errors; failures carry a user-facing message instead.
type Result struct {
	Success  bool
	Identity *api.Identity
	Message  string
}

func failure(message string) Result {
	return Result{Message: message}
}

// Store holds the current session state for one realm.
//
// Concurrency: all state transitions happen under a single mutex, so
// concurrent operations are last-write-wins. The store does not deduplicate
// in-flight operations; callers serialize their own submissions.
type Store struct {
	cfg   Config
	vault TokenVault
	log   *slog.Logger

	initOnce sync.Once

	mu       sync.Mutex
	identity *api.Identity
	token    string
	loading  bool
}

// New creates a Store in the loading state. Call Initialize before consulting
// the gate.
func New(cfg Config, vault TokenVault, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		cfg:     cfg,
		vault:   vault,
		log:     log.With("realm", cfg.Realm),
		loading: true,
	}
}

// LoginRoute returns the realm's login route.
func (s *Store) LoginRoute() string {
	return s.cfg.LoginRoute
}

// Snapshot returns the current session state for gate evaluation.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Identity: cloneIdentity(s.identity), Loading: s.loading}
}

// Token returns the current in-memory bearer token, if any.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Initialize resolves the persisted token into an identity. A missing slot,
// a rejected token, or a transport failure all leave the session logged out;
// a rejected or unresolvable token is discarded from the slot. Failures are
// never returned to the caller, only logged. The loading flag is cleared
// exactly once, even if resolution fails midway. Repeated calls are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		defer s.endLoading()

		token, ok, err := s.vault.Get(ctx, s.cfg.Slot)
		if err != nil {
			s.log.Warn("session: reading token slot failed", "error", err)
			return
		}
		if !ok {
			return
		}

		identity, err := s.cfg.Resolver.WhoAmI(ctx, token)
		if err != nil {
			// Stale token: expected steady-state event, clean up silently.
			s.log.Debug("session: token resolution failed, discarding token", "error", err)
			if delErr := s.vault.Delete(ctx, s.cfg.Slot); delErr != nil {
				s.log.Warn("session: discarding stale token failed", "error", delErr)
			}
			return
		}

		s.setSession(token, identity)
	})
}

func (s *Store) endLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// setSession installs token and identity in one critical section so no
// consumer observes the token set with the identity still absent.
func (s *Store) setSession(token string, identity *api.Identity) {
	s.mu.Lock()
	s.token = token
	s.identity = identity
	s.mu.Unlock()
}

// Login exchanges credentials for a session. The token is persisted before
// the in-memory state is set. A failed login leaves the prior state
// untouched, including the other realm's slot.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	creds, err := s.cfg.Resolver.Login(ctx, email, password)
	if err != nil {
		s.log.Debug("session: login failed", "error", err)
		return failure(api.UserMessage(err, "Login failed. Please try again."))
	}

	if err := s.vault.Put(ctx, s.cfg.Slot, creds.Token); err != nil {
		s.log.Warn("session: persisting token failed", "error", err)
		return failure("Login failed. Please try again.")
	}

	identity := creds.Identity
	s.setSession(creds.Token, identity)
	s.endLoading()
	return Result{Success: true, Identity: cloneIdentity(identity)}
}

// Register creates an account. On success the returned token is persisted
// and set, but the identity deliberately stays absent: registration means
// "pending email verification", and the gate must not authorize until
// VerifyEmail succeeds.
func (s *Store) Register(ctx context.Context, profile api.RegistrationProfile) Result {
	if s.cfg.Account == nil {
		return failure("Registration is not available for this realm.")
	}

	creds, err := s.cfg.Account.Register(ctx, profile)
	if err != nil {
		s.log.Debug("session: registration failed", "error", err)
		return failure(api.UserMessage(err, "Registration failed. Please try again."))
	}

	if err := s.vault.Put(ctx, s.cfg.Slot, creds.Token); err != nil {
		s.log.Warn("session: persisting token failed", "error", err)
		return failure("Registration failed. Please try again.")
	}

	s.mu.Lock()
	s.token = creds.Token
	s.mu.Unlock()

	return Result{Success: true, Identity: cloneIdentity(creds.Identity)}
}

// Logout removes the persisted token, then clears identity and token, in
// that order: a consumer must never observe a logged-in identity whose token
// is no longer recoverable. Idempotent; performs no network call.
func (s *Store) Logout(ctx context.Context) {
	if err := s.vault.Delete(ctx, s.cfg.Slot); err != nil {
		s.log.Warn("session: removing token slot failed", "error", err)
	}

	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.mu.Unlock()
}

// VerifyEmail submits the verification code. On success the identity is
// hydrated (or merged) with IsEmailVerified set; the token used is the
// in-memory one, falling back to the persisted slot so verification works in
// a fresh process right after Register.
func (s *Store) VerifyEmail(ctx context.Context, code string) Result {
	if s.cfg.Account == nil {
		return failure("Email verification is not available for this realm.")
	}
	token, ok := s.bearer(ctx)
	if !ok {
		return failure("You are not signed in.")
	}

	if err := s.cfg.Account.VerifyEmail(ctx, token, code); err != nil {
		s.log.Debug("session: email verification failed", "error", err)
		return failure(api.UserMessage(err, "Verification failed. Please try again."))
	}

	s.mu.Lock()
	identity := cloneIdentity(s.identity)
	s.mu.Unlock()

	if identity == nil {
		// Post-registration path: no identity yet, re-fetch it.
		resolved, err := s.cfg.Resolver.WhoAmI(ctx, token)
		if err != nil {
			s.log.Debug("session: post-verification resolution failed", "error", err)
			resolved = &api.Identity{}
		}
		identity = resolved
	}
	identity.IsEmailVerified = true

	s.setSession(token, identity)
	s.endLoading()
	return Result{Success: true, Identity: cloneIdentity(identity)}
}

// ResendVerification requests a fresh verification code for the current token.
func (s *Store) ResendVerification(ctx context.Context) Result {
	if s.cfg.Account == nil {
		return failure("Email verification is not available for this realm.")
	}
	token, ok := s.bearer(ctx)
	if !ok {
		return failure("You are not signed in.")
	}

	if err := s.cfg.Account.ResendVerification(ctx, token); err != nil {
		s.log.Debug("session: resend verification failed", "error", err)
		return failure(api.UserMessage(err, "Failed to resend code."))
	}
	return Result{Success: true}
}

// UpdateProfile updates profile fields. The echoed identity is merged into
// the existing one rather than replacing it, so fields the backend did not
// echo back are not dropped.
func (s *Store) UpdateProfile(ctx context.Context, update api.ProfileUpdate) Result {
	if s.cfg.Account == nil {
		return failure("Profile management is not available for this realm.")
	}
	token, ok := s.bearer(ctx)
	if !ok {
		return failure("You are not signed in.")
	}

	echoed, err := s.cfg.Account.UpdateProfile(ctx, token, update)
	if err != nil {
		s.log.Debug("session: profile update failed", "error", err)
		return failure(api.UserMessage(err, "Update failed. Please try again."))
	}

	return Result{Success: true, Identity: s.mergeSession(token, echoed)}
}

// CompleteProfile supplies the postal code missing after an OAuth sign-up
// and merges the echoed identity.
func (s *Store) CompleteProfile(ctx context.Context, postalCode string) Result {
	if s.cfg.Account == nil {
		return failure("Profile management is not available for this realm.")
	}
	token, ok := s.bearer(ctx)
	if !ok {
		return failure("You are not signed in.")
	}

	echoed, err := s.cfg.Account.CompleteProfile(ctx, token, postalCode)
	if err != nil {
		s.log.Debug("session: complete profile failed", "error", err)
		return failure(api.UserMessage(err, "Update failed. Please try again."))
	}

	return Result{Success: true, Identity: s.mergeSession(token, echoed)}
}

// ChangePassword rotates the account password. Session state is unchanged.
func (s *Store) ChangePassword(ctx context.Context, current, next string) Result {
	if s.cfg.Account == nil {
		return failure("Profile management is not available for this realm.")
	}
	token, ok := s.bearer(ctx)
	if !ok {
		return failure("You are not signed in.")
	}

	if err := s.cfg.Account.ChangePassword(ctx, token, current, next); err != nil {
		s.log.Debug("session: password change failed", "error", err)
		return failure(api.UserMessage(err, "Password change failed. Please try again."))
	}
	return Result{Success: true}
}

// SetAuthFromToken accepts an externally obtained token (OAuth callback
// path), persists it, and resolves it exactly like Initialize before
// returning. The caller must not proceed until this returns, so the gate
// never races a half-installed session.
func (s *Store) SetAuthFromToken(ctx context.Context, token string) Result {
	if err := s.vault.Put(ctx, s.cfg.Slot, token); err != nil {
		s.log.Warn("session: persisting token failed", "error", err)
		return failure("Sign in failed. Please try again.")
	}

	identity, err := s.cfg.Resolver.WhoAmI(ctx, token)
	if err != nil {
		s.log.Debug("session: token resolution failed, discarding token", "error", err)
		if delErr := s.vault.Delete(ctx, s.cfg.Slot); delErr != nil {
			s.log.Warn("session: discarding stale token failed", "error", delErr)
		}
		return failure(api.UserMessage(err, "Sign in failed. Please try again."))
	}

	s.setSession(token, identity)
	s.endLoading()
	return Result{Success: true, Identity: cloneIdentity(identity)}
}

// bearer returns the token for authenticated calls: the in-memory one when a
// session is live, otherwise the persisted slot (e.g. verification in a
// fresh process after Register).
func (s *Store) bearer(ctx context.Context) (string, bool) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token != "" {
		return token, true
	}

	token, ok, err := s.vault.Get(ctx, s.cfg.Slot)
	if err != nil {
		s.log.Warn("session: reading token slot failed", "error", err)
		return "", false
	}
	return token, ok && token != ""
}

// mergeSession merges an echoed identity into the current one and installs
// the result. Returns a clone of the merged identity.
func (s *Store) mergeSession(token string, echoed *api.Identity) *api.Identity {
	s.mu.Lock()
	merged := mergeIdentity(s.identity, echoed)
	s.token = token
	s.identity = merged
	s.mu.Unlock()
	return cloneIdentity(merged)
}

func cloneIdentity(identity *api.Identity) *api.Identity {
	if identity == nil {
		return nil
	}
	clone := *identity
	return &clone
}

// mergeIdentity overlays non-empty fields of update onto existing. The
// verification flag never regresses from a partial echo.
func mergeIdentity(existing, update *api.Identity) *api.Identity {
	if update == nil {
		return cloneIdentity(existing)
	}

	merged := api.Identity{}
	if existing != nil {
		merged = *existing
	}
	if update.ID != "" {
		merged.ID = update.ID
	}
	if update.FirstName != "" {
		merged.FirstName = update.FirstName
	}
	if update.LastName != "" {
		merged.LastName = update.LastName
	}
	if update.Email != "" {
		merged.Email = update.Email
	}
	if update.PostalCode != "" {
		merged.PostalCode = update.PostalCode
	}
	if update.ProfilePictureURL != "" {
		merged.ProfilePictureURL = update.ProfilePictureURL
	}
	merged.IsEmailVerified = merged.IsEmailVerified || update.IsEmailVerified
	return &merged
}

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyc-track/trackctl/internal/api"
	"github.com/yyc-track/trackctl/internal/credstore"
)

// stubBackend implements Resolver and AccountAPI with function hooks and
// call counters.
type stubBackend struct {
	whoAmIFn func(token string) (*api.Identity, error)
	loginFn  func(email, password string) (*api.Credentials, error)

	registerFn func(profile api.RegistrationProfile) (*api.Credentials, error)
	verifyErr  error
	resendErr  error
	updateFn   func(update api.ProfileUpdate) (*api.Identity, error)
	completeFn func(postalCode string) (*api.Identity, error)
	passwdErr  error

	whoAmICalls int
	loginCalls  int
	netCalls    int
}

func (b *stubBackend) WhoAmI(_ context.Context, token string) (*api.Identity, error) {
	b.whoAmICalls++
	b.netCalls++
	if b.whoAmIFn == nil {
		return nil, api.ErrUnauthorized
	}
	return b.whoAmIFn(token)
}

func (b *stubBackend) Login(_ context.Context, email, password string) (*api.Credentials, error) {
	b.loginCalls++
	b.netCalls++
	if b.loginFn == nil {
		return nil, api.ErrUnauthorized
	}
	return b.loginFn(email, password)
}

func (b *stubBackend) Register(_ context.Context, profile api.RegistrationProfile) (*api.Credentials, error) {
	b.netCalls++
	if b.registerFn == nil {
		return nil, errors.New("register not stubbed")
	}
	return b.registerFn(profile)
}

func (b *stubBackend) VerifyEmail(_ context.Context, _, _ string) error {
	b.netCalls++
	return b.verifyErr
}

func (b *stubBackend) ResendVerification(_ context.Context, _ string) error {
	b.netCalls++
	return b.resendErr
}

func (b *stubBackend) UpdateProfile(_ context.Context, _ string, update api.ProfileUpdate) (*api.Identity, error) {
	b.netCalls++
	if b.updateFn == nil {
		return nil, errors.New("update not stubbed")
	}
	return b.updateFn(update)
}

func (b *stubBackend) ChangePassword(_ context.Context, _, _, _ string) error {
	b.netCalls++
	return b.passwdErr
}

func (b *stubBackend) CompleteProfile(_ context.Context, _, postalCode string) (*api.Identity, error) {
	b.netCalls++
	if b.completeFn == nil {
		return nil, errors.New("complete not stubbed")
	}
	return b.completeFn(postalCode)
}

func userStore(backend *stubBackend, vault TokenVault) *Store {
	return New(Config{
		Realm:      "user",
		Slot:       UserTokenSlot,
		LoginRoute: UserLoginRoute,
		Resolver:   backend,
		Account:    backend,
	}, vault, nil)
}

func adminStore(backend *stubBackend, vault TokenVault) *Store {
	return New(Config{
		Realm:      "admin",
		Slot:       AdminTokenSlot,
		LoginRoute: AdminLoginRoute,
		Resolver:   backend,
	}, vault, nil)
}

func riderIdentity() *api.Identity {
	return &api.Identity{
		ID:              "u1",
		FirstName:       "Avery",
		LastName:        "Ng",
		Email:           "avery@example.com",
		IsEmailVerified: true,
		PostalCode:      "T2N 1N4",
	}
}

func TestInitialize_NoToken(t *testing.T) {
	backend := &stubBackend{}
	store := userStore(backend, credstore.NewMemory())

	assert.Equal(t, StatePending, store.Gate().State)

	store.Initialize(context.Background())

	decision := store.Gate()
	assert.Equal(t, StateUnauthorized, decision.State)
	assert.Equal(t, UserLoginRoute, decision.LoginRoute)
	assert.Zero(t, backend.whoAmICalls)
}

func TestInitialize_ValidToken(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(token string) (*api.Identity, error) {
			if token != "tok-1" {
				return nil, api.ErrUnauthorized
			}
			return riderIdentity(), nil
		},
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "tok-1"))
	store := userStore(backend, vault)

	store.Initialize(context.Background())

	snap := store.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "avery@example.com", snap.Identity.Email)
	assert.False(t, snap.Loading)
	assert.Equal(t, StateAuthorized, store.Gate().State)
	assert.Equal(t, "tok-1", store.Token())
}

func TestInitialize_StaleTokenDiscarded(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(string) (*api.Identity, error) {
			return nil, &api.StatusError{StatusCode: 401}
		},
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "stale"))
	store := userStore(backend, vault)

	store.Initialize(context.Background())

	assert.Equal(t, StateUnauthorized, store.Gate().State)
	_, ok, err := vault.Get(context.Background(), UserTokenSlot)
	require.NoError(t, err)
	assert.False(t, ok, "stale token must be removed from its slot")
}

func TestInitialize_Idempotent(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(string) (*api.Identity, error) { return riderIdentity(), nil },
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "tok-1"))
	store := userStore(backend, vault)

	store.Initialize(context.Background())
	store.Initialize(context.Background())

	assert.Equal(t, 1, backend.whoAmICalls)
}

type failingVault struct{}

func (failingVault) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}
func (failingVault) Put(context.Context, string, string) error { return errors.New("disk gone") }
func (failingVault) Delete(context.Context, string) error      { return errors.New("disk gone") }

func TestInitialize_VaultFailureStillEndsLoading(t *testing.T) {
	store := userStore(&stubBackend{}, failingVault{})

	store.Initialize(context.Background())

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, StateUnauthorized, store.Gate().State)
}

func TestLogin_Success(t *testing.T) {
	backend := &stubBackend{
		loginFn: func(email, password string) (*api.Credentials, error) {
			if email != "avery@example.com" || password != "hunter2" {
				return nil, &api.RequestError{Message: "Invalid email or password"}
			}
			return &api.Credentials{Token: "tok-2", Identity: riderIdentity()}, nil
		},
	}
	vault := credstore.NewMemory()
	store := userStore(backend, vault)

	res := store.Login(context.Background(), "avery@example.com", "hunter2")

	require.True(t, res.Success)
	require.NotNil(t, res.Identity)
	assert.Equal(t, "Avery", res.Identity.FirstName)
	assert.Equal(t, StateAuthorized, store.Gate().State)

	token, ok, err := vault.Get(context.Background(), UserTokenSlot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-2", token)
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(string) (*api.Identity, error) { return riderIdentity(), nil },
		loginFn: func(string, string) (*api.Credentials, error) {
			return nil, &api.RequestError{Message: "Invalid email or password"}
		},
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "tok-1"))
	store := userStore(backend, vault)
	store.Initialize(context.Background())

	res := store.Login(context.Background(), "avery@example.com", "wrong")

	assert.False(t, res.Success)
	assert.Equal(t, "Invalid email or password", res.Message)
	assert.Equal(t, StateAuthorized, store.Gate().State, "prior session survives a failed login")
	assert.Equal(t, "tok-1", store.Token())

	token, ok, err := vault.Get(context.Background(), UserTokenSlot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
}

func TestRealmIsolation(t *testing.T) {
	vault := credstore.NewMemory()
	userBackend := &stubBackend{
		loginFn: func(string, string) (*api.Credentials, error) {
			return &api.Credentials{Token: "user-tok", Identity: riderIdentity()}, nil
		},
	}
	adminBackend := &stubBackend{
		loginFn: func(string, string) (*api.Credentials, error) {
			return &api.Credentials{Token: "admin-tok", Identity: &api.Identity{ID: "a1", Email: "ops@example.com"}}, nil
		},
	}
	user := userStore(userBackend, vault)
	admin := adminStore(adminBackend, vault)

	require.True(t, user.Login(context.Background(), "avery@example.com", "pw").Success)
	require.True(t, admin.Login(context.Background(), "ops@example.com", "pw").Success)

	admin.Logout(context.Background())

	// The admin logout must not disturb the user realm's slot or session.
	token, ok, err := vault.Get(context.Background(), UserTokenSlot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-tok", token)
	assert.Equal(t, StateAuthorized, user.Gate().State)

	_, ok, err = vault.Get(context.Background(), AdminTokenSlot)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, StateUnauthorized, admin.Gate().State)
}

func TestLogout_IdempotentAndOffline(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(string) (*api.Identity, error) { return riderIdentity(), nil },
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "tok-1"))
	store := userStore(backend, vault)
	store.Initialize(context.Background())
	calls := backend.netCalls

	store.Logout(context.Background())
	store.Logout(context.Background())

	assert.Equal(t, calls, backend.netCalls, "logout performs no network calls")
	assert.Equal(t, StateUnauthorized, store.Gate().State)
	assert.Empty(t, store.Token())
	_, ok, err := vault.Get(context.Background(), UserTokenSlot)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegister_LeavesIdentityAbsent(t *testing.T) {
	backend := &stubBackend{
		registerFn: func(profile api.RegistrationProfile) (*api.Credentials, error) {
			return &api.Credentials{Token: "fresh-tok"}, nil
		},
	}
	vault := credstore.NewMemory()
	store := userStore(backend, vault)

	res := store.Register(context.Background(), api.RegistrationProfile{
		FirstName: "Avery", LastName: "Ng",
		Email: "avery@example.com", Password: "hunter2",
	})

	require.True(t, res.Success)
	assert.Nil(t, res.Identity)
	assert.Equal(t, "fresh-tok", store.Token())

	store.Initialize(context.Background())
	assert.NotEqual(t, StateAuthorized, store.Gate().State,
		"registration alone must not authorize the gate")
}

func TestVerifyEmail_HydratesIdentity(t *testing.T) {
	identity := riderIdentity()
	identity.IsEmailVerified = false
	backend := &stubBackend{
		registerFn: func(api.RegistrationProfile) (*api.Credentials, error) {
			return &api.Credentials{Token: "fresh-tok"}, nil
		},
		whoAmIFn: func(string) (*api.Identity, error) { return cloneIdentity(identity), nil },
	}
	store := userStore(backend, credstore.NewMemory())
	require.True(t, store.Register(context.Background(), api.RegistrationProfile{}).Success)

	res := store.VerifyEmail(context.Background(), "123456")

	require.True(t, res.Success)
	require.NotNil(t, res.Identity)
	assert.True(t, res.Identity.IsEmailVerified)
	assert.Equal(t, "avery@example.com", res.Identity.Email)
	assert.Equal(t, StateAuthorized, store.Gate().State)
}

func TestVerifyEmail_FreshProcessUsesPersistedToken(t *testing.T) {
	// Register in one process, verify in the next: the store has no
	// in-memory token and must fall back to the persisted slot.
	backend := &stubBackend{
		whoAmIFn: func(token string) (*api.Identity, error) {
			if token != "fresh-tok" {
				return nil, api.ErrUnauthorized
			}
			id := riderIdentity()
			id.IsEmailVerified = false
			return id, nil
		},
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "fresh-tok"))
	store := userStore(backend, vault)

	res := store.VerifyEmail(context.Background(), "123456")

	require.True(t, res.Success)
	assert.True(t, res.Identity.IsEmailVerified)
}

func TestVerifyEmail_Failure(t *testing.T) {
	backend := &stubBackend{
		verifyErr: &api.RequestError{Message: "Invalid verification code"},
		whoAmIFn:  func(string) (*api.Identity, error) { return riderIdentity(), nil },
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "tok-1"))
	store := userStore(backend, vault)
	store.Initialize(context.Background())

	res := store.VerifyEmail(context.Background(), "000000")

	assert.False(t, res.Success)
	assert.Equal(t, "Invalid verification code", res.Message)
}

func TestUpdateProfile_MergeKeepsUnechoedFields(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(string) (*api.Identity, error) { return riderIdentity(), nil },
		updateFn: func(update api.ProfileUpdate) (*api.Identity, error) {
			// Partial echo: only the changed name comes back.
			return &api.Identity{FirstName: update.FirstName}, nil
		},
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "tok-1"))
	store := userStore(backend, vault)
	store.Initialize(context.Background())

	res := store.UpdateProfile(context.Background(), api.ProfileUpdate{FirstName: "Jordan"})

	require.True(t, res.Success)
	require.NotNil(t, res.Identity)
	assert.Equal(t, "Jordan", res.Identity.FirstName)
	assert.Equal(t, "T2N 1N4", res.Identity.PostalCode, "fields absent from the echo survive")
	assert.Equal(t, "avery@example.com", res.Identity.Email)
	assert.True(t, res.Identity.IsEmailVerified, "verification flag never regresses")
}

func TestCompleteProfile_MergesPostalCode(t *testing.T) {
	partial := riderIdentity()
	partial.PostalCode = ""
	backend := &stubBackend{
		whoAmIFn: func(string) (*api.Identity, error) { return cloneIdentity(partial), nil },
		completeFn: func(postalCode string) (*api.Identity, error) {
			return &api.Identity{PostalCode: postalCode}, nil
		},
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "tok-1"))
	store := userStore(backend, vault)
	store.Initialize(context.Background())

	res := store.CompleteProfile(context.Background(), "T3A 0H1")

	require.True(t, res.Success)
	assert.Equal(t, "T3A 0H1", res.Identity.PostalCode)
	assert.Equal(t, "Avery", res.Identity.FirstName)
}

func TestChangePassword(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(string) (*api.Identity, error) { return riderIdentity(), nil },
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "tok-1"))
	store := userStore(backend, vault)
	store.Initialize(context.Background())

	res := store.ChangePassword(context.Background(), "hunter2", "hunter3")
	require.True(t, res.Success)

	backend.passwdErr = &api.RequestError{Message: "Current password is incorrect"}
	res = store.ChangePassword(context.Background(), "wrong", "hunter3")
	assert.False(t, res.Success)
	assert.Equal(t, "Current password is incorrect", res.Message)
}

func TestAccountOperationsRequireSignIn(t *testing.T) {
	store := userStore(&stubBackend{}, credstore.NewMemory())

	res := store.VerifyEmail(context.Background(), "123456")
	assert.False(t, res.Success)
	assert.Equal(t, "You are not signed in.", res.Message)

	res = store.UpdateProfile(context.Background(), api.ProfileUpdate{})
	assert.False(t, res.Success)
}

func TestAdminRealmHasNoAccountSurface(t *testing.T) {
	store := adminStore(&stubBackend{}, credstore.NewMemory())

	assert.False(t, store.Register(context.Background(), api.RegistrationProfile{}).Success)
	assert.False(t, store.VerifyEmail(context.Background(), "123456").Success)
	assert.False(t, store.UpdateProfile(context.Background(), api.ProfileUpdate{}).Success)
}

func TestSetAuthFromToken_Success(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(token string) (*api.Identity, error) {
			if token != "oauth-tok" {
				return nil, api.ErrUnauthorized
			}
			return riderIdentity(), nil
		},
	}
	vault := credstore.NewMemory()
	store := userStore(backend, vault)

	res := store.SetAuthFromToken(context.Background(), "oauth-tok")

	require.True(t, res.Success)
	assert.Equal(t, StateAuthorized, store.Gate().State, "session is live before the call returns")

	token, ok, err := vault.Get(context.Background(), UserTokenSlot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "oauth-tok", token)
}

func TestSetAuthFromToken_RejectedTokenDiscarded(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(string) (*api.Identity, error) {
			return nil, &api.StatusError{StatusCode: 401, Message: "Invalid token"}
		},
	}
	vault := credstore.NewMemory()
	store := userStore(backend, vault)

	res := store.SetAuthFromToken(context.Background(), "bogus")

	assert.False(t, res.Success)
	assert.Equal(t, "Invalid token", res.Message)
	_, ok, err := vault.Get(context.Background(), UserTokenSlot)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotReturnsClone(t *testing.T) {
	backend := &stubBackend{
		whoAmIFn: func(string) (*api.Identity, error) { return riderIdentity(), nil },
	}
	vault := credstore.NewMemory()
	require.NoError(t, vault.Put(context.Background(), UserTokenSlot, "tok-1"))
	store := userStore(backend, vault)
	store.Initialize(context.Background())

	snap := store.Snapshot()
	snap.Identity.FirstName = "Mallory"

	assert.Equal(t, "Avery", store.Snapshot().Identity.FirstName)
}

func TestMergeIdentity(t *testing.T) {
	existing := riderIdentity()

	merged := mergeIdentity(existing, &api.Identity{LastName: "Singh", IsEmailVerified: false})
	assert.Equal(t, "Singh", merged.LastName)
	assert.Equal(t, "Avery", merged.FirstName)
	assert.True(t, merged.IsEmailVerified)

	merged = mergeIdentity(nil, &api.Identity{Email: "new@example.com"})
	require.NotNil(t, merged)
	assert.Equal(t, "new@example.com", merged.Email)

	assert.Nil(t, mergeIdentity(nil, nil))
}

package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/api"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/session"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/store"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/logging"
)

// ------------ helpers ------------

func stubInputs(t *testing.T, texts []string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(texts) {
			t.Fatalf("unexpected extra prompt")
		}
		v := texts[i]
		i++
		return v, nil
	}
	getPassword = func(_ io.Writer) (string, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type memRepo struct {
	data map[string]string
}

func newMemRepo() *memRepo { return &memRepo{data: map[string]string{}} }

func (r *memRepo) Get(_ context.Context, key string) (string, error) { return r.data[key], nil }
func (r *memRepo) Set(_ context.Context, key, value string) error {
	r.data[key] = value
	return nil
}
func (r *memRepo) Delete(_ context.Context, key string) error {
	delete(r.data, key)
	return nil
}
func (r *memRepo) Clear(_ context.Context) error {
	r.data = map[string]string{}
	return nil
}

type fakeAPI struct {
	loginEmail string
	loginPass  string
	loginRes   *api.AuthResult
	loginErr   error

	signupRes *api.AuthResult
	signupErr error
}

func (f *fakeAPI) Login(_ context.Context, email, password, _, _ string) (*api.AuthResult, error) {
	f.loginEmail, f.loginPass = email, password
	return f.loginRes, f.loginErr
}
func (f *fakeAPI) Signup(_ context.Context, _, _, _, _ string) (*api.AuthResult, error) {
	return f.signupRes, f.signupErr
}
func (f *fakeAPI) VerifyEmail(_ context.Context, _, _, _, _ string) (*api.AuthResult, error) {
	return nil, api.ErrUnavailable
}
func (f *fakeAPI) SocialLogin(_ context.Context, _ api.SocialIdentity, _, _ string) (*api.AuthResult, error) {
	return nil, api.ErrUnavailable
}
func (f *fakeAPI) Me(_ context.Context, _ string) (*api.User, error) {
	return nil, api.ErrUnavailable
}
func (f *fakeAPI) Logout(_ context.Context, _, _ string) error { return nil }
func (f *fakeAPI) SubscriptionSync(_ context.Context, _ string, _ bool, _ string) (*api.User, error) {
	return nil, api.ErrUnavailable
}
func (f *fakeAPI) SubscriptionCheck(_ context.Context, _ string) (*api.SubscriptionStatus, error) {
	return nil, api.ErrUnavailable
}

type fakeEnt struct{}

func (fakeEnt) Refresh(context.Context) error    { return nil }
func (fakeEnt) IsPro() bool                      { return false }
func (fakeEnt) OriginalUserID() string           { return "" }
func (fakeEnt) Identify(context.Context, string) {}
func (fakeEnt) Logout(context.Context)           {}

func newTestApp(t *testing.T, client api.Client) *App {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	st := store.New(newMemRepo(), log)
	mgr := session.NewManager(st, client, fakeEnt{}, "test device", log)
	return &App{log: log, store: st, session: mgr}
}

// ------------ tests ------------

func TestLogin_Success(t *testing.T) {
	f := &fakeAPI{loginRes: &api.AuthResult{
		Token: "tok-1",
		User:  &api.User{ID: "u1", Email: "alice@example.org", SubscriptionStatus: "free"},
	}}
	a := newTestApp(t, f)
	stubInputs(t, []string{"alice@example.org"}, "secret")

	a.Login(context.Background())

	require.Equal(t, "alice@example.org", f.loginEmail)
	require.Equal(t, "secret", f.loginPass)
	require.True(t, a.isLoggedIn())
}

func TestLogin_BusinessRejection(t *testing.T) {
	f := &fakeAPI{loginErr: &api.BusinessError{Message: "Invalid credentials"}}
	a := newTestApp(t, f)
	stubInputs(t, []string{"alice@example.org"}, "wrong")

	a.Login(context.Background())

	require.False(t, a.isLoggedIn())
}

func TestRegister_VerificationPath(t *testing.T) {
	f := &fakeAPI{signupRes: &api.AuthResult{
		RequiresVerification: true,
		Email:                "bob@example.org",
	}}
	a := newTestApp(t, f)
	stubInputs(t, []string{"bob@example.org"}, "secret")

	a.Register(context.Background())

	require.False(t, a.isLoggedIn())
}

func TestLogout(t *testing.T) {
	f := &fakeAPI{loginRes: &api.AuthResult{
		Token: "tok-1",
		User:  &api.User{ID: "u1", Email: "alice@example.org"},
	}}
	a := newTestApp(t, f)
	stubInputs(t, []string{"alice@example.org"}, "secret")

	a.Login(context.Background())
	require.True(t, a.isLoggedIn())

	a.Logout(context.Background())
	require.False(t, a.isLoggedIn())
}

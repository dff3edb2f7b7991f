package controller_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Goofygiraffe06/portal/internal/controller"
	"github.com/Goofygiraffe06/portal/internal/models"
)

// stubAuth answers every call with the configured response or error.
type stubAuth struct {
	resp  *models.AuthResponse
	err   error
	calls atomic.Int32
	gate  chan struct{} // when non-nil, calls block until it is closed

	mu       sync.Mutex
	register models.RegisterRequest
}

func (s *stubAuth) wait(ctx context.Context) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
		}
	}
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	s.calls.Add(1)
	s.wait(ctx)
	return s.resp, s.err
}

func (s *stubAuth) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.register = req
	s.mu.Unlock()
	s.wait(ctx)
	return s.resp, s.err
}

func (s *stubAuth) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) (*models.AuthResponse, error) {
	s.calls.Add(1)
	s.wait(ctx)
	return s.resp, s.err
}

func newController(t *testing.T, auth *stubAuth, opts ...controller.Option) *controller.Controller {
	t.Helper()
	c := controller.New(auth, opts...)
	t.Cleanup(c.Close)
	return c
}

func fill(t *testing.T, c *controller.Controller, mode controller.Mode, values map[string]string) {
	t.Helper()
	for k, v := range values {
		if err := c.EditField(mode, k, v); err != nil {
			t.Fatalf("EditField(%s, %s): %v", mode, k, err)
		}
	}
}

func validSignup() map[string]string {
	return map[string]string{
		"firstName":       "Ada",
		"lastName":        "Lovelace",
		"email":           "ada@example.com",
		"password":        "abc123",
		"confirmPassword": "abc123",
	}
}

func TestInitialState(t *testing.T) {
	c := newController(t, &stubAuth{})
	s := c.Snapshot()
	if s.Mode != controller.ModeLogin {
		t.Errorf("expected login mode, got %s", s.Mode)
	}
	if s.User != nil || s.Status != nil || s.Busy || len(s.Errors) != 0 {
		t.Errorf("expected clean initial state, got %+v", s)
	}
	if s.Theme != controller.ThemeLight {
		t.Errorf("expected light theme, got %s", s.Theme)
	}
}

func TestSwitchModeResetsForms(t *testing.T) {
	for _, mode := range []controller.Mode{controller.ModeLogin, controller.ModeSignup, controller.ModeReset} {
		t.Run(mode.String(), func(t *testing.T) {
			c := newController(t, &stubAuth{})
			// Leave login with dirty forms and errors everywhere.
			fill(t, c, controller.ModeLogin, map[string]string{"email": "x@y.z"})
			fill(t, c, controller.ModeSignup, map[string]string{"firstName": "X"})
			c.Submit(context.Background(), controller.ModeLogin)

			if err := c.SwitchMode(mode, nil); err != nil {
				t.Fatalf("SwitchMode: %v", err)
			}
			s := c.Snapshot()
			if s.Mode != mode {
				t.Fatalf("expected %s, got %s", mode, s.Mode)
			}
			for _, f := range controller.Fields(mode) {
				if v, ok := s.Form[f]; !ok || v != "" {
					t.Errorf("expected empty field %s, got %q (present=%t)", f, v, ok)
				}
			}
			if len(s.Errors) != 0 {
				t.Errorf("expected no errors, got %v", s.Errors)
			}
			if s.Status != nil {
				t.Errorf("expected status cleared, got %+v", s.Status)
			}
		})
	}
}

func TestSwitchModePrefill(t *testing.T) {
	c := newController(t, &stubAuth{})
	err := c.SwitchMode(controller.ModeReset, controller.FormRecord{"email": "a@b.com", "password": "ignored"})
	if err != nil {
		t.Fatalf("SwitchMode: %v", err)
	}
	s := c.Snapshot()
	if s.Form["email"] != "a@b.com" {
		t.Errorf("expected email prefilled, got %q", s.Form["email"])
	}
	if _, ok := s.Form["password"]; ok {
		t.Error("expected unknown prefill key to be dropped")
	}
}

func TestSwitchModeTransitions(t *testing.T) {
	c := newController(t, &stubAuth{})

	if err := c.SwitchMode(controller.ModeAuthenticated, nil); !errors.Is(err, controller.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition entering authenticated, got %v", err)
	}
	if err := c.SwitchMode(controller.ModeSignup, nil); err != nil {
		t.Fatalf("login -> signup: %v", err)
	}
	if err := c.SwitchMode(controller.ModeReset, nil); !errors.Is(err, controller.ErrInvalidTransition) {
		t.Errorf("expected signup -> reset to be rejected, got %v", err)
	}
	if got := c.Snapshot().Mode; got != controller.ModeSignup {
		t.Errorf("rejected transition changed mode to %s", got)
	}
	if err := c.SwitchMode(controller.ModeSignup, nil); err != nil {
		t.Errorf("expected self transition to be allowed, got %v", err)
	}
}

func TestEditFieldClearsOnlyItsError(t *testing.T) {
	c := newController(t, &stubAuth{})
	c.SwitchMode(controller.ModeSignup, nil)
	c.Submit(context.Background(), controller.ModeSignup)

	before := c.Snapshot().Errors
	if len(before) != 5 {
		t.Fatalf("expected 5 required errors, got %v", before)
	}

	if err := c.EditField(controller.ModeSignup, "email", "a"); err != nil {
		t.Fatalf("EditField: %v", err)
	}
	after := c.Snapshot().Errors
	if _, ok := after["email"]; ok {
		t.Error("expected email error removed")
	}
	if len(after) != len(before)-1 {
		t.Errorf("expected exactly one error removed, got %v", after)
	}
	for k, v := range after {
		if before[k] != v {
			t.Errorf("error on %s changed from %q to %q", k, before[k], v)
		}
	}
}

func TestEditFieldOtherModeKeepsErrors(t *testing.T) {
	c := newController(t, &stubAuth{})
	c.Submit(context.Background(), controller.ModeLogin)

	fill(t, c, controller.ModeSignup, map[string]string{"email": "a@b.com"})
	if _, ok := c.Snapshot().Errors["email"]; !ok {
		t.Error("editing another mode's form must not clear the active form's errors")
	}
}

func TestEditFieldUnknown(t *testing.T) {
	c := newController(t, &stubAuth{})
	if err := c.EditField(controller.ModeLogin, "firstName", "x"); !errors.Is(err, controller.ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if err := c.EditField(controller.ModeAuthenticated, "email", "x"); !errors.Is(err, controller.ErrUnknownField) {
		t.Errorf("expected ErrUnknownField for authenticated mode, got %v", err)
	}
}

func TestSubmitSignupPasswordMismatch(t *testing.T) {
	auth := &stubAuth{}
	c := newController(t, auth)
	c.SwitchMode(controller.ModeSignup, nil)
	v := validSignup()
	v["confirmPassword"] = "xyz789"
	fill(t, c, controller.ModeSignup, v)

	if err := c.Submit(context.Background(), controller.ModeSignup); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	s := c.Snapshot()
	if s.Errors["confirmPassword"] == "" {
		t.Errorf("expected confirmPassword error, got %v", s.Errors)
	}
	if s.Status == nil || s.Status.Severity != controller.SeverityError || s.Status.Text != controller.MsgFixErrors {
		t.Errorf("expected fix-errors status, got %+v", s.Status)
	}
	if auth.calls.Load() != 0 {
		t.Errorf("expected no network call, got %d", auth.calls.Load())
	}
}

func TestSubmitSignupShortPassword(t *testing.T) {
	auth := &stubAuth{}
	c := newController(t, auth)
	c.SwitchMode(controller.ModeSignup, nil)
	v := validSignup()
	v["password"], v["confirmPassword"] = "ab", "ab"
	fill(t, c, controller.ModeSignup, v)

	c.Submit(context.Background(), controller.ModeSignup)
	s := c.Snapshot()
	if s.Errors["password"] == "" {
		t.Errorf("expected length error on password, got %v", s.Errors)
	}
	if len(s.Errors) != 1 {
		t.Errorf("expected only the password error, got %v", s.Errors)
	}
	if auth.calls.Load() != 0 {
		t.Errorf("expected no network call, got %d", auth.calls.Load())
	}
}

func TestSubmitLoginSuccess(t *testing.T) {
	auth := &stubAuth{resp: &models.AuthResponse{
		Success: true,
		User:    &models.User{ID: 1, Email: "a@b.com", FullName: "A B"},
		Token:   "tok",
	}}
	c := newController(t, auth)
	fill(t, c, controller.ModeLogin, map[string]string{"email": "a@b.com", "password": "secret"})

	if err := c.Submit(context.Background(), controller.ModeLogin); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	s := c.Snapshot()
	if s.Mode != controller.ModeAuthenticated {
		t.Fatalf("expected authenticated, got %s", s.Mode)
	}
	if s.User == nil || s.User.FullName != "A B" || s.User.ID != 1 || s.User.Token != "tok" {
		t.Errorf("unexpected user %+v", s.User)
	}
	if s.Busy {
		t.Error("expected busy flag cleared")
	}
	if s.Form != nil {
		t.Errorf("authenticated mode has no live form, got %v", s.Form)
	}
}

func TestSubmitLoginSuccessWithoutUser(t *testing.T) {
	auth := &stubAuth{resp: &models.AuthResponse{Success: true}}
	c := newController(t, auth)
	fill(t, c, controller.ModeLogin, map[string]string{"email": "a@b.com", "password": "secret"})

	c.Submit(context.Background(), controller.ModeLogin)
	s := c.Snapshot()
	if s.Mode != controller.ModeLogin || s.User != nil {
		t.Errorf("expected to stay logged out, got mode=%s user=%+v", s.Mode, s.User)
	}
	if s.Status == nil || s.Status.Severity != controller.SeverityError {
		t.Errorf("expected error status, got %+v", s.Status)
	}
}

func TestSubmitSignupRedirectsToLogin(t *testing.T) {
	auth := &stubAuth{resp: &models.AuthResponse{
		Success: true,
		User:    &models.User{ID: 7, Email: "ada@example.com", FullName: "Ada Lovelace"},
	}}
	c := newController(t, auth, controller.WithRedirectDelay(20*time.Millisecond))

	redirected := make(chan controller.State, 1)
	c.Subscribe(func(s controller.State) {
		if s.Mode == controller.ModeLogin && !s.RedirectPending {
			select {
			case redirected <- s:
			default:
			}
		}
	})

	c.SwitchMode(controller.ModeSignup, nil)
	// Drain the notification from the explicit switch above.
	select {
	case <-redirected:
	default:
	}
	fill(t, c, controller.ModeSignup, validSignup())

	start := time.Now()
	if err := c.Submit(context.Background(), controller.ModeSignup); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	s := c.Snapshot()
	if s.Mode != controller.ModeSignup || !s.RedirectPending {
		t.Fatalf("expected to wait on signup with redirect pending, got %s pending=%t", s.Mode, s.RedirectPending)
	}
	if s.Status == nil || s.Status.Severity != controller.SeveritySuccess || s.Status.Text != "Account created for Ada Lovelace! Redirecting to login..." {
		t.Errorf("unexpected status %+v", s.Status)
	}
	if auth.register.Email != "ada@example.com" || auth.register.FirstName != "Ada" {
		t.Errorf("unexpected register payload %+v", auth.register)
	}

	select {
	case s = <-redirected:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for redirect to login")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("redirect fired before the delay: %v", elapsed)
	}
	if s.Form["email"] != "ada@example.com" {
		t.Errorf("expected email prefilled, got %q", s.Form["email"])
	}
	if s.Form["password"] != "" {
		t.Errorf("expected empty password, got %q", s.Form["password"])
	}
	if s.Status != nil {
		t.Errorf("expected status cleared after redirect, got %+v", s.Status)
	}
}

func TestRedirectCancelledByNavigation(t *testing.T) {
	auth := &stubAuth{resp: &models.AuthResponse{Success: true, Message: "Password updated"}}
	c := newController(t, auth, controller.WithRedirectDelay(30*time.Millisecond))

	c.SwitchMode(controller.ModeReset, nil)
	fill(t, c, controller.ModeReset, map[string]string{
		"email": "a@b.com", "newPassword": "secret1", "confirmPassword": "secret1",
	})
	c.Submit(context.Background(), controller.ModeReset)

	s := c.Snapshot()
	if s.Status == nil || s.Status.Text != "Password updated" {
		t.Fatalf("expected server success message, got %+v", s.Status)
	}

	c.SwitchMode(controller.ModeLogin, nil)
	c.SwitchMode(controller.ModeSignup, nil)
	time.Sleep(80 * time.Millisecond)

	if got := c.Snapshot(); got.Mode != controller.ModeSignup || got.Form["email"] != "" {
		t.Errorf("cancelled redirect still fired: mode=%s email=%q", got.Mode, got.Form["email"])
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	auth := &stubAuth{err: errors.New("connection refused")}
	c := newController(t, auth)
	c.SwitchMode(controller.ModeSignup, nil)
	fill(t, c, controller.ModeSignup, validSignup())

	c.Submit(context.Background(), controller.ModeSignup)
	s := c.Snapshot()
	if s.Mode != controller.ModeSignup {
		t.Errorf("expected mode unchanged, got %s", s.Mode)
	}
	if s.Status == nil || s.Status.Severity != controller.SeverityError || s.Status.Text != controller.MsgUnreachable {
		t.Errorf("expected unreachable status, got %+v", s.Status)
	}
	if s.Busy {
		t.Error("expected busy flag cleared")
	}
}

func TestSubmitDomainFailures(t *testing.T) {
	tests := []struct {
		name       string
		resp       *models.AuthResponse
		wantStatus string
		wantErrors map[string]string
	}{
		{
			name:       "message only",
			resp:       &models.AuthResponse{Message: "Invalid email or password!"},
			wantStatus: "Invalid email or password!",
			wantErrors: map[string]string{},
		},
		{
			name:       "no message",
			resp:       &models.AuthResponse{},
			wantStatus: controller.MsgLoginFailed,
			wantErrors: map[string]string{},
		},
		{
			name: "field errors",
			resp: &models.AuthResponse{
				Message: "ignored",
				Errors:  map[string]string{"email": "Unknown account", "nickname": "not a login field"},
			},
			wantStatus: controller.MsgFixErrors,
			wantErrors: map[string]string{"email": "Unknown account"},
		},
		{
			name:       "only foreign field errors",
			resp:       &models.AuthResponse{Message: "Nope", Errors: map[string]string{"nickname": "x"}},
			wantStatus: "Nope",
			wantErrors: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, &stubAuth{resp: tt.resp})
			fill(t, c, controller.ModeLogin, map[string]string{"email": "a@b.com", "password": "secret"})
			c.Submit(context.Background(), controller.ModeLogin)

			s := c.Snapshot()
			if s.Mode != controller.ModeLogin || s.Busy {
				t.Errorf("expected login, not busy; got %s busy=%t", s.Mode, s.Busy)
			}
			if s.Status == nil || s.Status.Text != tt.wantStatus || s.Status.Severity != controller.SeverityError {
				t.Errorf("expected status %q, got %+v", tt.wantStatus, s.Status)
			}
			if len(s.Errors) != len(tt.wantErrors) {
				t.Fatalf("expected errors %v, got %v", tt.wantErrors, s.Errors)
			}
			for k, v := range tt.wantErrors {
				if s.Errors[k] != v {
					t.Errorf("error %s: expected %q, got %q", k, v, s.Errors[k])
				}
			}
		})
	}
}

func TestSubmitRejectedWhileBusy(t *testing.T) {
	auth := &stubAuth{
		resp: &models.AuthResponse{Success: false, Message: "no"},
		gate: make(chan struct{}),
	}
	c := newController(t, auth)
	fill(t, c, controller.ModeLogin, map[string]string{"email": "a@b.com", "password": "secret"})

	done := c.SubmitAsync(controller.ModeLogin)
	if !c.Snapshot().Busy {
		t.Fatal("expected busy flag set once SubmitAsync returns")
	}

	if err := c.Submit(context.Background(), controller.ModeLogin); !errors.Is(err, controller.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	// Other forms stay editable while the call is in flight.
	if err := c.EditField(controller.ModeSignup, "firstName", "Ada"); err != nil {
		t.Errorf("expected edit during flight to succeed, got %v", err)
	}

	close(auth.gate)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected async error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for async submission")
	}
	if auth.calls.Load() != 1 {
		t.Errorf("expected exactly one network call, got %d", auth.calls.Load())
	}
	if c.Snapshot().Busy {
		t.Error("expected busy flag cleared after settlement")
	}
}

func TestStaleSettlementDiscarded(t *testing.T) {
	auth := &stubAuth{
		resp: &models.AuthResponse{Success: true, User: &models.User{ID: 1, Email: "a@b.com", FullName: "A B"}},
		gate: make(chan struct{}),
	}
	c := newController(t, auth)
	fill(t, c, controller.ModeLogin, map[string]string{"email": "a@b.com", "password": "secret"})

	done := c.SubmitAsync(controller.ModeLogin)
	c.SwitchMode(controller.ModeSignup, nil)
	close(auth.gate)
	<-done

	s := c.Snapshot()
	if s.Mode != controller.ModeSignup || s.User != nil {
		t.Errorf("expected stale login to be ignored, got mode=%s user=%+v", s.Mode, s.User)
	}
	if s.Busy {
		t.Error("expected busy flag cleared")
	}
}

func TestSubmitInactiveMode(t *testing.T) {
	c := newController(t, &stubAuth{})
	if err := c.Submit(context.Background(), controller.ModeSignup); !errors.Is(err, controller.ErrNotActive) {
		t.Errorf("expected ErrNotActive, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	auth := &stubAuth{resp: &models.AuthResponse{
		Success: true,
		User:    &models.User{ID: 1, Email: "a@b.com", FullName: "A B"},
	}}
	c := newController(t, auth)
	fill(t, c, controller.ModeLogin, map[string]string{"email": "a@b.com", "password": "secret"})
	c.Submit(context.Background(), controller.ModeLogin)
	if c.Snapshot().Mode != controller.ModeAuthenticated {
		t.Fatal("setup: expected authenticated")
	}
	c.ToggleTheme()

	c.Logout()
	s := c.Snapshot()
	if s.Mode != controller.ModeLogin || s.User != nil || s.Status != nil {
		t.Errorf("unexpected state after logout: %+v", s)
	}
	for _, f := range controller.Fields(controller.ModeLogin) {
		if s.Form[f] != "" {
			t.Errorf("expected empty login field %s, got %q", f, s.Form[f])
		}
	}
	if s.Theme != controller.ThemeDark {
		t.Error("expected theme to survive logout")
	}
}

func TestToggleTheme(t *testing.T) {
	c := newController(t, &stubAuth{}, controller.WithTheme(controller.ThemeDark))
	if got := c.ToggleTheme(); got != controller.ThemeLight {
		t.Errorf("expected light, got %s", got)
	}
	if got := c.ToggleTheme(); got != controller.ThemeDark {
		t.Errorf("expected dark, got %s", got)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	c := newController(t, &stubAuth{})
	s := c.Snapshot()
	s.Form["email"] = "mutated"
	if c.Snapshot().Form["email"] != "" {
		t.Error("mutating a snapshot leaked into controller state")
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	c := newController(t, &stubAuth{})
	var count atomic.Int32
	unsubscribe := c.Subscribe(func(controller.State) { count.Add(1) })

	c.EditField(controller.ModeLogin, "email", "a")
	unsubscribe()
	c.EditField(controller.ModeLogin, "email", "b")

	if count.Load() != 1 {
		t.Errorf("expected one notification, got %d", count.Load())
	}
}

func TestClassify(t *testing.T) {
	if _, ok := controller.Classify(nil, errors.New("boom")).(controller.TransportFailure); !ok {
		t.Error("expected transport failure for error")
	}
	if _, ok := controller.Classify(nil, nil).(controller.TransportFailure); !ok {
		t.Error("expected transport failure for missing response")
	}
	if _, ok := controller.Classify(&models.AuthResponse{Success: true}, nil).(controller.Success); !ok {
		t.Error("expected success")
	}
	if _, ok := controller.Classify(&models.AuthResponse{}, nil).(controller.DomainFailure); !ok {
		t.Error("expected domain failure")
	}
}

func TestSubmitResetRedirectsToLogin(t *testing.T) {
	auth := &stubAuth{resp: &models.AuthResponse{Success: true}}
	c := newController(t, auth, controller.WithRedirectDelay(20*time.Millisecond))

	redirected := make(chan controller.State, 1)
	c.Subscribe(func(s controller.State) {
		if s.Mode == controller.ModeLogin && !s.RedirectPending {
			select {
			case redirected <- s:
			default:
			}
		}
	})

	c.SwitchMode(controller.ModeReset, nil)
	select {
	case <-redirected:
	default:
	}
	fill(t, c, controller.ModeReset, map[string]string{
		"email": "ada@example.com", "newPassword": "secret1", "confirmPassword": "secret1",
	})

	if err := c.Submit(context.Background(), controller.ModeReset); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	s := c.Snapshot()
	if s.Mode != controller.ModeReset || !s.RedirectPending {
		t.Fatalf("expected to wait on reset with redirect pending, got %s pending=%t", s.Mode, s.RedirectPending)
	}
	if s.Status == nil || s.Status.Severity != controller.SeveritySuccess || s.Status.Text != controller.MsgResetDone {
		t.Errorf("unexpected status %+v", s.Status)
	}

	select {
	case s = <-redirected:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for redirect to login")
	}
	if s.Form["email"] != "ada@example.com" {
		t.Errorf("expected email prefilled, got %q", s.Form["email"])
	}
	if s.Form["password"] != "" {
		t.Errorf("expected empty password, got %q", s.Form["password"])
	}
	if s.Status != nil {
		t.Errorf("expected status cleared after redirect, got %+v", s.Status)
	}
	if got := c.Snapshot(); got.Mode != controller.ModeLogin {
		t.Errorf("expected login mode, got %s", got.Mode)
	}
	// The reset form is fresh if the user comes back to it.
	c.SwitchMode(controller.ModeReset, nil)
	if got := c.Snapshot(); got.Form["newPassword"] != "" || got.Form["confirmPassword"] != "" {
		t.Errorf("reset passwords survived the redirect: %+v", got.Form)
	}
}

func TestObserversSeeStatesInOrder(t *testing.T) {
	c := newController(t, &stubAuth{})

	var (
		mu     sync.Mutex
		themes []controller.Theme
	)
	c.Subscribe(func(s controller.State) {
		mu.Lock()
		themes = append(themes, s.Theme)
		mu.Unlock()
	})

	const goroutines, toggles = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < toggles; j++ {
				c.ToggleTheme()
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(themes) != goroutines*toggles {
		t.Fatalf("expected %d notifications, got %d", goroutines*toggles, len(themes))
	}
	want := controller.ThemeDark
	for i, th := range themes {
		if th != want {
			t.Fatalf("notification %d: expected %s, got %s", i, want, th)
		}
		if want == controller.ThemeDark {
			want = controller.ThemeLight
		} else {
			want = controller.ThemeDark
		}
	}
}

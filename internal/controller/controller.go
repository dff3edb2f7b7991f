// Package controller owns the client's view state: which screen is active,
// the form behind each screen, validation errors, the status banner and the
// signed-in user. Every transition goes through a Controller method.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/models"
	"github.com/Goofygiraffe06/portal/internal/utils"
	"github.com/Goofygiraffe06/portal/internal/validation"
	"github.com/Goofygiraffe06/portal/internal/workerpool"
)

const (
	MsgFixErrors     = "Please fix the errors below"
	MsgUnreachable   = "Unable to reach server. Please try again later."
	MsgResetDone     = "Password reset successfully! Redirecting to login..."
	MsgLoginFailed   = "Login failed. Please check your credentials."
	MsgSignupFailed  = "Registration failed. Please try again."
	MsgResetFailed   = "Password reset failed. Please try again."
	MsgLoginNoUser   = "Login failed: the server sent an incomplete response."
	signupDoneFormat = "Account created for %s! Redirecting to login..."

	DefaultRedirectDelay = 2 * time.Second
)

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("submission already in progress")
	// ErrInvalidTransition is returned for a mode switch outside the allowed edges.
	ErrInvalidTransition = errors.New("invalid mode transition")
	// ErrUnknownField is returned when editing a field the mode's form lacks.
	ErrUnknownField = errors.New("unknown form field")
	// ErrNotActive is returned when submitting a form that is not on screen.
	ErrNotActive = errors.New("mode is not active")
)

// Authenticator is the auth service as the controller sees it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) (*models.AuthResponse, error)
}

// Controller is safe for concurrent use. At most one submission is in
// flight at a time.
type Controller struct {
	auth          Authenticator
	redirectDelay time.Duration
	pool          *workerpool.Pool

	mu     sync.Mutex
	mode   Mode
	forms  map[Mode]FormRecord
	errors map[string]string
	status *StatusMessage
	busy   bool
	user   *AuthenticatedUser
	theme  Theme

	// generation changes on every explicit navigation so settlements and
	// redirects scheduled before it can tell they are stale.
	generation uint64
	redirect   *time.Timer

	nextObserver int
	observers    map[int]func(State)
	outbox       []State
	delivering   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithRedirectDelay sets how long a signup/reset success stays on screen
// before returning to login.
func WithRedirectDelay(d time.Duration) Option {
	return func(c *Controller) { c.redirectDelay = d }
}

// WithTheme sets the initial theme.
func WithTheme(t Theme) Option {
	return func(c *Controller) { c.theme = t }
}

// New returns a controller in login mode with empty forms.
func New(auth Authenticator, opts ...Option) *Controller {
	c := &Controller{
		auth:          auth,
		redirectDelay: DefaultRedirectDelay,
		mode:          ModeLogin,
		forms:         emptyForms(),
		errors:        make(map[string]string),
		observers:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	// One worker: submissions never overlap, and queueing is refused by the
	// busy flag before a task ever reaches the pool.
	c.pool = workerpool.New("submit", 1, 4, workerpool.WithTaskTimeout(0))
	return c
}

// Close cancels any pending redirect and stops background work.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopRedirectLocked()
	c.mu.Unlock()
	c.pool.Close()
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func removes it.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// unlockAndNotify queues the current state and releases c.mu. Observers
// run without the lock, so they may call back into the controller. Only
// one goroutine delivers at a time and it drains the queue in order, so
// observers see states in the order they were produced.
func (c *Controller) unlockAndNotify() {
	c.outbox = append(c.outbox, c.snapshotLocked())
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true
	for len(c.outbox) > 0 {
		s := c.outbox[0]
		c.outbox[0] = State{}
		c.outbox = c.outbox[1:]
		obs := make([]func(State), 0, len(c.observers))
		for _, fn := range c.observers {
			obs = append(obs, fn)
		}
		c.mu.Unlock()
		for _, fn := range obs {
			fn(s)
		}
		c.mu.Lock()
	}
	c.delivering = false
	c.mu.Unlock()
}

// SwitchMode shows target with fresh forms. prefill seeds the target form;
// keys it does not know are ignored.
func (c *Controller) SwitchMode(target Mode, prefill FormRecord) error {
	c.mu.Lock()
	if !canSwitch(c.mode, target) {
		from := c.mode
		c.mu.Unlock()
		logging.WarnLog("View: rejected transition %s -> %s", from, target)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
	}
	c.switchLocked(target, prefill)
	c.unlockAndNotify()
	return nil
}

func (c *Controller) switchLocked(target Mode, prefill FormRecord) {
	c.stopRedirectLocked()
	c.generation++
	logging.DebugLog("View: %s -> %s", c.mode, target)

	c.mode = target
	c.status = nil
	c.errors = make(map[string]string)
	c.forms = emptyForms()
	for k, v := range prefill {
		if hasField(target, k) {
			c.forms[target][k] = v
		}
	}
}

// EditField stores value in mode's form. An error shown for that field on
// the active form disappears.
func (c *Controller) EditField(mode Mode, field, value string) error {
	if !hasField(mode, field) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, mode, field)
	}
	c.mu.Lock()
	c.forms[mode][field] = value
	if mode == c.mode {
		delete(c.errors, field)
	}
	c.unlockAndNotify()
	return nil
}

// Logout forgets the user and every form and returns to login.
func (c *Controller) Logout() {
	c.mu.Lock()
	if c.user != nil {
		logging.InfoLog("Session: logout [%s]", utils.HashEmail(c.user.Email))
	}
	c.stopRedirectLocked()
	c.generation++
	c.user = nil
	c.status = nil
	c.errors = make(map[string]string)
	c.forms = emptyForms()
	c.mode = ModeLogin
	c.unlockAndNotify()
}

// ToggleTheme flips between light and dark.
func (c *Controller) ToggleTheme() Theme {
	c.mu.Lock()
	if c.theme == ThemeDark {
		c.theme = ThemeLight
	} else {
		c.theme = ThemeDark
	}
	t := c.theme
	c.unlockAndNotify()
	return t
}

// pending is a submission that passed local validation and holds the busy
// flag.
type pending struct {
	mode       Mode
	form       FormRecord
	request    any
	generation uint64
	started    time.Time
}

// Submit validates the active form and, if it is clean, sends it to the
// auth service and applies the outcome. Validation and service failures
// are reported through state, not the returned error; the error is only
// non-nil when the submission was refused outright.
func (c *Controller) Submit(ctx context.Context, mode Mode) error {
	p, err := c.begin(mode)
	if err != nil || p == nil {
		return err
	}
	c.finish(ctx, p)
	return nil
}

// SubmitAsync is Submit run on the controller's worker. The busy check and
// local validation happen before it returns; the channel yields once the
// outcome has been applied.
func (c *Controller) SubmitAsync(mode Mode) <-chan error {
	done := make(chan error, 1)

	p, err := c.begin(mode)
	if err != nil || p == nil {
		done <- err
		return done
	}

	if err := c.pool.Submit(func(ctx context.Context) {
		c.finish(ctx, p)
		done <- nil
	}); err != nil {
		logging.ErrorLog("View: could not schedule %s submission: %v", mode, err)
		c.settle(p, TransportFailure{Cause: err})
		done <- nil
	}
	return done
}

// begin returns nil, nil when local validation failed and state already
// shows why.
func (c *Controller) begin(mode Mode) (*pending, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if mode != c.mode || mode == ModeAuthenticated {
		active := c.mode
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s (active %s)", ErrNotActive, mode, active)
	}

	c.stopRedirectLocked()
	form := c.forms[mode].clone()
	req := buildRequest(mode, form)

	c.errors = make(map[string]string)
	if errs := validation.Struct(req); len(errs) > 0 {
		logging.DebugLog("View: %s blocked by %d validation errors", mode, len(errs))
		c.errors = errs
		c.status = &StatusMessage{Text: MsgFixErrors, Severity: SeverityError}
		c.unlockAndNotify()
		return nil, nil
	}

	c.busy = true
	c.status = nil
	p := &pending{
		mode:       mode,
		form:       form,
		request:    req,
		generation: c.generation,
		started:    time.Now(),
	}
	c.unlockAndNotify()
	return p, nil
}

func (c *Controller) finish(ctx context.Context, p *pending) {
	var (
		resp *models.AuthResponse
		err  error
	)
	switch req := p.request.(type) {
	case models.LoginRequest:
		resp, err = c.auth.Login(ctx, req.Email, req.Password)
	case models.RegisterRequest:
		resp, err = c.auth.Register(ctx, req)
	case models.ResetPasswordRequest:
		resp, err = c.auth.ResetPassword(ctx, req.Email, req.NewPassword, req.ConfirmPassword)
	}
	c.settle(p, Classify(resp, err))
}

func (c *Controller) settle(p *pending, result Result) {
	emailHash := utils.HashEmail(p.form["email"])

	c.mu.Lock()
	c.busy = false
	if p.generation != c.generation {
		logging.DebugLog("View: discarding stale %s outcome [%s]", p.mode, emailHash)
		c.unlockAndNotify()
		return
	}

	switch r := result.(type) {
	case TransportFailure:
		logging.WarnLog("View: %s transport failure [%s] %v: %v", p.mode, emailHash, time.Since(p.started), r.Cause)
		c.status = &StatusMessage{Text: MsgUnreachable, Severity: SeverityError}

	case DomainFailure:
		errs := knownFields(p.mode, r.Errors)
		if len(errs) > 0 {
			c.errors = errs
			c.status = &StatusMessage{Text: MsgFixErrors, Severity: SeverityError}
		} else {
			msg := strings.TrimSpace(r.Message)
			if msg == "" {
				msg = failureText(p.mode)
			}
			c.status = &StatusMessage{Text: msg, Severity: SeverityError}
		}
		logging.InfoLog("View: %s rejected by service [%s] fieldErrors=%d", p.mode, emailHash, len(errs))

	case Success:
		c.applySuccessLocked(p, r)
	}
	c.unlockAndNotify()
}

func (c *Controller) applySuccessLocked(p *pending, r Success) {
	email := p.form["email"]
	emailHash := utils.HashEmail(email)

	switch p.mode {
	case ModeLogin:
		if r.User == nil {
			logging.WarnLog("View: login success without user [%s]", emailHash)
			c.status = &StatusMessage{Text: MsgLoginNoUser, Severity: SeverityError}
			return
		}
		c.generation++
		c.user = &AuthenticatedUser{
			ID:       r.User.ID,
			Email:    r.User.Email,
			FullName: r.User.FullName,
			Token:    r.Token,
		}
		c.mode = ModeAuthenticated
		c.forms[ModeLogin] = emptyForm(ModeLogin)
		c.errors = make(map[string]string)
		c.status = nil
		logging.InfoLog("Session: login [%s] %v", emailHash, time.Since(p.started))

	case ModeSignup:
		name := strings.TrimSpace(p.form["firstName"] + " " + p.form["lastName"])
		if r.User != nil && strings.TrimSpace(r.User.FullName) != "" {
			name = r.User.FullName
		}
		c.status = &StatusMessage{Text: fmt.Sprintf(signupDoneFormat, name), Severity: SeveritySuccess}
		c.scheduleRedirectLocked(email)
		logging.InfoLog("View: signup completed [%s]", emailHash)

	case ModeReset:
		msg := strings.TrimSpace(r.Message)
		if msg == "" {
			msg = MsgResetDone
		}
		c.status = &StatusMessage{Text: msg, Severity: SeveritySuccess}
		c.scheduleRedirectLocked(email)
		logging.InfoLog("View: password reset completed [%s]", emailHash)
	}
}

// scheduleRedirectLocked returns to login with email filled in once the
// redirect delay passes, unless the user navigated in the meantime.
func (c *Controller) scheduleRedirectLocked(email string) {
	c.stopRedirectLocked()
	gen := c.generation
	var t *time.Timer
	t = time.AfterFunc(c.redirectDelay, func() {
		c.mu.Lock()
		if c.redirect != t || c.generation != gen {
			c.mu.Unlock()
			return
		}
		c.redirect = nil
		c.switchLocked(ModeLogin, FormRecord{"email": email})
		c.unlockAndNotify()
	})
	c.redirect = t
}

func (c *Controller) stopRedirectLocked() {
	if c.redirect != nil {
		c.redirect.Stop()
		c.redirect = nil
	}
}

func buildRequest(mode Mode, f FormRecord) any {
	switch mode {
	case ModeSignup:
		return models.RegisterRequest{
			FirstName:       f["firstName"],
			LastName:        f["lastName"],
			Email:           f["email"],
			Password:        f["password"],
			ConfirmPassword: f["confirmPassword"],
		}
	case ModeReset:
		return models.ResetPasswordRequest{
			Email:           f["email"],
			NewPassword:     f["newPassword"],
			ConfirmPassword: f["confirmPassword"],
		}
	default:
		return models.LoginRequest{Email: f["email"], Password: f["password"]}
	}
}

func knownFields(mode Mode, errs map[string]string) map[string]string {
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		if hasField(mode, k) && strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	return out
}

func failureText(mode Mode) string {
	switch mode {
	case ModeSignup:
		return MsgSignupFailed
	case ModeReset:
		return MsgResetFailed
	default:
		return MsgLoginFailed
	}
}

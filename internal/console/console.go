// Package console is a line-oriented terminal front end for the view-state
// controller. It renders snapshots and turns typed lines into controller
// operations.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Goofygiraffe06/portal/internal/controller"
	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/fatih/color"
)

const helpText = `Commands:
  <field>=<value>   edit a field of the current form
  :submit           submit the current form
  :login :signup    switch view
  :reset            forgot password
  :back             back to login
  :logout           sign out
  :theme            toggle light/dark
  :help             show this help
  :quit             exit`

type palette struct {
	title, subtitle, label, value, fieldErr, success, failure, hint *color.Color
}

var palettes = map[controller.Theme]palette{
	controller.ThemeLight: {
		title:    color.New(color.FgBlue, color.Bold),
		subtitle: color.New(color.FgHiBlack),
		label:    color.New(color.FgBlack, color.Bold),
		value:    color.New(color.FgBlack),
		fieldErr: color.New(color.FgRed),
		success:  color.New(color.FgGreen, color.Bold),
		failure:  color.New(color.FgRed, color.Bold),
		hint:     color.New(color.FgMagenta),
	},
	controller.ThemeDark: {
		title:    color.New(color.FgHiCyan, color.Bold),
		subtitle: color.New(color.FgWhite),
		label:    color.New(color.FgHiWhite, color.Bold),
		value:    color.New(color.FgWhite),
		fieldErr: color.New(color.FgHiRed),
		success:  color.New(color.FgHiGreen, color.Bold),
		failure:  color.New(color.FgHiRed, color.Bold),
		hint:     color.New(color.FgHiMagenta),
	},
}

var headings = map[controller.Mode][2]string{
	controller.ModeLogin:         {"Welcome Back", "Please sign in to your account"},
	controller.ModeSignup:        {"Create Account", "Please fill in your information to sign up"},
	controller.ModeReset:         {"Reset Password", "Enter your email and choose a new password"},
	controller.ModeAuthenticated: {"Dashboard", "You have successfully logged in."},
}

var busyLabels = map[controller.Mode]string{
	controller.ModeLogin:  "Signing in...",
	controller.ModeSignup: "Creating account...",
	controller.ModeReset:  "Resetting password...",
}

var navHints = map[controller.Mode]string{
	controller.ModeLogin:         "Don't have an account? :signup   Forgot password? :reset",
	controller.ModeSignup:        "Already have an account? :login",
	controller.ModeReset:         ":back to login",
	controller.ModeAuthenticated: ":logout to sign out",
}

// Session drives one controller from one input stream.
type Session struct {
	ctrl     *controller.Controller
	in       io.Reader
	handling atomic.Bool
	missed   atomic.Bool

	mu  sync.Mutex
	out io.Writer
}

// NewSession binds ctrl to in and out.
func NewSession(ctrl *controller.Controller, in io.Reader, out io.Writer) *Session {
	return &Session{ctrl: ctrl, in: in, out: out}
}

// Run renders the current view and processes lines until :quit, EOF or ctx
// is cancelled. Cancelling ctx returns promptly even while waiting for input.
func (s *Session) Run(ctx context.Context) error {
	// Redraw when a deferred redirect lands while we are waiting on input.
	unsubscribe := s.ctrl.Subscribe(s.onChange())
	defer unsubscribe()

	s.render(s.ctrl.Snapshot())

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, scanErr := s.readLines(readCtx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			return err
		case line := <-lines:
			quit, err := s.handle(ctx, line)
			if err != nil {
				s.printf("%s\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// readLines scans s.in on its own goroutine. A read blocked in s.in is
// abandoned, not interrupted, when ctx ends.
func (s *Session) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()
	return lines, scanErr
}

func (s *Session) onChange() func(controller.State) {
	var (
		mu         sync.Mutex
		wasPending bool
	)
	return func(st controller.State) {
		mu.Lock()
		fire := wasPending && !st.RedirectPending && st.Mode == controller.ModeLogin
		wasPending = st.RedirectPending
		mu.Unlock()
		if !fire {
			return
		}
		// While a line is being handled the redraw waits for handle to finish.
		if s.handling.Load() {
			s.missed.Store(true)
			return
		}
		s.render(st)
	}
}

// handle applies one input line. It reports whether the session should end.
func (s *Session) handle(ctx context.Context, line string) (bool, error) {
	s.handling.Store(true)
	defer func() {
		s.handling.Store(false)
		if s.missed.Swap(false) {
			s.render(s.ctrl.Snapshot())
		}
	}()

	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	if !strings.HasPrefix(line, ":") {
		field, value, ok := strings.Cut(line, "=")
		if !ok {
			return false, fmt.Errorf("unrecognized input %q; type :help", line)
		}
		mode := s.ctrl.Snapshot().Mode
		if err := s.ctrl.EditField(mode, strings.TrimSpace(field), value); err != nil {
			return false, fieldHint(mode, err)
		}
		return false, nil
	}

	var err error
	switch cmd := strings.ToLower(line[1:]); cmd {
	case "quit", "q", "exit":
		return true, nil
	case "help", "h", "?":
		s.printf("%s\n", helpText)
		return false, nil
	case "submit", "s":
		err = s.submit(ctx)
	case "login", "back":
		err = s.ctrl.SwitchMode(controller.ModeLogin, nil)
	case "signup":
		err = s.ctrl.SwitchMode(controller.ModeSignup, nil)
	case "reset", "forgot":
		err = s.ctrl.SwitchMode(controller.ModeReset, nil)
	case "logout":
		s.ctrl.Logout()
	case "theme":
		s.ctrl.ToggleTheme()
	default:
		return false, fmt.Errorf("unknown command :%s; type :help", cmd)
	}
	if errors.Is(err, controller.ErrInvalidTransition) {
		err = fmt.Errorf("that view is not reachable from here")
	}
	if err == nil {
		s.missed.Store(false)
		s.render(s.ctrl.Snapshot())
	}
	return false, err
}

func (s *Session) submit(ctx context.Context) error {
	mode := s.ctrl.Snapshot().Mode
	if mode == controller.ModeAuthenticated {
		return fmt.Errorf("nothing to submit; use :logout")
	}
	done := s.ctrl.SubmitAsync(mode)
	if st := s.ctrl.Snapshot(); st.Busy {
		s.printf("%s\n", busyLabels[mode])
	}
	select {
	case err := <-done:
		if err != nil {
			logging.DebugLog("Console: submit refused: %v", err)
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func fieldHint(mode controller.Mode, err error) error {
	if errors.Is(err, controller.ErrUnknownField) {
		fields := controller.Fields(mode)
		if len(fields) == 0 {
			return fmt.Errorf("the %s view has no form", mode)
		}
		return fmt.Errorf("unknown field; the %s form has: %s", mode, strings.Join(fields, ", "))
	}
	return err
}

func (s *Session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) render(st controller.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	Render(s.out, st)
}

// Render writes one frame for st.
func Render(w io.Writer, st controller.State) {
	p := palettes[st.Theme]
	h := headings[st.Mode]

	fmt.Fprintln(w)
	p.title.Fprintf(w, "== %s ==\n", h[0])

	if st.Mode == controller.ModeAuthenticated && st.User != nil {
		p.title.Fprintf(w, "Welcome, %s!\n", st.User.FullName)
		p.subtitle.Fprintln(w, h[1])
		p.label.Fprint(w, "  Email:   ")
		p.value.Fprintln(w, st.User.Email)
		p.label.Fprint(w, "  User ID: ")
		p.value.Fprintln(w, st.User.ID)
	} else {
		p.subtitle.Fprintln(w, h[1])
		for _, f := range controller.Fields(st.Mode) {
			p.label.Fprintf(w, "  %-16s", f+":")
			p.value.Fprintln(w, mask(f, st.Form[f]))
			if msg, ok := st.Errors[f]; ok {
				p.fieldErr.Fprintf(w, "    ! %s\n", msg)
			}
		}
		// Errors for fields not on screen would be a controller bug; show
		// them rather than hide them.
		var stray []string
		for f := range st.Errors {
			if !contains(controller.Fields(st.Mode), f) {
				stray = append(stray, f)
			}
		}
		sort.Strings(stray)
		for _, f := range stray {
			p.fieldErr.Fprintf(w, "  ! %s: %s\n", f, st.Errors[f])
		}
	}

	if st.Status != nil {
		c := p.failure
		if st.Status.Severity == controller.SeveritySuccess {
			c = p.success
		}
		c.Fprintf(w, "[%s] %s\n", st.Status.Severity, st.Status.Text)
	}
	if st.Busy {
		p.hint.Fprintln(w, busyLabels[st.Mode])
	}
	p.hint.Fprintln(w, navHints[st.Mode])
}

func mask(field, value string) string {
	if strings.Contains(strings.ToLower(field), "password") {
		return strings.Repeat("*", len([]rune(value)))
	}
	return value
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

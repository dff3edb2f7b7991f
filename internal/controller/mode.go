package controller

import (
	"fmt"
	"strings"
)

// Mode is the active top-level screen.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
	ModeReset
	ModeAuthenticated
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeSignup:
		return "signup"
	case ModeReset:
		return "reset"
	case ModeAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a mode name back to its Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "login":
		return ModeLogin, true
	case "signup":
		return ModeSignup, true
	case "reset":
		return ModeReset, true
	case "authenticated":
		return ModeAuthenticated, true
	}
	return 0, false
}

// Field names of each form, in display order. They match the JSON names of
// the request bodies, so validation and server errors key into them directly.
var formFields = map[Mode][]string{
	ModeLogin:  {"email", "password"},
	ModeSignup: {"firstName", "lastName", "email", "password", "confirmPassword"},
	ModeReset:  {"email", "newPassword", "confirmPassword"},
}

// Fields returns the form fields of m, or nil for a mode without a form.
func Fields(m Mode) []string {
	return append([]string(nil), formFields[m]...)
}

func hasField(m Mode, field string) bool {
	for _, f := range formFields[m] {
		if f == field {
			return true
		}
	}
	return false
}

// allowed lists explicit navigation edges. Authenticated is entered only by
// a successful login and left only by Logout.
var allowed = map[Mode][]Mode{
	ModeLogin:  {ModeLogin, ModeSignup, ModeReset},
	ModeSignup: {ModeSignup, ModeLogin},
	ModeReset:  {ModeReset, ModeLogin},
}

func canSwitch(from, to Mode) bool {
	for _, m := range allowed[from] {
		if m == to {
			return true
		}
	}
	return false
}

// Theme is the display preference carried across views.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// Severity classifies a status message.
type Severity int

const (
	SeveritySuccess Severity = iota + 1
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

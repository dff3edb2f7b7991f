package controller

// FormRecord maps field names to their current values.
type FormRecord map[string]string

func (f FormRecord) clone() FormRecord {
	if f == nil {
		return nil
	}
	out := make(FormRecord, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func emptyForm(m Mode) FormRecord {
	f := make(FormRecord, len(formFields[m]))
	for _, name := range formFields[m] {
		f[name] = ""
	}
	return f
}

func emptyForms() map[Mode]FormRecord {
	return map[Mode]FormRecord{
		ModeLogin:  emptyForm(ModeLogin),
		ModeSignup: emptyForm(ModeSignup),
		ModeReset:  emptyForm(ModeReset),
	}
}

// StatusMessage is the banner shown above the active form.
type StatusMessage struct {
	Text     string
	Severity Severity
}

// AuthenticatedUser is the signed-in account.
type AuthenticatedUser struct {
	ID       int64
	Email    string
	FullName string
	Token    string
}

// State is a detached copy of everything the rendering layer shows.
type State struct {
	Mode   Mode
	Form   FormRecord
	Errors map[string]string
	Status *StatusMessage
	Busy   bool
	User   *AuthenticatedUser
	Theme  Theme

	// RedirectPending is set while a signup/reset success is waiting to
	// return to the login view.
	RedirectPending bool
}

func (c *Controller) snapshotLocked() State {
	s := State{
		Mode:            c.mode,
		Form:            c.forms[c.mode].clone(),
		Errors:          make(map[string]string, len(c.errors)),
		Busy:            c.busy,
		Theme:           c.theme,
		RedirectPending: c.redirect != nil,
	}
	for k, v := range c.errors {
		s.Errors[k] = v
	}
	if c.status != nil {
		st := *c.status
		s.Status = &st
	}
	if c.user != nil {
		u := *c.user
		s.User = &u
	}
	return s
}

package config

import (
	"strings"
	"time"
)

// AuthBaseURL is the root of the authentication service the client talks to.
func AuthBaseURL() string {
	return strings.TrimRight(GetEnv("AUTH_BASE_URL", "http://localhost:8080"), "/")
}

// AuthHTTPTimeout bounds a single auth request.
func AuthHTTPTimeout() time.Duration {
	return MustParseDuration("AUTH_HTTP_TIMEOUT", "30s")
}

// RedirectDelay is how long a signup/reset success message stays up before
// the controller returns to the login view.
func RedirectDelay() time.Duration {
	return MustParseDuration("AUTH_REDIRECT_DELAY", "2s")
}

// ClientLogFile is where the terminal client writes its logs.
func ClientLogFile() string {
	return GetEnv("PORTAL_LOG_FILE", "portal.log")
}

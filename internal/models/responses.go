package models

// AuthResponse is the envelope every auth endpoint answers with. A false
// Success is a domain failure, not a transport error.
type AuthResponse struct {
	Success bool              `json:"success"`
	User    *User             `json:"user,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Token   string            `json:"token,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

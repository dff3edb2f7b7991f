package models

// Request bodies double as the local validation rule table: the validate
// tags are what the client checks before any network call.

type LoginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"notblank"`
	LastName        string `json:"lastName" validate:"notblank"`
	Email           string `json:"email" validate:"notblank"`
	Password        string `json:"password" validate:"notblank,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"notblank,eqfield=Password"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"notblank"`
	NewPassword     string `json:"newPassword" validate:"notblank,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"notblank,eqfield=NewPassword"`
}

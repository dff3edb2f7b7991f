package models

import "strings"

// User is the public view of an account as returned by the auth service.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Account is the stored form of a user.
type Account struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
}

func (a Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func (a Account) Public() *User {
	return &User{ID: a.ID, Email: a.Email, FullName: a.FullName()}
}

package controller

import (
	"errors"

	"github.com/Goofygiraffe06/portal/internal/models"
)

// Result is the settled outcome of an auth call: Success, DomainFailure or
// TransportFailure.
type Result interface {
	isResult()
}

// Success carries the service's positive answer. User is nil for resets.
type Success struct {
	User    *models.User
	Token   string
	Message string
}

// DomainFailure is a well-formed success:false answer.
type DomainFailure struct {
	Message string
	Errors  map[string]string
}

// TransportFailure means no usable answer arrived.
type TransportFailure struct {
	Cause error
}

func (Success) isResult()          {}
func (DomainFailure) isResult()    {}
func (TransportFailure) isResult() {}

var errEmptyResponse = errors.New("empty response")

// Classify folds an auth client return into a Result.
func Classify(resp *models.AuthResponse, err error) Result {
	switch {
	case err != nil:
		return TransportFailure{Cause: err}
	case resp == nil:
		return TransportFailure{Cause: errEmptyResponse}
	case resp.Success:
		return Success{User: resp.User, Token: resp.Token, Message: resp.Message}
	default:
		return DomainFailure{Message: resp.Message, Errors: resp.Errors}
	}
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/models"
	"github.com/Goofygiraffe06/portal/internal/validation"
	"github.com/Goofygiraffe06/portal/internal/workerpool"
)

const (
	msgInvalidJSON      = "Invalid JSON"
	msgValidationFailed = "Validation failed"
	msgTooLarge         = "Request body too large"
	msgServerBusy       = "Server busy, try again later"
	msgInternal         = "Internal error"
)

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.ErrorLog("JSON encoding failed: %v", err)
	}
}

func respondFailure(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, models.AuthResponse{Success: false, Message: message})
}

// decodeAndValidate reads a JSON body into dst and runs its field rules.
// It writes the failure response itself and returns false when the caller
// should stop.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any, extra func(errs map[string]string)) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondFailure(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return false
		}
		respondFailure(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}

	errs := validation.Struct(dst)
	if extra != nil {
		extra(errs)
	}
	if len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, models.AuthResponse{
			Success: false,
			Message: msgValidationFailed,
			Errors:  errs,
		})
		return false
	}
	return true
}

// checkEmail adds a format error for *email, read after decoding, unless
// the field already failed.
func checkEmail(email *string) func(map[string]string) {
	return func(errs map[string]string) {
		if _, failed := errs["email"]; !failed && !validation.Email(strings.TrimSpace(*email)) {
			errs["email"] = validation.MsgEmail
		}
	}
}

// workFailure maps a pool or task error onto a response.
func workFailure(w http.ResponseWriter, err error) {
	if isBusy(err) {
		respondFailure(w, http.StatusServiceUnavailable, msgServerBusy)
		return
	}
	respondFailure(w, http.StatusInternalServerError, msgInternal)
}

func isBusy(err error) bool {
	return errors.Is(err, workerpool.ErrQueueFull) || errors.Is(err, workerpool.ErrPoolClosed)
}

package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/Goofygiraffe06/portal/internal/auth"
	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/manager"
	"github.com/Goofygiraffe06/portal/internal/models"
	"github.com/Goofygiraffe06/portal/internal/utils"
	"github.com/Goofygiraffe06/portal/store"
	"github.com/Goofygiraffe06/portal/store/ephemeral"
)

const (
	msgBadCredentials = "Invalid email or password!"
	msgLoginOK        = "Login successful!"
)

// dummyHash is compared against when the email is unknown so both paths
// cost one bcrypt check.
var dummyHash = func() string {
	h, err := auth.HashPassword("portal-dummy-password")
	if err != nil {
		panic("bcrypt unavailable: " + err.Error())
	}
	return h
}()

func LoginHandler(userStore *store.SQLiteStore, attempts *ephemeral.AttemptLimiter, mgr *manager.WorkManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req models.LoginRequest
		if !decodeAndValidate(w, r, &req, nil) {
			logging.WarnLog("Login failed: invalid request")
			return
		}
		req.Email = utils.NormalizeEmail(req.Email)
		emailHash := utils.HashEmail(req.Email)

		if locked, wait := attempts.Locked(req.Email); locked {
			logging.WarnLog("Login refused: locked out [%s] for %v", emailHash, wait)
			respondFailure(w, http.StatusTooManyRequests, lockoutMessage(wait))
			return
		}

		var (
			acct  models.Account
			found bool
		)
		err := mgr.DoDB(r.Context(), func(ctx context.Context) error {
			var lerr error
			acct, found, lerr = userStore.GetByEmail(ctx, req.Email)
			return lerr
		})
		if err != nil {
			logging.ErrorLog("Login failed: lookup [%s]: %v", emailHash, err)
			workFailure(w, err)
			return
		}

		hash := dummyHash
		if found {
			hash = acct.PasswordHash
		}
		var match bool
		err = mgr.DoCrypto(r.Context(), func(ctx context.Context) error {
			var cerr error
			match, cerr = auth.CheckPassword(hash, req.Password)
			return cerr
		})
		if err != nil {
			logging.ErrorLog("Login failed: password check [%s]: %v", emailHash, err)
			workFailure(w, err)
			return
		}

		if !found || !match {
			remaining, ferr := attempts.Fail(req.Email)
			if ferr != nil {
				logging.WarnLog("Login attempt not recorded [%s]: %v", emailHash, ferr)
			}
			logging.WarnLog("Login failed: bad credentials [%s] remaining=%d", emailHash, remaining)
			respondFailure(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}

		attempts.Reset(req.Email)
		user := acct.Public()
		token, err := auth.IssueSessionToken(*user)
		if err != nil {
			respondFailure(w, http.StatusInternalServerError, msgInternal)
			return
		}

		logging.InfoLog("Login success [%s] %v", emailHash, time.Since(start))
		respondJSON(w, http.StatusOK, models.AuthResponse{
			Success: true,
			User:    user,
			Message: msgLoginOK,
			Token:   token,
		})
	}
}

func lockoutMessage(wait time.Duration) string {
	minutes := int(math.Ceil(wait.Minutes()))
	if minutes <= 1 {
		return "Too many failed attempts. Try again in a minute."
	}
	return fmt.Sprintf("Too many failed attempts. Try again in %d minutes.", minutes)
}

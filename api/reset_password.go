package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Goofygiraffe06/portal/internal/auth"
	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/mailer"
	"github.com/Goofygiraffe06/portal/internal/manager"
	"github.com/Goofygiraffe06/portal/internal/models"
	"github.com/Goofygiraffe06/portal/internal/utils"
	"github.com/Goofygiraffe06/portal/store"
)

const (
	msgNoAccount = "No account found with that email"
	msgResetOK   = "Password reset successful"

	notifyTimeout = 10 * time.Second
)

// ResetPasswordHandler replaces the password of an existing account. When
// mail is non-nil the owner is notified out of band.
func ResetPasswordHandler(userStore *store.SQLiteStore, mgr *manager.WorkManager, mail *mailer.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req models.ResetPasswordRequest
		if !decodeAndValidate(w, r, &req, checkEmail(&req.Email)) {
			logging.WarnLog("Password reset failed: invalid request")
			return
		}
		req.Email = utils.NormalizeEmail(req.Email)
		emailHash := utils.HashEmail(req.Email)

		var (
			acct  models.Account
			found bool
		)
		if err := mgr.DoDB(r.Context(), func(ctx context.Context) error {
			var lerr error
			acct, found, lerr = userStore.GetByEmail(ctx, req.Email)
			return lerr
		}); err != nil {
			logging.ErrorLog("Password reset failed: lookup [%s]: %v", emailHash, err)
			workFailure(w, err)
			return
		}
		if !found {
			logging.WarnLog("Password reset failed: no account [%s]", emailHash)
			respondFailure(w, http.StatusNotFound, msgNoAccount)
			return
		}

		var hash string
		if err := mgr.DoCrypto(r.Context(), func(ctx context.Context) error {
			var herr error
			hash, herr = auth.HashPassword(req.NewPassword)
			return herr
		}); err != nil {
			logging.ErrorLog("Password reset failed: hashing [%s]: %v", emailHash, err)
			workFailure(w, err)
			return
		}

		err := mgr.DoDB(r.Context(), func(ctx context.Context) error {
			return userStore.UpdatePassword(ctx, req.Email, hash)
		})
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			respondFailure(w, http.StatusNotFound, msgNoAccount)
			return
		case err != nil:
			logging.ErrorLog("Password reset failed: database error [%s]: %v", emailHash, err)
			workFailure(w, err)
			return
		}

		if mail != nil {
			to, name := acct.Email, acct.FullName()
			if err := mgr.SubmitSMTP(func(ctx context.Context) {
				if !manager.RunWithTimeout(ctx, notifyTimeout, func(ctx context.Context) {
					if err := mail.PasswordChanged(ctx, to, name); err != nil {
						logging.WarnLog("Password change notice failed [%s]: %v", emailHash, err)
					}
				}) {
					logging.WarnLog("Password change notice timeout [%s]", emailHash)
				}
			}); err != nil {
				logging.WarnLog("Password change notice not queued [%s]: %v", emailHash, err)
			}
		}

		logging.InfoLog("Password reset completed [%s] %v", emailHash, time.Since(start))
		respondJSON(w, http.StatusOK, models.AuthResponse{Success: true, Message: msgResetOK})
	}
}

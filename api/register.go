package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Goofygiraffe06/portal/internal/auth"
	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/manager"
	"github.com/Goofygiraffe06/portal/internal/models"
	"github.com/Goofygiraffe06/portal/internal/utils"
	"github.com/Goofygiraffe06/portal/store"
)

const (
	msgEmailTaken   = "Email is already in use!"
	msgRegisteredOK = "User registered successfully!"
)

func RegisterHandler(userStore *store.SQLiteStore, mgr *manager.WorkManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req models.RegisterRequest
		if !decodeAndValidate(w, r, &req, checkEmail(&req.Email)) {
			logging.WarnLog("Registration failed: invalid request")
			return
		}

		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)
		req.Email = utils.NormalizeEmail(req.Email)
		emailHash := utils.HashEmail(req.Email)

		var exists bool
		if err := mgr.DoDB(r.Context(), func(ctx context.Context) error {
			var lerr error
			exists, lerr = userStore.Exists(ctx, req.Email)
			return lerr
		}); err != nil {
			logging.ErrorLog("Registration failed: lookup [%s]: %v", emailHash, err)
			workFailure(w, err)
			return
		}
		if exists {
			logging.WarnLog("Registration failed: user exists [%s]", emailHash)
			respondFailure(w, http.StatusConflict, msgEmailTaken)
			return
		}

		var hash string
		if err := mgr.DoCrypto(r.Context(), func(ctx context.Context) error {
			var herr error
			hash, herr = auth.HashPassword(req.Password)
			return herr
		}); err != nil {
			logging.ErrorLog("Registration failed: hashing [%s]: %v", emailHash, err)
			workFailure(w, err)
			return
		}

		var acct models.Account
		err := mgr.DoDB(r.Context(), func(ctx context.Context) error {
			var aerr error
			acct, aerr = userStore.AddAccount(ctx, models.Account{
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				Email:        req.Email,
				PasswordHash: hash,
			})
			return aerr
		})
		switch {
		case errors.Is(err, store.ErrUserExists):
			// Lost a race with a concurrent registration.
			logging.WarnLog("Registration failed: user exists [%s]", emailHash)
			respondFailure(w, http.StatusConflict, msgEmailTaken)
			return
		case err != nil:
			logging.ErrorLog("Registration failed: database error [%s]: %v", emailHash, err)
			workFailure(w, err)
			return
		}

		logging.InfoLog("Registration completed [%s] id=%d %v", emailHash, acct.ID, time.Since(start))
		respondJSON(w, http.StatusOK, models.AuthResponse{
			Success: true,
			User:    acct.Public(),
			Message: msgRegisteredOK,
		})
	}
}

// Command portald is the reference authentication service the portal
// client talks to.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Goofygiraffe06/portal/api"
	"github.com/Goofygiraffe06/portal/internal/auth"
	"github.com/Goofygiraffe06/portal/internal/config"
	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/mailer"
	"github.com/Goofygiraffe06/portal/internal/manager"
	"github.com/Goofygiraffe06/portal/store"
	"github.com/Goofygiraffe06/portal/store/ephemeral"
	"go.uber.org/zap"
)

func main() {
	f, err := logging.InitLogger(config.ServerLogFile())
	if err != nil {
		// No logger yet, so there is nowhere else to report this.
		panic("Failed to initialize logger: " + err.Error())
	}
	defer f.Close()
	defer logging.Sync()

	logging.InfoLog("Starting portald")

	if err := auth.LoadSigningKey(config.JWTKeySeed()); err != nil {
		logging.FatalLog("Invalid session key configuration: %v", err)
	}

	dbFile := config.DBPath()
	if _, err := os.Stat(dbFile); err == nil {
		if err := os.Chmod(dbFile, 0600); err != nil {
			logging.ErrorLog("Failed to set restrictive permissions on %s: %v", dbFile, err)
		} else {
			logging.DebugLog("Permissions on %s set to 0600", dbFile)
		}
	}

	userStore, err := store.NewSQLiteStore(dbFile)
	if err != nil {
		logging.FatalLog("Failed to connect to DB: %v", err)
	}
	defer userStore.Close()
	logging.Info("Connected to SQLite database", zap.String("path", dbFile))

	attempts := ephemeral.NewAttemptLimiter(config.LoginMaxAttempts(), config.LoginLockout())
	defer attempts.Close()

	mgr := manager.NewWorkManager()
	defer mgr.Close()

	var sink *mailer.Sink
	if addr := config.SMTPSinkAddr(); addr != "" {
		sink = mailer.NewSink(addr, config.SMTPSinkDomain(), config.SMTPMaxMessageBytes(), nil)
		if err := sink.Start(); err != nil {
			logging.FatalLog("Failed to start SMTP sink: %v", err)
		}
		defer sink.Stop()
	}

	mail, err := mailer.FromConfig()
	if err != nil {
		logging.FatalLog("Invalid mail configuration: %v", err)
	}
	if mail == nil {
		logging.WarnLog("SMTP_ADDR not set, password change notices disabled")
	}

	router := api.NewRouter(api.Deps{
		Users:        userStore,
		Attempts:     attempts,
		Work:         mgr,
		Mail:         mail,
		AllowOrigins: config.CORSAllowedOrigins(),
		MaxBodyBytes: config.MaxRequestBodyBytes(),
	})

	srv := &http.Server{
		Addr:              ":" + config.ServerPort(),
		Handler:           router,
		ReadTimeout:       config.ServerReadTimeout(),
		ReadHeaderTimeout: config.ServerReadHeaderTimeout(),
		WriteTimeout:      config.ServerWriteTimeout(),
		IdleTimeout:       config.ServerIdleTimeout(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info("portald listening", zap.String("addr", srv.Addr),
			zap.Strings("cors_origins", config.CORSAllowedOrigins()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.FatalLog("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logging.InfoLog("Shutting down portald")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", zap.Error(err))
	}
}

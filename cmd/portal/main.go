// Command portal is the terminal front end: login, signup, password reset
// and a dashboard, backed by the auth service at AUTH_BASE_URL.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Goofygiraffe06/portal/internal/authclient"
	"github.com/Goofygiraffe06/portal/internal/config"
	"github.com/Goofygiraffe06/portal/internal/console"
	"github.com/Goofygiraffe06/portal/internal/controller"
	"github.com/Goofygiraffe06/portal/internal/logging"
	"go.uber.org/zap"
)

func main() {
	f, err := logging.InitLogger(config.ClientLogFile())
	if err != nil {
		fmt.Fprintln(os.Stderr, "portal: failed to initialize logger:", err)
		os.Exit(1)
	}
	defer f.Close()
	defer logging.Sync()

	client := authclient.New(config.AuthBaseURL(), authclient.WithTimeout(config.AuthHTTPTimeout()))
	logging.Info("portal starting", zap.String("auth_base_url", client.BaseURL()))

	ctrl := controller.New(client, controller.WithRedirectDelay(config.RedirectDelay()))
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = console.NewSession(ctrl, os.Stdin, os.Stdout).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.ErrorLog("Console stopped: %v", err)
		fmt.Fprintln(os.Stderr, "portal:", err)
		os.Exit(1)
	}
}

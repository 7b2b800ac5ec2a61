package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/biolinkbr/backend/internal/authstate"
	"github.com/biolinkbr/backend/internal/client"
	"github.com/biolinkbr/backend/internal/config"
	"github.com/biolinkbr/backend/internal/gate"
	"github.com/biolinkbr/backend/internal/logging"
)

// A terminal client that signs in against the API, boots the same
// auth-state machine the web app runs, and reports the route-gate
// decision for a requested path.
func main() {
	logging.Setup()
	cfg := config.Load()

	var (
		apiURL   = flag.String("api", "http://localhost:"+cfg.Port, "API base URL")
		email    = flag.String("email", "", "sign in with this email")
		password = flag.String("password", "", "password for -email")
		token    = flag.String("token", "", "reuse an existing access token")
		path     = flag.String("path", gate.PathDashboard, "route to evaluate")
		from     = flag.String("from", "", "origin path for the post-login return")
	)
	flag.Parse()

	api := client.New(*apiURL)
	if *token != "" {
		api.SetToken(*token)
	}

	ctx := context.Background()
	feed := authstate.NewFeed()
	boot := authstate.NewBootstrapper(api, api.Probe)
	boot.Start(ctx, feed)
	defer boot.Stop()

	if *email != "" {
		session, err := api.Login(ctx, *email, *password)
		if err != nil {
			slog.Error("login failed", "error", err)
			os.Exit(1)
		}
		feed.Publish(authstate.Event{Kind: authstate.EventSignedIn, Session: session})
	}

	decision := gate.Evaluate(ctx, boot, *path, *from, gate.Timeouts{
		Soft: cfg.GateSoftTimeout,
		Hard: cfg.GateHardTimeout,
	})

	fmt.Printf("path:     %s\n", *path)
	fmt.Printf("decision: %s\n", decision.Action)
	if decision.Target != "" {
		fmt.Printf("target:   %s\n", decision.Target)
	}
	if decision.From != "" {
		fmt.Printf("from:     %s\n", decision.From)
	}
	if snap := boot.Snapshot(); snap.Account != nil {
		fmt.Printf("user:     %s (%s)\n", snap.Account.User.Username, snap.Account.User.Plan)
	}
}

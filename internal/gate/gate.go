package gate

import (
	"context"
	"strings"
	"time"

	"github.com/biolinkbr/backend/internal/authstate"
)

// Well-known paths of the web app.
const (
	PathLogin      = "/login"
	PathRegister   = "/register"
	PathOnboarding = "/onboarding"
	PathDashboard  = "/dashboard"
)

type Action int

const (
	Allow Action = iota
	RedirectLogin
	RedirectOnboarding
	RedirectDashboard
	ShowLoading
	ShowFailure
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectOnboarding:
		return "redirect-onboarding"
	case RedirectDashboard:
		return "redirect-dashboard"
	case ShowLoading:
		return "show-loading"
	case ShowFailure:
		return "show-failure"
	default:
		return "unknown"
	}
}

// Decision tells the caller what to render for a navigation. Target
// carries the redirect destination; From preserves the originally
// requested path for the post-login return.
type Decision struct {
	Action Action
	Target string
	From   string
}

func requiresAuth(path string) bool {
	return strings.HasPrefix(path, PathDashboard) || path == PathOnboarding
}

func forbidsAuth(path string) bool {
	return path == PathLogin || path == PathRegister
}

// Decide maps an auth snapshot plus the requested path to a routing
// decision. It is pure: bounded waiting lives in Evaluate.
func Decide(snap authstate.Snapshot, path, from string) Decision {
	if snap.Loading() {
		return Decision{Action: ShowLoading}
	}

	if requiresAuth(path) {
		// A nil session while not loading is a session invalidation,
		// same redirect as the initial unauthenticated case.
		if !snap.Authenticated() || snap.Session == nil {
			return Decision{Action: RedirectLogin, Target: PathLogin, From: path}
		}
		if snap.NeedsOnboarding() && path != PathOnboarding {
			return Decision{Action: RedirectOnboarding, Target: PathOnboarding}
		}
		if path == PathOnboarding && !snap.NeedsOnboarding() {
			return Decision{Action: RedirectDashboard, Target: PathDashboard}
		}
		return Decision{Action: Allow}
	}

	if forbidsAuth(path) && snap.Authenticated() {
		target := from
		if target == "" {
			target = PathDashboard
		}
		return Decision{Action: RedirectDashboard, Target: target}
	}

	return Decision{Action: Allow}
}

// Evaluate applies the bounded waits around Decide. Up to Soft it waits
// for resolution; past Soft it decides with whatever state is available
// (fail open on the UI, not on authorization); an auth-requiring path
// still unresolved at Hard gets the failure view, whose only recovery
// is a manual full reload.
//
// Hard is the total budget from the start of the wait; a Hard at or
// below Soft adds no second wait.
type Timeouts struct {
	Soft time.Duration
	Hard time.Duration
}

func Evaluate(ctx context.Context, b *authstate.Bootstrapper, path, from string, t Timeouts) Decision {
	softCtx, cancel := context.WithTimeout(ctx, t.Soft)
	snap, ok := b.WaitResolved(softCtx)
	cancel()
	if ok {
		return Decide(snap, path, from)
	}

	if !requiresAuth(path) {
		// Nothing to authorize; proceed with the state we have.
		return Decide(failOpen(snap), path, from)
	}

	remaining := t.Hard - t.Soft
	if remaining < 0 {
		remaining = 0
	}
	hardCtx, cancel := context.WithTimeout(ctx, remaining)
	snap, ok = b.WaitResolved(hardCtx)
	cancel()
	if !ok {
		return Decision{Action: ShowFailure}
	}
	return Decide(snap, path, from)
}

// failOpen forces a still-loading snapshot to be treated as settled, so
// Decide falls through to the unauthenticated branches.
func failOpen(snap authstate.Snapshot) authstate.Snapshot {
	if snap.State == authstate.StateInitializing {
		snap.State = authstate.StateUnauthenticated
	}
	return snap
}

package authstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/biolinkbr/backend/internal/models"
	"github.com/biolinkbr/backend/internal/resolver"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedResolver resolves sessions to accounts, optionally blocking
// per-username until released.
type scriptedResolver struct {
	mu      sync.Mutex
	blocked map[string]chan struct{}
	failFor map[string]error
}

func newScriptedResolver() *scriptedResolver {
	return &scriptedResolver{
		blocked: make(map[string]chan struct{}),
		failFor: make(map[string]error),
	}
}

func (r *scriptedResolver) blockUntilReleased(username string) func() {
	release := make(chan struct{})
	r.mu.Lock()
	r.blocked[username] = release
	r.mu.Unlock()
	return func() { close(release) }
}

func (r *scriptedResolver) Resolve(ctx context.Context, session resolver.SessionInfo) (*resolver.Account, error) {
	r.mu.Lock()
	release := r.blocked[session.Username]
	failure := r.failFor[session.Username]
	r.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failure != nil {
		return nil, failure
	}
	return &resolver.Account{
		User: models.User{ID: session.UserID, Username: session.Username, Plan: models.PlanFree},
	}, nil
}

func session(username string) *resolver.SessionInfo {
	return &resolver.SessionInfo{UserID: uuid.New(), Username: username, Email: username + "@example.com"}
}

func noSession(context.Context) (*resolver.SessionInfo, error) { return nil, nil }

func waitFor(t *testing.T, b *Bootstrapper, pred func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	updates, release := b.Subscribe()
	defer release()
	for {
		snap := b.Snapshot()
		if pred(snap) {
			return snap
		}
		select {
		case <-deadline:
			t.Fatalf("condition not reached, state=%v", b.Snapshot().State)
		case <-updates:
		}
	}
}

func TestProbeWithoutSessionGoesUnauthenticated(t *testing.T) {
	b := NewBootstrapper(newScriptedResolver(), noSession)
	b.Start(context.Background(), NewFeed())
	defer b.Stop()

	snap := waitFor(t, b, func(s Snapshot) bool { return s.State != StateInitializing })
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.Account)
}

func TestProbeWithSessionResolvesAccount(t *testing.T) {
	sess := session("joana")
	b := NewBootstrapper(newScriptedResolver(), func(context.Context) (*resolver.SessionInfo, error) {
		return sess, nil
	})
	b.Start(context.Background(), NewFeed())
	defer b.Stop()

	snap := waitFor(t, b, func(s Snapshot) bool { return s.State == StateAuthenticated })
	require.NotNil(t, snap.Account)
	assert.Equal(t, "joana", snap.Account.User.Username)
}

func TestSignedOutClearsAccount(t *testing.T) {
	feed := NewFeed()
	b := NewBootstrapper(newScriptedResolver(), noSession)
	b.Start(context.Background(), feed)
	defer b.Stop()

	feed.Publish(Event{Kind: EventSignedIn, Session: session("pedro")})
	waitFor(t, b, func(s Snapshot) bool { return s.State == StateAuthenticated })

	feed.Publish(Event{Kind: EventSignedOut, Session: nil})
	snap := waitFor(t, b, func(s Snapshot) bool { return s.State == StateUnauthenticated })
	assert.Nil(t, snap.Account)
	assert.Nil(t, snap.Session)
}

func TestResolveFailureIsAuthFailed(t *testing.T) {
	res := newScriptedResolver()
	res.failFor["broken"] = errors.New("backend down")

	feed := NewFeed()
	b := NewBootstrapper(res, noSession)
	b.Start(context.Background(), feed)
	defer b.Stop()

	feed.Publish(Event{Kind: EventSignedIn, Session: session("broken")})
	snap := waitFor(t, b, func(s Snapshot) bool { return s.State == StateAuthFailed })
	assert.Nil(t, snap.Account)
}

func TestNewerSessionSupersedesSlowerResolution(t *testing.T) {
	res := newScriptedResolver()
	releaseOld := res.blockUntilReleased("old")

	feed := NewFeed()
	b := NewBootstrapper(res, noSession)
	b.Start(context.Background(), feed)
	defer b.Stop()

	waitFor(t, b, func(s Snapshot) bool { return s.State == StateUnauthenticated })

	feed.Publish(Event{Kind: EventSignedIn, Session: session("old")})
	feed.Publish(Event{Kind: EventSignedIn, Session: session("new")})

	// The stalled resolution of "old" finishes after "new" was observed;
	// its result must be discarded, not committed.
	releaseOld()

	snap := waitFor(t, b, func(s Snapshot) bool { return s.State == StateAuthenticated })
	assert.Equal(t, "new", snap.Account.User.Username)

	// Give the discarded resolution a chance to (incorrectly) land.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "new", b.Snapshot().Account.User.Username)
}

func TestSignOutSupersedesInFlightResolution(t *testing.T) {
	res := newScriptedResolver()
	release := res.blockUntilReleased("slow")

	feed := NewFeed()
	b := NewBootstrapper(res, noSession)
	b.Start(context.Background(), feed)
	defer b.Stop()

	waitFor(t, b, func(s Snapshot) bool { return s.State == StateUnauthenticated })

	feed.Publish(Event{Kind: EventSignedIn, Session: session("slow")})
	feed.Publish(Event{Kind: EventSignedOut, Session: nil})
	release()

	time.Sleep(50 * time.Millisecond)
	snap := b.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.Account)
}

func TestWaitResolvedTimesOut(t *testing.T) {
	// A probe that never answers keeps the state Initializing.
	b := NewBootstrapper(newScriptedResolver(), func(ctx context.Context) (*resolver.SessionInfo, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Start(ctx, NewFeed())
	defer b.Stop()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer waitCancel()
	snap, ok := b.WaitResolved(waitCtx)
	assert.False(t, ok)
	assert.Equal(t, StateInitializing, snap.State)
}

func TestStopReturnsWhileProbeStalled(t *testing.T) {
	// The probe blocks until its context dies; Stop must be that death.
	b := NewBootstrapper(newScriptedResolver(), func(ctx context.Context) (*resolver.SessionInfo, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	b.Start(context.Background(), NewFeed())

	stopped := make(chan struct{})
	go func() {
		b.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on the in-flight probe")
	}
}

func TestStopUnblocksInFlightResolution(t *testing.T) {
	res := newScriptedResolver()
	res.blockUntilReleased("slow")

	feed := NewFeed()
	b := NewBootstrapper(res, noSession)
	b.Start(context.Background(), feed)
	waitFor(t, b, func(s Snapshot) bool { return s.State == StateUnauthenticated })

	feed.Publish(Event{Kind: EventSignedIn, Session: session("slow")})

	stopped := make(chan struct{})
	go func() {
		b.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on the in-flight resolution")
	}
}

func TestWaitResolvedReleasesWatcher(t *testing.T) {
	b := NewBootstrapper(newScriptedResolver(), noSession)
	b.Start(context.Background(), NewFeed())
	defer b.Stop()

	waitFor(t, b, func(s Snapshot) bool { return s.State == StateUnauthenticated })

	for i := 0; i < 20; i++ {
		_, ok := b.WaitResolved(context.Background())
		require.True(t, ok)
	}

	b.mu.Lock()
	watchers := len(b.watchers)
	b.mu.Unlock()
	assert.Zero(t, watchers, "finished waiters must not accumulate")
}

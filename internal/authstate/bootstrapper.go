package authstate

import (
	"context"
	"sync"

	"github.com/biolinkbr/backend/internal/resolver"
)

type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticated
	StateAuthFailed
)

// Snapshot is an immutable view of the auth state. Readers hold it for
// one render and re-read on the next change notification.
type Snapshot struct {
	State   State
	Session *resolver.SessionInfo
	Account *resolver.Account
}

func (s Snapshot) Loading() bool       { return s.State == StateInitializing }
func (s Snapshot) Authenticated() bool { return s.State == StateAuthenticated }

func (s Snapshot) NeedsOnboarding() bool {
	return s.Account != nil && s.Account.NeedsOnboarding
}

type accountResolver interface {
	Resolve(ctx context.Context, session resolver.SessionInfo) (*resolver.Account, error)
}

// ProbeFunc asks the credential store for the current session, once, at
// start-up. A nil session with nil error means "not signed in". The
// probe must honor its context: Stop cancels it to unblock shutdown.
type ProbeFunc func(ctx context.Context) (*resolver.SessionInfo, error)

type task struct {
	epoch   uint64
	session resolver.SessionInfo
}

// Bootstrapper owns the process-wide auth state. Session-change
// notifications only enqueue resolution tasks; a single consumer
// goroutine executes them, so no resolution ever runs inline in the
// notification path. An epoch counter makes the newest session change
// win: superseded resolutions are discarded, not committed.
type Bootstrapper struct {
	resolver accountResolver
	probe    ProbeFunc

	mu       sync.Mutex
	snap     Snapshot
	epoch    uint64
	watchers []chan Snapshot

	tasks  chan task
	done   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewBootstrapper(res accountResolver, probe ProbeFunc) *Bootstrapper {
	return &Bootstrapper{
		resolver: res,
		probe:    probe,
		snap:     Snapshot{State: StateInitializing},
		tasks:    make(chan task, 16),
		done:     make(chan struct{}),
	}
}

// Start subscribes to the feed and issues the one-time session probe.
// Both paths converge on the same resolution routine.
func (b *Bootstrapper) Start(ctx context.Context, feed *Feed) {
	ctx, b.cancel = context.WithCancel(ctx)
	events := feed.Subscribe()

	b.wg.Add(1)
	go b.consume(ctx)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-b.done:
				return
			case <-ctx.Done():
				return
			case ev := <-events:
				b.handleSession(ev.Session)
			}
		}
	}()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		session, err := b.probe(ctx)
		if ctx.Err() != nil {
			// Shut down mid-probe; leave the state as is.
			return
		}
		if err != nil {
			b.handleSession(nil)
			return
		}
		b.handleSession(session)
	}()
}

// Stop cancels any in-flight probe or resolution and waits for the
// goroutines to drain.
func (b *Bootstrapper) Stop() {
	close(b.done)
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
}

// handleSession records the newest observed session. A nil session
// transitions straight to Unauthenticated; a live one is deferred to
// the consumer.
func (b *Bootstrapper) handleSession(session *resolver.SessionInfo) {
	b.mu.Lock()
	b.epoch++
	epoch := b.epoch
	if session == nil {
		b.snap = Snapshot{State: StateUnauthenticated}
		b.notifyLocked()
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	select {
	case b.tasks <- task{epoch: epoch, session: *session}:
	case <-b.done:
	}
}

func (b *Bootstrapper) consume(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return
		case <-ctx.Done():
			return
		case t := <-b.tasks:
			b.mu.Lock()
			stale := t.epoch != b.epoch
			b.mu.Unlock()
			if stale {
				continue
			}

			account, err := b.resolver.Resolve(ctx, t.session)

			b.mu.Lock()
			if t.epoch != b.epoch {
				// A newer session change won; discard this result.
				b.mu.Unlock()
				continue
			}
			session := t.session
			if err != nil {
				b.snap = Snapshot{State: StateAuthFailed, Session: &session}
			} else {
				b.snap = Snapshot{State: StateAuthenticated, Session: &session, Account: account}
			}
			b.notifyLocked()
			b.mu.Unlock()
		}
	}
}

func (b *Bootstrapper) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// Subscribe returns a channel receiving a snapshot after every state
// change, plus a release func that must be called when the subscriber
// is done. A slow subscriber loses intermediate snapshots, never the
// latest one.
func (b *Bootstrapper) Subscribe() (<-chan Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Snapshot, 16)
	b.watchers = append(b.watchers, ch)
	return ch, func() { b.unsubscribe(ch) }
}

func (b *Bootstrapper) unsubscribe(ch chan Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, w := range b.watchers {
		if w == ch {
			b.watchers = append(b.watchers[:i], b.watchers[i+1:]...)
			return
		}
	}
}

func (b *Bootstrapper) notifyLocked() {
	for _, ch := range b.watchers {
		select {
		case ch <- b.snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- b.snap
		}
	}
}

// WaitResolved blocks until the state leaves Initializing or the
// context ends, reporting whether resolution finished in time.
func (b *Bootstrapper) WaitResolved(ctx context.Context) (Snapshot, bool) {
	updates, release := b.Subscribe()
	defer release()
	for {
		snap := b.Snapshot()
		if snap.State != StateInitializing {
			return snap, true
		}
		select {
		case <-ctx.Done():
			snap = b.Snapshot()
			return snap, snap.State != StateInitializing
		case <-updates:
		}
	}
}

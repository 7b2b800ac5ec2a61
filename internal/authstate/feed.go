package authstate

import (
	"sync"

	"github.com/biolinkbr/backend/internal/resolver"
)

type EventKind string

const (
	EventInitialSession EventKind = "INITIAL_SESSION"
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Event is one session-change notification. A nil Session means the
// session ended.
type Event struct {
	Kind    EventKind
	Session *resolver.SessionInfo
}

// Feed delivers session-change events to subscribers in emission order.
type Feed struct {
	mu   sync.Mutex
	subs []chan Event
}

func NewFeed() *Feed {
	return &Feed{}
}

// Subscribe returns a channel receiving every event published after the
// call. The buffer absorbs bursts; a full subscriber drops the oldest
// pending event rather than blocking the publisher.
func (f *Feed) Subscribe() <-chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan Event, 16)
	f.subs = append(f.subs, ch)
	return ch
}

func (f *Feed) Publish(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

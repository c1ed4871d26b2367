// Package notifier fans out snapshot versions to live browser sessions.
package notifier

import "sync"

// Notifier delivers the latest snapshot version to every subscriber.
// A slow listener only ever sees the newest version; intermediate ones are
// dropped because each update replaces the whole dataset.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan string]struct{}
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{listeners: make(map[chan string]struct{})}
}

// Subscribe registers a listener. Callers must Unsubscribe when done.
func (n *Notifier) Subscribe() chan string {
	ch := make(chan string, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch. Unknown channels are ignored.
func (n *Notifier) Unsubscribe(ch chan string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Len returns the number of active listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends version to all listeners without blocking.
func (n *Notifier) Broadcast(version string) {
	// Write lock: draining a full channel must not race with another Broadcast.
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.listeners {
		select {
		case ch <- version:
			continue
		default:
		}
		// Replace the stale pending version.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- version:
		default:
		}
	}
}

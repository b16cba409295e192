// Package inflight rejects a second run of an operation while the first
// one is still pending.
package inflight

import "sync"

type Guard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{active: make(map[string]struct{})}
}

// TryAcquire marks key as running. It returns false if key is already
// running. The release func is idempotent.
func (g *Guard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[key]; busy {
		return nil, false
	}
	g.active[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, key)
			g.mu.Unlock()
		})
	}, true
}

func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.active[key]
	return busy
}

func Key(sessionID, operation string) string {
	return sessionID + ":" + operation
}

package service

import (
	"errors"
	"sync"
)

// ErrRequestInFlight is returned when the same session already has the same
// command running.
var ErrRequestInFlight = errors.New("request already in progress")

// InFlightGuard allows one running command per (session, action).
type InFlightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewInFlightGuard() *InFlightGuard {
	return &InFlightGuard{active: make(map[string]struct{})}
}

// Acquire returns a release func and true, or false if the slot is taken.
func (g *InFlightGuard) Acquire(sessionID, action string) (func(), bool) {
	key := sessionID + "|" + action

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

// Package identity implements the anonymous identity provider the gate
// depends on. It mirrors the hosted-auth contract: anonymous sign-in,
// sign-out, and a state callback that fires once at subscribe time and on
// every change after that.
package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Identity struct {
	Uid         string
	IsAnonymous bool
	CreatedAt   time.Time
}

type Provider struct {
	mu             sync.Mutex
	current        *Identity
	listeners      map[int]func(*Identity)
	nextListenerId int
}

func NewProvider() *Provider {
	return &Provider{listeners: make(map[int]func(*Identity))}
}

func (p *Provider) SignInAnonymously(ctx context.Context) (Identity, error) {
	p.mu.Lock()
	id := Identity{
		Uid:         uuid.NewString(),
		IsAnonymous: true,
		CreatedAt:   time.Now(),
	}
	p.current = &id
	listeners := p.snapshotListenersLocked()
	p.mu.Unlock()

	notify(listeners, &id)

	return id, nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	listeners := p.snapshotListenersLocked()
	p.mu.Unlock()

	notify(listeners, nil)

	return nil
}

// OnAuthStateChanged registers a callback, invokes it immediately with the
// current identity (or nil) and returns an unsubscribe function.
func (p *Provider) OnAuthStateChanged(cb func(*Identity)) func() {
	p.mu.Lock()
	listenerId := p.nextListenerId
	p.nextListenerId++
	p.listeners[listenerId] = cb
	current := p.current
	p.mu.Unlock()

	cb(current)

	return func() {
		p.mu.Lock()
		delete(p.listeners, listenerId)
		p.mu.Unlock()
	}
}

func (p *Provider) CurrentIdentity() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current
}

func (p *Provider) snapshotListenersLocked() []func(*Identity) {
	listeners := make([]func(*Identity), 0, len(p.listeners))
	for _, cb := range p.listeners {
		listeners = append(listeners, cb)
	}

	return listeners
}

func notify(listeners []func(*Identity), id *Identity) {
	for _, cb := range listeners {
		cb(id)
	}
}

// Package gate owns the session state machine guarding the application:
// loading until the identity provider reports its initial state, then
// unauthenticated/verifying/authenticated driven by PIN verification.
package gate

import (
	"context"
	"errors"
	"sync"

	"github.com/gharapp/server/internal/domain"
	"github.com/gharapp/server/internal/identity"
	"github.com/gharapp/server/internal/repository/docstore"
)

var (
	ErrVerificationInProgress = errors.New("verification already in progress")
	ErrNotAuthenticated       = errors.New("not authenticated")
)

const (
	configCollection = "config"
	configDocumentId = "app"
)

type iIdentityProvider interface {
	SignInAnonymously(ctx context.Context) (identity.Identity, error)
	SignOut(ctx context.Context) error
	OnAuthStateChanged(cb func(*identity.Identity)) func()
}

type iConfigRepo interface {
	GetDocument(ctx context.Context, collection, id string) (docstore.Document, error)
}

type service struct {
	identityProvider iIdentityProvider
	configRepo       iConfigRepo
	secret           string

	mu          sync.Mutex
	status      domain.SessionStatus
	lastError   string
	checking    bool
	unsubscribe func()
}

func NewService(identityProvider iIdentityProvider, configRepo iConfigRepo, secret string) *service {
	s := service{
		identityProvider: identityProvider,
		configRepo:       configRepo,
		secret:           secret,
		status:           domain.SessionLoading,
	}
	s.unsubscribe = identityProvider.OnAuthStateChanged(s.handleAuthState)

	return &s
}

// handleAuthState resolves the initial loading state exactly once and
// tracks external sign-outs. Transitions during an in-flight verification
// belong to Verify, not to this callback.
func (s *service) handleAuthState(id *identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.status == domain.SessionLoading:
		if id != nil {
			s.status = domain.SessionAuthenticated
		} else {
			s.status = domain.SessionUnauthenticated
		}
	case id == nil && s.status == domain.SessionAuthenticated:
		s.status = domain.SessionUnauthenticated
	}
}

func (s *service) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Session{Status: s.status, LastError: s.lastError}
}

func (s *service) Logout(ctx context.Context) error {
	if err := s.identityProvider.SignOut(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.status = domain.SessionUnauthenticated
	s.lastError = ""
	s.mu.Unlock()

	return nil
}

func (s *service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

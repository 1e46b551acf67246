package gate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gharapp/server/internal/domain"
	"github.com/gharapp/server/internal/repository/docstore"
)

const (
	msgNotConfigured   = "App not configured. Please set up PIN in the admin console."
	msgWrongPin        = "Wrong PIN. Try again."
	msgConnectionError = "Connection error. Please try again."
)

type VerifyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Token   string `json:"token,omitempty"`
}

func hashPin(pin string) string {
	digest := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(digest[:])
}

// Verify runs a single verification attempt: anonymous sign-in, config
// fetch, digest comparison. A second call while one is outstanding returns
// ErrVerificationInProgress without dispatching anything. There is no
// retry and no attempt limit.
func (s *service) Verify(ctx context.Context, pin string) (VerifyResult, error) {
	s.mu.Lock()
	if s.checking {
		s.mu.Unlock()
		return VerifyResult{}, ErrVerificationInProgress
	}
	s.checking = true
	s.status = domain.SessionVerifying
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.checking = false
		s.mu.Unlock()
	}()

	digest := hashPin(pin)

	// the store denies unauthenticated reads, so establish an identity first
	if _, err := s.identityProvider.SignInAnonymously(ctx); err != nil {
		slog.Info("failed to sign in anonymously", "error", err)
		return s.fail(ctx, msgConnectionError), nil
	}

	doc, err := s.configRepo.GetDocument(ctx, configCollection, configDocumentId)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return s.fail(ctx, msgNotConfigured), nil
		}
		slog.Info("failed to get config document", "error", err)
		return s.fail(ctx, msgConnectionError), nil
	}

	var config struct {
		PinHash string `json:"pinHash"`
	}
	if err := json.Unmarshal(doc.Data, &config); err != nil {
		slog.Info("failed to unmarshal config document", "error", err)
		return s.fail(ctx, msgConnectionError), nil
	}

	if digest != config.PinHash {
		return s.fail(ctx, msgWrongPin), nil
	}

	token, err := s.generateSessionToken()
	if err != nil {
		slog.Info("failed to generate session token", "error", err)
		return s.fail(ctx, msgConnectionError), nil
	}

	s.mu.Lock()
	s.status = domain.SessionAuthenticated
	s.lastError = ""
	s.mu.Unlock()

	return VerifyResult{Success: true, Token: token}, nil
}

// fail reverts the session to unauthenticated and revokes the identity
// best-effort; a sign-out failure is swallowed, not surfaced.
func (s *service) fail(ctx context.Context, message string) VerifyResult {
	if err := s.identityProvider.SignOut(ctx); err != nil {
		slog.Debug("failed to sign out after failed verification", "error", err)
	}

	s.mu.Lock()
	s.status = domain.SessionUnauthenticated
	s.lastError = message
	s.mu.Unlock()

	return VerifyResult{Success: false, Error: message}
}

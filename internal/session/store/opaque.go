package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/puppies-api/internal/common/crypto"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/observability/metrics"
	"github.com/AlibekovAA/puppies-api/internal/session/domain"
)

type opaqueEntry struct {
	userID string
	cred   domain.Credential
}

// OpaqueStore issues random hex tokens held only in process memory. Both
// directions of the mapping change under one mutex.
type OpaqueStore struct {
	mu         sync.RWMutex
	tokens     map[string]opaqueEntry
	userTokens map[string]string
	clock      clock.Clock
	log        *logger.Logger
	newToken   func() (string, error)
}

func NewOpaqueStore(clk clock.Clock, log *logger.Logger) *OpaqueStore {
	return &OpaqueStore{
		tokens:     make(map[string]opaqueEntry),
		userTokens: make(map[string]string),
		clock:      clk,
		log:        log,
		newToken: func() (string, error) {
			return commoncrypto.RandomHex(constants.SessionTokenSize)
		},
	}
}

func (s *OpaqueStore) Issue(ctx context.Context, userID string) (domain.Credential, error) {
	token, err := s.newToken()
	if err != nil {
		return domain.Credential{}, fmt.Errorf("generate session token: %w", err)
	}

	cred := domain.Credential{
		Kind:     domain.KindOpaque,
		Value:    token,
		UserID:   userID,
		IssuedAt: s.clock.Now(),
	}

	s.mu.Lock()
	previous, hadPrevious := s.userTokens[userID]
	if hadPrevious {
		delete(s.tokens, previous)
	}
	s.tokens[token] = opaqueEntry{userID: userID, cred: cred}
	s.userTokens[userID] = token
	live := len(s.tokens)
	s.mu.Unlock()

	metrics.SessionsIssued.WithLabelValues(string(domain.KindOpaque)).Inc()
	metrics.SessionsActive.WithLabelValues(string(domain.KindOpaque)).Set(float64(live))
	if hadPrevious {
		metrics.SessionsSuperseded.WithLabelValues(string(domain.KindOpaque)).Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "session_superseded",
		}).Debug("previous session token retired")
	}

	return cred, nil
}

func (s *OpaqueStore) Resolve(_ context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	s.mu.RLock()
	entry, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	return entry.userID, true
}

func (s *OpaqueStore) Revoke(ctx context.Context, token string) {
	if token == "" {
		return
	}

	s.mu.Lock()
	entry, ok := s.tokens[token]
	if ok {
		delete(s.tokens, token)
		if s.userTokens[entry.userID] == token {
			delete(s.userTokens, entry.userID)
		}
	}
	live := len(s.tokens)
	s.mu.Unlock()

	if !ok {
		return
	}

	metrics.SessionsRevoked.WithLabelValues(string(domain.KindOpaque)).Inc()
	metrics.SessionsActive.WithLabelValues(string(domain.KindOpaque)).Set(float64(live))
	s.log.WithFields(ctx, logger.Fields{
		"user_id": entry.userID,
		"action":  "session_revoked",
	}).Info("session token revoked")
}

// Close drops every session.
func (s *OpaqueStore) Close() error {
	s.mu.Lock()
	s.tokens = make(map[string]opaqueEntry)
	s.userTokens = make(map[string]string)
	s.mu.Unlock()
	metrics.SessionsActive.WithLabelValues(string(domain.KindOpaque)).Set(0)
	return nil
}

// Len reports the number of live tokens.
func (s *OpaqueStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/puppies-api/internal/common/crypto"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/observability/metrics"
	"github.com/AlibekovAA/puppies-api/internal/session/domain"
)

var (
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")
	ErrMissingClaims           = errors.New("missing sub or jti claims")
)

type signedEntry struct {
	userID    string
	expiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// SignedStore issues HS256 tokens carrying sub, jti, iat and exp. A token
// resolves only while its jti is the one recorded for the user, which gives
// logout and single-session semantics on top of the signature check.
type SignedStore struct {
	mu       sync.RWMutex
	sessions map[string]signedEntry
	userJTI  map[string]string

	secret      []byte
	ttl         time.Duration
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger

	stopCleanup context.CancelFunc
	closeOnce   sync.Once
}

func NewSignedStore(secret string, ttl time.Duration, idGenerator commoncrypto.IDGenerator, clk clock.Clock, log *logger.Logger) *SignedStore {
	return &SignedStore{
		sessions:    make(map[string]signedEntry),
		userJTI:     make(map[string]string),
		secret:      []byte(secret),
		ttl:         ttl,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

// StartCleanup sweeps expired sessions every interval until Close.
func (s *SignedStore) StartCleanup(ctx context.Context, interval time.Duration) {
	cleanupCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.stopCleanup = cancel
	s.mu.Unlock()
	go StartCleanup(cleanupCtx, s, interval, s.log, "signed session")
}

func (s *SignedStore) Issue(ctx context.Context, userID string) (domain.Credential, error) {
	jti, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Credential{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("sign session token: %w", err)
	}

	s.mu.Lock()
	previous, hadPrevious := s.userJTI[userID]
	if hadPrevious {
		delete(s.sessions, previous)
	}
	s.sessions[jti] = signedEntry{userID: userID, expiresAt: expiresAt}
	s.userJTI[userID] = jti
	live := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsIssued.WithLabelValues(string(domain.KindSigned)).Inc()
	metrics.SessionsActive.WithLabelValues(string(domain.KindSigned)).Set(float64(live))
	if hadPrevious {
		metrics.SessionsSuperseded.WithLabelValues(string(domain.KindSigned)).Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "session_superseded",
		}).Debug("previous session token retired")
	}

	return domain.Credential{
		Kind:      domain.KindSigned,
		Value:     token,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *SignedStore) Resolve(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}

	claims, err := s.parse(token, true)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "session_token_rejected",
		}).Debugf("signed session rejected: %v", err)
		return "", false
	}

	s.mu.RLock()
	entry, ok := s.sessions[claims.ID]
	s.mu.RUnlock()
	if !ok || entry.userID != claims.Subject {
		return "", false
	}
	if !s.clock.Now().Before(entry.expiresAt) {
		return "", false
	}
	return entry.userID, true
}

func (s *SignedStore) Revoke(ctx context.Context, token string) {
	if token == "" {
		return
	}

	// Expired tokens are still revocable so the entry does not linger
	// until the next sweep.
	claims, err := s.parse(token, false)
	if err != nil {
		return
	}

	s.mu.Lock()
	entry, ok := s.sessions[claims.ID]
	if ok && entry.userID == claims.Subject {
		delete(s.sessions, claims.ID)
		if s.userJTI[entry.userID] == claims.ID {
			delete(s.userJTI, entry.userID)
		}
	} else {
		ok = false
	}
	live := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return
	}

	metrics.SessionsRevoked.WithLabelValues(string(domain.KindSigned)).Inc()
	metrics.SessionsActive.WithLabelValues(string(domain.KindSigned)).Set(float64(live))
	s.log.WithFields(ctx, logger.Fields{
		"user_id": entry.userID,
		"action":  "session_revoked",
	}).Info("session token revoked")
}

// DeleteExpired removes sessions whose expiry has passed.
func (s *SignedStore) DeleteExpired(_ context.Context) (int64, error) {
	now := s.clock.Now()

	s.mu.Lock()
	var deleted int64
	for jti, entry := range s.sessions {
		if now.Before(entry.expiresAt) {
			continue
		}
		delete(s.sessions, jti)
		if s.userJTI[entry.userID] == jti {
			delete(s.userJTI, entry.userID)
		}
		deleted++
	}
	live := len(s.sessions)
	s.mu.Unlock()

	if deleted > 0 {
		metrics.SessionsActive.WithLabelValues(string(domain.KindSigned)).Set(float64(live))
	}
	return deleted, nil
}

func (s *SignedStore) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.stopCleanup != nil {
			s.stopCleanup()
		}
		s.sessions = make(map[string]signedEntry)
		s.userJTI = make(map[string]string)
		s.mu.Unlock()
		metrics.SessionsActive.WithLabelValues(string(domain.KindSigned)).Set(0)
	})
	return nil
}

func (s *SignedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SignedStore) parse(token string, validate bool) (sessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	}
	if validate {
		opts = append(opts, jwt.WithExpirationRequired())
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnexpectedSigningMethod
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return sessionClaims{}, err
	}
	if !parsed.Valid {
		return sessionClaims{}, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" || claims.ID == "" {
		return sessionClaims{}, ErrMissingClaims
	}
	return claims, nil
}

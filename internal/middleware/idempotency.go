package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"
)

// IdempotencyStore remembers the responses of contract, player and team
// writes sent with an Idempotency-Key header
type IdempotencyStore struct {
	mu       sync.RWMutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	stopChan chan struct{}
}

type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // How long to keep results (default 24h)
	Cleanup time.Duration // Cleanup interval (default 1h)
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	store := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		stopChan: make(chan struct{}),
	}

	go store.cleanupLoop(cfg.Cleanup)

	return store
}

// Stop stops the cleanup goroutine
func (s *IdempotencyStore) Stop() {
	close(s.stopChan)
}

func (s *IdempotencyStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.entries {
		if entry.expiresAt.Before(now) && !entry.inFlight {
			delete(s.entries, key)
		}
	}
}

// lookup returns a completed, unexpired entry for key, waiting for an
// in-flight request with the same key to finish. When nothing can be
// replayed it reserves key for the caller and returns the new entry.
func (s *IdempotencyStore) lookup(key string) (replay *idempotencyEntry, reserved *idempotencyEntry) {
	s.mu.Lock()
	entry, exists := s.entries[key]
	if exists && entry.inFlight {
		s.mu.Unlock()
		<-entry.done

		s.mu.RLock()
		entry = s.entries[key]
		s.mu.RUnlock()
		if entry != nil && !entry.inFlight {
			return entry, nil
		}
		s.mu.Lock()
	} else if exists && entry.expiresAt.After(time.Now()) {
		s.mu.Unlock()
		return entry, nil
	}

	reserved = &idempotencyEntry{inFlight: true, done: make(chan struct{})}
	s.entries[key] = reserved
	s.mu.Unlock()
	return nil, reserved
}

// complete records the response for a reserved key. Server errors are not
// remembered so a retry reaches the handler again.
func (s *IdempotencyStore) complete(key string, entry *idempotencyEntry, w *idempotencyResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.inFlight = false
	close(entry.done)
	if w.status >= http.StatusInternalServerError {
		delete(s.entries, key)
		return
	}
	entry.status = w.status
	entry.headers = w.Header().Clone()
	entry.body = w.body.Bytes()
	entry.expiresAt = time.Now().Add(s.ttl)
}

// generateKey scopes an idempotency key to the caller and the request fingerprint
func generateKey(accountID, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(accountID))
	h.Write([]byte(idempotencyKey))
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// idempotencyResponseWriter captures the response for caching
type idempotencyResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *idempotencyResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func writeReplay(w http.ResponseWriter, entry *idempotencyEntry) {
	for k, v := range entry.headers {
		for _, val := range v {
			w.Header().Add(k, val)
		}
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(entry.status)
	_, _ = w.Write(entry.body)
}

// Idempotency returns middleware that handles idempotency keys for POST/PATCH requests
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get("Idempotency-Key")
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			accountID := GetAccountID(r.Context())
			if accountID == "" {
				accountID = r.RemoteAddr
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := generateKey(accountID, idempotencyKey, r.Method, r.URL.Path, body)

			replay, entry := store.lookup(key)
			if replay != nil {
				writeReplay(w, replay)
				return
			}

			irw := &idempotencyResponseWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
			}
			defer func() {
				if p := recover(); p != nil {
					irw.status = http.StatusInternalServerError
					store.complete(key, entry, irw)
					panic(p)
				}
			}()
			next.ServeHTTP(irw, r)
			store.complete(key, entry, irw)
		})
	}
}

package api

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type comparisonDownload struct {
	filePath   string
	targetDate string
	expiresAt  time.Time
}

// downloadStore hands out short-lived tokens for finished workbooks so the
// browser can fetch them over a plain GET after the SSE stream closes.
type downloadStore struct {
	mu    sync.Mutex
	items map[string]comparisonDownload
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]comparisonDownload),
	}
}

func (s *downloadStore) put(filePath, targetDate string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = newRandomToken(24)
	s.items[token] = comparisonDownload{
		filePath:   filePath,
		targetDate: targetDate,
		expiresAt:  time.Now().Add(ttl),
	}
	return token
}

func (s *downloadStore) get(token string) (comparisonDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return comparisonDownload{}, false
	}
	if time.Now().After(v.expiresAt) {
		delete(s.items, token)
		return comparisonDownload{}, false
	}
	return v, true
}

func (s *downloadStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

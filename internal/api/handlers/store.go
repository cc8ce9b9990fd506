package handlers

import (
	"sync"

	"github.com/bmstu-itstech/botarena/internal/series"
)

// SeriesStore is the demo process's single-owner registry of live Series
// Managers, keyed by seriesID. The engine core has no notion of "many
// series at once" (§3: the Series Manager owns exactly one Series) — this
// store exists purely so one demo process can host more than one operator
// session concurrently, each with its own Series Manager instance. It
// lives in package handlers (not package api) so internal/api can import
// internal/api/handlers without handlers importing back.
type SeriesStore struct {
	mu   sync.RWMutex
	byID map[string]*series.Manager
}

// NewSeriesStore returns an empty store.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{byID: make(map[string]*series.Manager)}
}

// Put registers mgr under seriesID.
func (s *SeriesStore) Put(seriesID string, mgr *series.Manager) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[seriesID] = mgr
}

// Get returns the Series Manager for seriesID, if any.
func (s *SeriesStore) Get(seriesID string) (*series.Manager, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mgr, ok := s.byID[seriesID]
	return mgr, ok
}

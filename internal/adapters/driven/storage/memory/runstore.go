// Package memory provides in-memory implementations of the storage ports.
// State lives for the process lifetime only.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
)

// Ensure RunStatusStore implements the interface.
var _ driven.RunStatusStore = (*RunStatusStore)(nil)

// RunStatusStore tracks indexing run state per application in memory.
// Entries are overwritten on every transition (last-write-wins) and lost
// on restart, after which every application reads back as idle.
type RunStatusStore struct {
	mu   sync.RWMutex
	runs map[string]domain.IndexingRun
}

// NewRunStatusStore creates a new in-memory run status store.
func NewRunStatusStore() *RunStatusStore {
	return &RunStatusStore{
		runs: make(map[string]domain.IndexingRun),
	}
}

// Set overwrites the run state for an application, stamping the current time.
func (s *RunStatusStore) Set(_ context.Context, applicationID string, status domain.RunStatus) error {
	if applicationID == "" {
		return fmt.Errorf("%w: application id is required", domain.ErrInvalidArgument)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown run status %q", domain.ErrInvalidArgument, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[applicationID] = domain.IndexingRun{
		Status:    status,
		UpdatedAt: time.Now(),
	}
	return nil
}

// Get returns the run state for an application. A missing entry reads as
// idle with a zero timestamp; idle is the implicit default, not an error.
func (s *RunStatusStore) Get(_ context.Context, applicationID string) (*domain.IndexingRun, error) {
	if applicationID == "" {
		return nil, fmt.Errorf("%w: application id is required", domain.ErrInvalidArgument)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[applicationID]
	if !ok {
		return &domain.IndexingRun{Status: domain.RunIdle}, nil
	}
	return &run, nil
}

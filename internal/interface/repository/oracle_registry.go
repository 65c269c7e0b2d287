package repository

import (
	"sync"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"
)

// MemoryOracleRegistry keeps oracle registrations in memory for the life of the process
type MemoryOracleRegistry struct {
	mu      sync.RWMutex
	oracles []entity.OracleRegistration
}

// NewMemoryOracleRegistry creates an empty registry
func NewMemoryOracleRegistry() repository.OracleRegistry {
	return &MemoryOracleRegistry{}
}

// Add appends a registration
func (r *MemoryOracleRegistry) Add(registration entity.OracleRegistration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oracles = append(r.oracles, registration)
}

// All returns a copy of every registration in insertion order
func (r *MemoryOracleRegistry) All() []entity.OracleRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.OracleRegistration(nil), r.oracles...)
}

// Matching returns the registrations holding index in any of their slots
func (r *MemoryOracleRegistry) Matching(index uint8) []entity.OracleRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.OracleRegistration
	for _, oracle := range r.oracles {
		if oracle.Matches(index) {
			matched = append(matched, oracle)
		}
	}
	return matched
}

// Len returns the number of registrations
func (r *MemoryOracleRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.oracles)
}

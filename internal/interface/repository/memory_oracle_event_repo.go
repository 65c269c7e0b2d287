package repository

import (
	"context"
	"sync"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"
)

// MemoryOracleEventRepository keeps oracle traffic in memory, used when no MongoDB is configured
type MemoryOracleEventRepository struct {
	mu        sync.RWMutex
	requests  []*entity.OracleRequest
	responses []*entity.OracleResponse
	reports   []*entity.OracleReport
}

// NewMemoryOracleEventRepository creates an empty in-memory repository
func NewMemoryOracleEventRepository() repository.OracleEventRepository {
	return &MemoryOracleEventRepository{}
}

// SaveRequest appends an oracle request
func (r *MemoryOracleEventRepository) SaveRequest(ctx context.Context, request *entity.OracleRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, request)
	return nil
}

// SaveResponse appends an oracle response
func (r *MemoryOracleEventRepository) SaveResponse(ctx context.Context, response *entity.OracleResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, response)
	return nil
}

// SaveReport appends an oracle report
func (r *MemoryOracleEventRepository) SaveReport(ctx context.Context, report *entity.OracleReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return nil
}

// newestFirst pages through items stored oldest first
func newestFirst[T any](items []T, skip, limit int) []T {
	if limit <= 0 || skip < 0 {
		return []T{}
	}
	page := make([]T, 0, limit)
	for i := len(items) - 1 - skip; i >= 0 && len(page) < limit; i-- {
		page = append(page, items[i])
	}
	return page
}

// ListResponses returns a page of responses, newest first
func (r *MemoryOracleEventRepository) ListResponses(ctx context.Context, skip, limit int) ([]*entity.OracleResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.responses, skip, limit), nil
}

// ListReports returns a page of reports, newest first
func (r *MemoryOracleEventRepository) ListReports(ctx context.Context, skip, limit int) ([]*entity.OracleReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.reports, skip, limit), nil
}

package repository

import (
	"context"
	"sync"
	"time"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"

	"github.com/ethereum/go-ethereum/common"
)

// MemoryAirlineRepository keeps the airline directory in memory, discarded on restart
type MemoryAirlineRepository struct {
	mu       sync.RWMutex
	airlines map[common.Address]*entity.Airline
	order    []common.Address
}

// NewMemoryAirlineRepository creates an empty in-memory airline directory
func NewMemoryAirlineRepository() repository.AirlineRepository {
	return &MemoryAirlineRepository{
		airlines: make(map[common.Address]*entity.Airline),
	}
}

// Save inserts or updates an airline keyed by address
func (r *MemoryAirlineRepository) Save(ctx context.Context, airline *entity.Airline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := *airline
	stored.UpdatedAt = now

	if existing, ok := r.airlines[airline.Address]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
		r.order = append(r.order, airline.Address)
	}
	r.airlines[airline.Address] = &stored
	return nil
}

// GetByAddress returns a copy of the airline stored at address
func (r *MemoryAirlineRepository) GetByAddress(ctx context.Context, address common.Address) (*entity.Airline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	airline, ok := r.airlines[address]
	if !ok {
		return nil, entity.ErrAirlineNotFound
	}
	copied := *airline
	return &copied, nil
}

// List returns the airlines in the order they were first saved
func (r *MemoryAirlineRepository) List(ctx context.Context) ([]*entity.Airline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	airlines := make([]*entity.Airline, 0, len(r.order))
	for _, address := range r.order {
		copied := *r.airlines[address]
		airlines = append(airlines, &copied)
	}
	return airlines, nil
}

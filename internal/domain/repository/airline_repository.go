package repository

import (
	"context"

	"flightsurety-service/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// AirlineRepository defines the interface for the dapp's airline directory
type AirlineRepository interface {
	Save(ctx context.Context, airline *entity.Airline) error
	GetByAddress(ctx context.Context, address common.Address) (*entity.Airline, error)
	List(ctx context.Context) ([]*entity.Airline, error)
}

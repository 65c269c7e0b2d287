package repository

import (
	"context"
	"testing"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"
	"flightsurety-service/internal/testutil"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func exerciseAirlineRepository(t *testing.T, repo repository.AirlineRepository) {
	ctx := context.Background()
	first := common.BytesToAddress([]byte{1})
	second := common.BytesToAddress([]byte{2})

	_, err := repo.GetByAddress(ctx, first)
	require.ErrorIs(t, err, entity.ErrAirlineNotFound)

	require.NoError(t, repo.Save(ctx, &entity.Airline{Name: "Test Airline 1", Address: first, Registered: true}))
	require.NoError(t, repo.Save(ctx, &entity.Airline{Name: "Test Airline 2", Address: second}))

	// Saving the same address again updates in place
	require.NoError(t, repo.Save(ctx, &entity.Airline{Name: "Test Airline 1", Address: first, Registered: true, Funded: true}))

	airline, err := repo.GetByAddress(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "Test Airline 1", airline.Name)
	require.True(t, airline.Registered)
	require.True(t, airline.Funded)

	airlines, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, airlines, 2)
	require.Equal(t, first, airlines[0].Address)
	require.Equal(t, second, airlines[1].Address)
	require.False(t, airlines[1].Registered)
}

func TestMemoryAirlineRepository(t *testing.T) {
	exerciseAirlineRepository(t, NewMemoryAirlineRepository())
}

func TestGormAirlineRepository(t *testing.T) {
	db := testutil.PostgresStart(t)
	repo := NewGormAirlineRepository(db).(*GormAirlineRepository)
	require.NoError(t, repo.Migrate())
	exerciseAirlineRepository(t, repo)
}

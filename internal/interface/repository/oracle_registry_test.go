package repository

import (
	"testing"

	"flightsurety-service/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestMemoryOracleRegistry(t *testing.T) {
	registry := NewMemoryOracleRegistry()
	require.Equal(t, 0, registry.Len())

	a := entity.OracleRegistration{Account: common.BytesToAddress([]byte{1}), Indices: [3]uint8{1, 2, 3}}
	b := entity.OracleRegistration{Account: common.BytesToAddress([]byte{2}), Indices: [3]uint8{3, 3, 9}}
	c := entity.OracleRegistration{Account: common.BytesToAddress([]byte{3}), Indices: [3]uint8{4, 5, 6}}
	registry.Add(a)
	registry.Add(b)
	registry.Add(c)

	require.Equal(t, 3, registry.Len())
	require.Equal(t, []entity.OracleRegistration{a, b, c}, registry.All())
	require.Equal(t, []entity.OracleRegistration{a, b}, registry.Matching(3))
	require.Equal(t, []entity.OracleRegistration{b}, registry.Matching(9))
	require.Empty(t, registry.Matching(7))

	// All returns a copy
	all := registry.All()
	all[0].Indices = [3]uint8{0, 0, 0}
	require.Equal(t, a, registry.All()[0])
}

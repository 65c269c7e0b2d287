package entity

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func testAccounts(n int) []common.Address {
	accounts := make([]common.Address, n)
	for i := range accounts {
		accounts[i] = common.BytesToAddress([]byte{byte(i + 1)})
	}
	return accounts
}

func TestNewAccountPool(t *testing.T) {
	accounts := testAccounts(20)

	pool, err := NewAccountPool(accounts)
	require.NoError(t, err)
	require.Equal(t, accounts[0], pool.Owner)
	require.Equal(t, accounts[1], pool.FirstAirline)
	require.Equal(t, accounts[2:7], pool.Airlines)
	require.Equal(t, accounts[7:12], pool.Passengers)
	require.Len(t, pool.Accounts, 20)
	require.True(t, pool.IsPassenger(accounts[9]))
	require.False(t, pool.IsPassenger(accounts[3]))
}

func TestNewAccountPool_NotEnoughAccounts(t *testing.T) {
	_, err := NewAccountPool(testAccounts(11))
	require.ErrorIs(t, err, ErrNotEnoughAccounts)
}

func TestOracleRegistration_Matches(t *testing.T) {
	oracle := OracleRegistration{Indices: [3]uint8{1, 4, 7}}
	require.True(t, oracle.Matches(1))
	require.True(t, oracle.Matches(7))
	require.False(t, oracle.Matches(2))
}

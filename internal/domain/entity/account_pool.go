package entity

import "github.com/ethereum/go-ethereum/common"

const (
	PoolAirlines   = 5
	PoolPassengers = 5
)

// AccountPool partitions the node accounts by position
type AccountPool struct {
	Owner        common.Address   `json:"owner"`
	FirstAirline common.Address   `json:"firstAirline"`
	Airlines     []common.Address `json:"airlines"`
	Passengers   []common.Address `json:"passengers"`
	Accounts     []common.Address `json:"accounts"`
}

// NewAccountPool assigns accounts[0] to the owner, accounts[1] to the first airline,
// the next five to airlines and the five after that to passengers.
func NewAccountPool(accounts []common.Address) (*AccountPool, error) {
	if len(accounts) < 2+PoolAirlines+PoolPassengers {
		return nil, ErrNotEnoughAccounts
	}

	counter := 2
	airlines := append([]common.Address(nil), accounts[counter:counter+PoolAirlines]...)
	counter += PoolAirlines
	passengers := append([]common.Address(nil), accounts[counter:counter+PoolPassengers]...)

	return &AccountPool{
		Owner:        accounts[0],
		FirstAirline: accounts[1],
		Airlines:     airlines,
		Passengers:   passengers,
		Accounts:     append([]common.Address(nil), accounts...),
	}, nil
}

// IsPassenger reports whether addr is one of the pool passengers
func (p *AccountPool) IsPassenger(addr common.Address) bool {
	for _, passenger := range p.Passengers {
		if passenger == addr {
			return true
		}
	}
	return false
}

package repository

import (
	"context"
	"math/big"

	"flightsurety-service/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// FlightSuretyContract is the gateway to the deployed FlightSuretyApp contract.
// Every method takes the account the call or transaction is sent from; write
// methods return the transaction hash.
type FlightSuretyContract interface {
	Accounts(ctx context.Context) ([]common.Address, error)
	IsOperational(ctx context.Context, from common.Address) (bool, error)

	// Oracles
	RegistrationFee(ctx context.Context, from common.Address) (*big.Int, error)
	RegisterOracle(ctx context.Context, from common.Address, fee *big.Int) (common.Hash, error)
	GetMyIndexes(ctx context.Context, from common.Address) ([3]uint8, error)
	SubmitOracleResponse(ctx context.Context, from common.Address, index uint8, key entity.FlightKey, status entity.StatusCode) (common.Hash, error)

	// Airlines
	RegisterAirline(ctx context.Context, from common.Address, airline common.Address, name string) (common.Hash, error)
	VoteToRegisterAirline(ctx context.Context, from common.Address, airline common.Address) (common.Hash, error)
	PayFunding(ctx context.Context, from common.Address, amount *big.Int) (common.Hash, error)
	GetAirlineIsRegistered(ctx context.Context, from common.Address, airline common.Address) (bool, error)
	GetAirlinesCount(ctx context.Context, from common.Address) (*big.Int, error)

	// Flights and insurance
	RegisterFlight(ctx context.Context, from common.Address, key entity.FlightKey) (common.Hash, error)
	FetchFlightStatus(ctx context.Context, from common.Address, key entity.FlightKey) (common.Hash, error)
	CheckFlightStatus(ctx context.Context, from common.Address, key entity.FlightKey) (uint8, error)
	Buy(ctx context.Context, from common.Address, key entity.FlightKey, passenger common.Address, amount *big.Int) (common.Hash, error)
	ClaimInsurance(ctx context.Context, from common.Address, key entity.FlightKey) (uint8, error)
	GetInsuranceCredits(ctx context.Context, from common.Address, key entity.FlightKey, passenger common.Address) (*big.Int, error)
	WithdrawInsuranceCredits(ctx context.Context, from common.Address, key entity.FlightKey, passenger common.Address) (common.Hash, error)
}

// Subscription is a live event stream; Err delivers a fatal subscription error
type Subscription interface {
	Unsubscribe()
	Err() <-chan error
}

// OracleEventSource streams decoded oracle events emitted by the contract
type OracleEventSource interface {
	SubscribeOracleRequests(ctx context.Context, fromBlock *big.Int, ch chan<- *entity.OracleRequest) (Subscription, error)
	SubscribeOracleReports(ctx context.Context, fromBlock *big.Int, ch chan<- *entity.OracleReport) (Subscription, error)
}

package dapp

import (
	"context"
	"math/big"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/usecase"

	"github.com/ethereum/go-ethereum/common"
)

// Controller is the front-end controller driven by the HTTP API
type Controller interface {
	Pool() *entity.AccountPool
	Timestamp() *big.Int
	IsOperational(ctx context.Context) (bool, error)
	RegisterAirline(ctx context.Context, name string, address common.Address) (*usecase.AirlineRegistration, error)
	VoteAirline(ctx context.Context, candidate, voter common.Address) (bool, error)
	FundAirline(ctx context.Context, address common.Address) (*usecase.AirlineFunding, error)
	AirlinesByRegistration(ctx context.Context) (*usecase.AirlinePartition, error)
	AirlineDirectory(ctx context.Context) ([]*entity.Airline, error)
	AirlinesCount(ctx context.Context) (*big.Int, error)
	Flights() []entity.FlightDraft
	Flight(code string) (entity.FlightDraft, error)
	RegisterFlight(ctx context.Context, code string) (*usecase.FlightTx, error)
	BuyInsurance(ctx context.Context, code string, passenger common.Address, ether string) (*usecase.InsurancePurchase, error)
	FetchFlightStatus(ctx context.Context, code string) (*usecase.FlightStatus, error)
	CheckFlightInsurance(ctx context.Context, code string) (*usecase.ClaimCheck, error)
	CheckCredits(ctx context.Context, code string, passenger common.Address) (*usecase.CreditsCheck, error)
	WithdrawCredits(ctx context.Context, code string, passenger common.Address) (*usecase.FlightTx, error)
	RegisterOracles(ctx context.Context) ([]uint8, error)
	Oracles() []uint8
}

var _ Controller = (*usecase.Dapp)(nil)

package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"
	"flightsurety-service/pkg/logger"
	"flightsurety-service/pkg/metrics"
	"flightsurety-service/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

const (
	FirstAirlineName = "Test Airline 1"
	creditsThreshold = 20
)

var (
	fundingAmount    = utils.MustEtherToWei("10")
	oracleFee        = big.NewInt(params.Ether)
	maxInsurancePaid = big.NewInt(params.Ether)
)

// DappConfig tunes the front-end controller
type DappConfig struct {
	OracleCount int
	RPCTimeout  time.Duration
	// Timestamp fixes the session timestamp; zero means the time of construction
	Timestamp int64
}

// Dapp drives the FlightSuretyApp contract on behalf of the demo front end.
// Every flight operation uses the session timestamp fixed at construction.
type Dapp struct {
	contract    repository.FlightSuretyContract
	airlineRepo repository.AirlineRepository
	generator   *FlightGenerator
	metrics     *metrics.Metrics
	logger      logger.Logger
	cfg         DappConfig

	pool      *entity.AccountPool
	timestamp *big.Int

	mu      sync.RWMutex
	flights map[string]entity.FlightDraft
	order   []string
	oracles []uint8
}

// AirlineRegistration is the outcome of RegisterAirline
type AirlineRegistration struct {
	Message    string      `json:"message"`
	TxHash     common.Hash `json:"txHash"`
	Registered bool        `json:"registered"`
}

// AirlineFunding is the outcome of FundAirline
type AirlineFunding struct {
	Name    string               `json:"name"`
	Address common.Address       `json:"address"`
	Amount  string               `json:"amount"`
	TxHash  common.Hash          `json:"txHash"`
	Flights []entity.FlightDraft `json:"flights"`
}

// AirlinePartition splits the pool airlines by registration
type AirlinePartition struct {
	Registered   []entity.Airline `json:"registered"`
	Unregistered []entity.Airline `json:"unregistered"`
}

// FlightTx is a transaction sent for a flight
type FlightTx struct {
	Flight    entity.FlightDraft `json:"flight"`
	Timestamp *big.Int           `json:"timestamp"`
	TxHash    common.Hash        `json:"txHash"`
}

// InsurancePurchase is the outcome of BuyInsurance
type InsurancePurchase struct {
	FlightTx
	Passenger common.Address `json:"passenger"`
	Amount    string         `json:"amount"`
}

// FlightStatus is a flight with its translated contract status
type FlightStatus struct {
	Flight string        `json:"flight"`
	Status entity.Status `json:"status"`
}

// ClaimCheck is the outcome of CheckFlightInsurance
type ClaimCheck struct {
	FlightStatus
	Eligible bool   `json:"eligible"`
	Message  string `json:"message"`
}

// CreditsCheck is the outcome of CheckCredits
type CreditsCheck struct {
	Credits *big.Int `json:"credits"`
	Message string   `json:"message"`
}

// NewDapp reads the node accounts and builds the controller around them
func NewDapp(
	ctx context.Context,
	contract repository.FlightSuretyContract,
	airlineRepo repository.AirlineRepository,
	generator *FlightGenerator,
	metrics *metrics.Metrics,
	logger logger.Logger,
	cfg DappConfig,
) (*Dapp, error) {
	callCtx, cancel := withTimeout(ctx, cfg.RPCTimeout)
	accounts, err := contract.Accounts(callCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	pool, err := entity.NewAccountPool(accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to build account pool from %d accounts: %w", len(accounts), err)
	}

	timestamp := cfg.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	d := &Dapp{
		contract:    contract,
		airlineRepo: airlineRepo,
		generator:   generator,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
		pool:        pool,
		timestamp:   big.NewInt(timestamp),
		flights:     make(map[string]entity.FlightDraft),
	}

	if err := airlineRepo.Save(ctx, &entity.Airline{
		Name:       FirstAirlineName,
		Address:    pool.FirstAirline,
		Registered: true,
	}); err != nil {
		logger.Warn("Failed to save first airline", "error", err)
	}

	return d, nil
}

// Pool returns the account partition
func (d *Dapp) Pool() *entity.AccountPool {
	return d.pool
}

// Timestamp returns the session timestamp
func (d *Dapp) Timestamp() *big.Int {
	return new(big.Int).Set(d.timestamp)
}

func (d *Dapp) observe(operation string, err error) {
	d.metrics.ContractOperations.WithLabelValues(operation).Inc()
	if err != nil {
		d.metrics.ErrorsCount.WithLabelValues(operation).Inc()
		d.logger.Error("Contract operation failed", "operation", operation, "error", err)
	}
}

// warnUnknownPassenger logs payments from accounts outside the passenger pool
func (d *Dapp) warnUnknownPassenger(operation string, passenger common.Address) {
	if !d.pool.IsPassenger(passenger) {
		d.logger.Warn("Passenger is not in the account pool", "operation", operation, "passenger", passenger.Hex())
	}
}

func (d *Dapp) airlineName(ctx context.Context, address common.Address) string {
	airline, err := d.airlineRepo.GetByAddress(ctx, address)
	if err != nil || airline.Name == "" {
		return address.Hex()
	}
	return airline.Name
}

func (d *Dapp) updateAirline(ctx context.Context, address common.Address, update func(*entity.Airline)) {
	airline, err := d.airlineRepo.GetByAddress(ctx, address)
	if err != nil {
		if !errors.Is(err, entity.ErrAirlineNotFound) {
			d.logger.Warn("Failed to read airline", "address", address.Hex(), "error", err)
		}
		airline = &entity.Airline{Address: address}
	}
	update(airline)
	if err := d.airlineRepo.Save(ctx, airline); err != nil {
		d.logger.Warn("Failed to save airline", "address", address.Hex(), "error", err)
	}
}

// IsOperational reads the contract's operational flag as the owner
func (d *Dapp) IsOperational(ctx context.Context) (bool, error) {
	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	operational, err := d.contract.IsOperational(callCtx, d.pool.Owner)
	d.observe("is_operational", err)
	return operational, err
}

// RegisterAirline asks the first airline to register address under name
func (d *Dapp) RegisterAirline(ctx context.Context, name string, address common.Address) (*AirlineRegistration, error) {
	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	hash, err := d.contract.RegisterAirline(callCtx, d.pool.FirstAirline, address, name)
	d.observe("register_airline", err)
	if err != nil {
		return nil, err
	}

	result := &AirlineRegistration{
		Message: "SUCCESS - " + hash.Hex(),
		TxHash:  hash,
	}

	registered, err := d.contract.GetAirlineIsRegistered(callCtx, d.pool.Owner, address)
	if err != nil {
		d.logger.Warn("Failed to read airline registration", "address", address.Hex(), "error", err)
	} else {
		result.Registered = registered
		d.logger.Info("Airline registration checked", "address", address.Hex(), "registered", registered)
	}

	d.updateAirline(ctx, address, func(a *entity.Airline) {
		a.Name = name
		a.Registered = result.Registered
	})

	return result, nil
}

// VoteAirline casts voter's vote for candidate and reports whether the candidate is now registered
func (d *Dapp) VoteAirline(ctx context.Context, candidate, voter common.Address) (bool, error) {
	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	_, err := d.contract.VoteToRegisterAirline(callCtx, voter, candidate)
	d.observe("vote_airline", err)
	if err != nil {
		return false, err
	}

	registered, err := d.contract.GetAirlineIsRegistered(callCtx, d.pool.FirstAirline, candidate)
	if err != nil {
		return false, fmt.Errorf("failed to read airline registration: %w", err)
	}

	if registered {
		d.updateAirline(ctx, candidate, func(a *entity.Airline) {
			a.Registered = true
		})
	}
	return registered, nil
}

// FundAirline pays the 10 ether participation fee from the airline and
// generates its demo flights.
func (d *Dapp) FundAirline(ctx context.Context, address common.Address) (*AirlineFunding, error) {
	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	hash, err := d.contract.PayFunding(callCtx, address, fundingAmount)
	d.observe("fund_airline", err)
	if err != nil {
		return nil, err
	}

	name := d.airlineName(ctx, address)
	flights := d.generator.Generate(name, address)

	d.mu.Lock()
	for _, f := range flights {
		if _, exists := d.flights[f.Code]; !exists {
			d.order = append(d.order, f.Code)
		}
		d.flights[f.Code] = f
	}
	d.mu.Unlock()

	d.updateAirline(ctx, address, func(a *entity.Airline) {
		if a.Name == "" {
			a.Name = name
		}
		a.Funded = true
	})

	return &AirlineFunding{
		Name:    name,
		Address: address,
		Amount:  utils.WeiToEther(fundingAmount),
		TxHash:  hash,
		Flights: flights,
	}, nil
}

// AirlinesByRegistration splits the pool airlines by their registration on the contract.
// Airlines whose registration cannot be read appear in neither list.
func (d *Dapp) AirlinesByRegistration(ctx context.Context) (*AirlinePartition, error) {
	partition := &AirlinePartition{
		Registered:   []entity.Airline{},
		Unregistered: []entity.Airline{},
	}

	var lastErr error
	for _, address := range d.pool.Airlines {
		callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
		registered, err := d.contract.GetAirlineIsRegistered(callCtx, d.pool.FirstAirline, address)
		cancel()
		if err != nil {
			d.observe("get_airline_is_registered", err)
			lastErr = err
			continue
		}

		airline := entity.Airline{
			Name:       d.airlineName(ctx, address),
			Address:    address,
			Registered: registered,
		}
		if registered {
			partition.Registered = append(partition.Registered, airline)
		} else {
			partition.Unregistered = append(partition.Unregistered, airline)
		}
	}

	if len(partition.Registered)+len(partition.Unregistered) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return partition, nil
}

// AirlineDirectory lists every airline the dapp has recorded
func (d *Dapp) AirlineDirectory(ctx context.Context) ([]*entity.Airline, error) {
	airlines, err := d.airlineRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list airlines: %w", err)
	}
	return airlines, nil
}

// AirlinesCount returns the number of airlines registered on the contract
func (d *Dapp) AirlinesCount(ctx context.Context) (*big.Int, error) {
	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	count, err := d.contract.GetAirlinesCount(callCtx, d.pool.Owner)
	d.observe("get_airlines_count", err)
	return count, err
}

// Flights lists the generated flights in creation order
func (d *Dapp) Flights() []entity.FlightDraft {
	d.mu.RLock()
	defer d.mu.RUnlock()

	flights := make([]entity.FlightDraft, 0, len(d.order))
	for _, code := range d.order {
		flights = append(flights, d.flights[code])
	}
	return flights
}

// Flight looks a generated flight up by code
func (d *Dapp) Flight(code string) (entity.FlightDraft, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	f, ok := d.flights[code]
	if !ok {
		return entity.FlightDraft{}, fmt.Errorf("%w: %s", entity.ErrFlightNotFound, code)
	}
	return f, nil
}

// RegisterFlight registers a generated flight from the first airline
func (d *Dapp) RegisterFlight(ctx context.Context, code string) (*FlightTx, error) {
	flight, err := d.Flight(code)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	hash, err := d.contract.RegisterFlight(callCtx, d.pool.FirstAirline, flight.Key(d.timestamp))
	d.observe("register_flight", err)
	if err != nil {
		return nil, err
	}
	return &FlightTx{Flight: flight, Timestamp: d.Timestamp(), TxHash: hash}, nil
}

// BuyInsurance buys insurance on a flight for passenger, paying at most one ether
func (d *Dapp) BuyInsurance(ctx context.Context, code string, passenger common.Address, ether string) (*InsurancePurchase, error) {
	amount, err := utils.EtherToWei(ether)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInsuranceAmount, err)
	}
	if amount.Sign() <= 0 || amount.Cmp(maxInsurancePaid) > 0 || passenger == (common.Address{}) {
		return nil, fmt.Errorf("%w: %s ether", entity.ErrInvalidInsuranceAmount, ether)
	}

	flight, err := d.Flight(code)
	if err != nil {
		return nil, err
	}
	d.warnUnknownPassenger("buy", passenger)

	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	hash, err := d.contract.Buy(callCtx, passenger, flight.Key(d.timestamp), passenger, amount)
	d.observe("buy", err)
	if err != nil {
		return nil, err
	}

	return &InsurancePurchase{
		FlightTx:  FlightTx{Flight: flight, Timestamp: d.Timestamp(), TxHash: hash},
		Passenger: passenger,
		Amount:    utils.WeiToEther(amount),
	}, nil
}

// FetchFlightStatus asks the oracles for the flight's status, then reads
// whatever status the contract currently holds.
func (d *Dapp) FetchFlightStatus(ctx context.Context, code string) (*FlightStatus, error) {
	flight, err := d.Flight(code)
	if err != nil {
		return nil, err
	}
	key := flight.Key(d.timestamp)

	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	_, err = d.contract.FetchFlightStatus(callCtx, d.pool.Owner, key)
	d.observe("fetch_flight_status", err)

	raw, err := d.contract.CheckFlightStatus(callCtx, d.pool.Owner, key)
	d.observe("check_flight_status", err)
	if err != nil {
		return nil, err
	}

	status, err := entity.LookupStatus(raw)
	if err != nil {
		return nil, err
	}
	return &FlightStatus{Flight: flight.Code, Status: status}, nil
}

// CheckFlightInsurance reports whether the flight's status pays out insurance
func (d *Dapp) CheckFlightInsurance(ctx context.Context, code string) (*ClaimCheck, error) {
	flight, err := d.Flight(code)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	raw, err := d.contract.ClaimInsurance(callCtx, d.pool.Owner, flight.Key(d.timestamp))
	d.observe("claim_insurance", err)
	if err != nil {
		return nil, err
	}

	status, err := entity.LookupStatus(raw)
	if err != nil {
		return nil, err
	}

	check := &ClaimCheck{
		FlightStatus: FlightStatus{Flight: flight.Code, Status: status},
		Eligible:     status.Code.IsLate(),
	}
	if check.Eligible {
		check.Message = "YES --- " + status.Label
	} else {
		check.Message = "NO --- " + status.Label
	}
	return check, nil
}

// CheckCredits reads the passenger's insurance credits on a flight
func (d *Dapp) CheckCredits(ctx context.Context, code string, passenger common.Address) (*CreditsCheck, error) {
	flight, err := d.Flight(code)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	credits, err := d.contract.GetInsuranceCredits(callCtx, d.pool.Owner, flight.Key(d.timestamp), passenger)
	d.observe("get_insurance_credits", err)
	if err != nil {
		return nil, err
	}

	check := &CreditsCheck{Credits: credits}
	if credits.Cmp(big.NewInt(creditsThreshold)) >= 0 {
		check.Message = "YES, you have this amount:" + utils.WeiToEther(credits)
	} else {
		check.Message = "NO --- " + credits.String()
	}
	return check, nil
}

// WithdrawCredits pays the passenger's credits on a flight out to the passenger
func (d *Dapp) WithdrawCredits(ctx context.Context, code string, passenger common.Address) (*FlightTx, error) {
	flight, err := d.Flight(code)
	if err != nil {
		return nil, err
	}

	d.warnUnknownPassenger("withdraw_insurance_credits", passenger)

	callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
	defer cancel()

	hash, err := d.contract.WithdrawInsuranceCredits(callCtx, passenger, flight.Key(d.timestamp), passenger)
	d.observe("withdraw_insurance_credits", err)
	if err != nil {
		return nil, err
	}
	return &FlightTx{Flight: flight, Timestamp: d.Timestamp(), TxHash: hash}, nil
}

// RegisterOracles registers OracleCount-1 oracles from the owner with a one
// ether fee and returns every index read back, flattened. Indices gathered
// before a failure are returned alongside the joined errors.
func (d *Dapp) RegisterOracles(ctx context.Context) ([]uint8, error) {
	var errs []error
	var indices []uint8

	for a := 1; a < d.cfg.OracleCount; a++ {
		callCtx, cancel := withTimeout(ctx, d.cfg.RPCTimeout)
		_, err := d.contract.RegisterOracle(callCtx, d.pool.Owner, oracleFee)
		d.observe("register_oracle", err)
		if err != nil {
			errs = append(errs, err)
		}

		got, err := d.contract.GetMyIndexes(callCtx, d.pool.Owner)
		cancel()
		d.observe("get_my_indexes", err)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		indices = append(indices, got[:]...)
	}

	d.mu.Lock()
	d.oracles = append(d.oracles, indices...)
	d.mu.Unlock()

	return indices, errors.Join(errs...)
}

// Oracles returns every index collected by RegisterOracles so far
func (d *Dapp) Oracles() []uint8 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]uint8(nil), d.oracles...)
}

package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"
	"flightsurety-service/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	// DefaultGas is the gas limit attached to every call and transaction
	DefaultGas uint64 = 4712388
)

// DefaultGasPrice is 100 gwei
var DefaultGasPrice = big.NewInt(100 * params.GWei)

var errEmptyResult = errors.New("contract call returned no data")

type rpcCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

type logFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// Gateway implements repository.FlightSuretyContract over JSON-RPC using
// accounts unlocked on the node.
type Gateway struct {
	client   rpcCaller
	filterer logFilterer
	abi      abi.ABI
	bound    *bind.BoundContract
	address  common.Address
	gas      uint64
	gasPrice *big.Int
	logger   logger.Logger
}

var (
	_ repository.FlightSuretyContract = (*Gateway)(nil)
	_ repository.OracleEventSource    = (*Gateway)(nil)
)

// NewGateway creates a gateway for the FlightSuretyApp contract deployed at address
func NewGateway(client *rpc.Client, address common.Address, parsed abi.ABI, logger logger.Logger) *Gateway {
	return newGateway(client, ethclient.NewClient(client), address, parsed, logger)
}

func newGateway(client rpcCaller, filterer logFilterer, address common.Address, parsed abi.ABI, logger logger.Logger) *Gateway {
	return &Gateway{
		client:   client,
		filterer: filterer,
		abi:      parsed,
		bound:    bind.NewBoundContract(address, parsed, nil, nil, nil),
		address:  address,
		gas:      DefaultGas,
		gasPrice: DefaultGasPrice,
		logger:   logger,
	}
}

// Address returns the contract address
func (g *Gateway) Address() common.Address {
	return g.address
}

// txArgs is the transaction object of eth_call and eth_sendTransaction
type txArgs struct {
	From     common.Address  `json:"from"`
	To       common.Address  `json:"to"`
	Data     hexutil.Bytes   `json:"data"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
}

func (g *Gateway) newTxArgs(from common.Address, data []byte, value *big.Int) txArgs {
	gas := hexutil.Uint64(g.gas)
	args := txArgs{
		From:     from,
		To:       g.address,
		Data:     data,
		Gas:      &gas,
		GasPrice: (*hexutil.Big)(g.gasPrice),
	}
	if value != nil {
		args.Value = (*hexutil.Big)(value)
	}
	return args
}

// call runs a read-only contract method and unpacks its outputs
func (g *Gateway) call(ctx context.Context, from common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := g.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	var out hexutil.Bytes
	if err := g.client.CallContext(ctx, &out, "eth_call", g.newTxArgs(from, data, nil), "latest"); err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", method, errEmptyResult)
	}

	values, err := g.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w", method, errEmptyResult)
	}
	return values, nil
}

// send submits a transaction invoking method from an unlocked account
func (g *Gateway) send(ctx context.Context, from common.Address, value *big.Int, method string, args ...interface{}) (common.Hash, error) {
	data, err := g.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	var hash common.Hash
	if err := g.client.CallContext(ctx, &hash, "eth_sendTransaction", g.newTxArgs(from, data, value)); err != nil {
		return common.Hash{}, fmt.Errorf("%s transaction failed: %w", method, err)
	}

	g.logger.Debug("Transaction sent", "method", method, "from", from.Hex(), "txHash", hash.Hex())
	return hash, nil
}

func unpackBool(values []interface{}) bool {
	return *abi.ConvertType(values[0], new(bool)).(*bool)
}

func unpackUint8(values []interface{}) uint8 {
	return *abi.ConvertType(values[0], new(uint8)).(*uint8)
}

func unpackBig(values []interface{}) *big.Int {
	return abi.ConvertType(values[0], new(big.Int)).(*big.Int)
}

// Accounts lists the accounts managed by the node
func (g *Gateway) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := g.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// IsOperational reports the contract's operational flag
func (g *Gateway) IsOperational(ctx context.Context, from common.Address) (bool, error) {
	values, err := g.call(ctx, from, "isOperational")
	if err != nil {
		return false, err
	}
	return unpackBool(values), nil
}

// RegistrationFee returns the fee an oracle pays to register
func (g *Gateway) RegistrationFee(ctx context.Context, from common.Address) (*big.Int, error) {
	values, err := g.call(ctx, from, "REGISTRATION_FEE")
	if err != nil {
		return nil, err
	}
	return unpackBig(values), nil
}

// RegisterOracle registers from as an oracle
func (g *Gateway) RegisterOracle(ctx context.Context, from common.Address, fee *big.Int) (common.Hash, error) {
	return g.send(ctx, from, fee, "registerOracle")
}

// GetMyIndexes returns the three indices assigned to the calling oracle
func (g *Gateway) GetMyIndexes(ctx context.Context, from common.Address) ([3]uint8, error) {
	values, err := g.call(ctx, from, "getMyIndexes")
	if err != nil {
		return [3]uint8{}, err
	}
	return *abi.ConvertType(values[0], new([3]uint8)).(*[3]uint8), nil
}

// SubmitOracleResponse answers an oracle request with a status code
func (g *Gateway) SubmitOracleResponse(ctx context.Context, from common.Address, index uint8, key entity.FlightKey, status entity.StatusCode) (common.Hash, error) {
	return g.send(ctx, from, nil, "submitOracleResponse", index, key.Airline, key.Flight, key.Timestamp, uint8(status))
}

// RegisterAirline asks the contract to register a new airline
func (g *Gateway) RegisterAirline(ctx context.Context, from common.Address, airline common.Address, name string) (common.Hash, error) {
	return g.send(ctx, from, nil, "registerAirline", airline, name)
}

// VoteToRegisterAirline casts from's vote for airline
func (g *Gateway) VoteToRegisterAirline(ctx context.Context, from common.Address, airline common.Address) (common.Hash, error) {
	return g.send(ctx, from, nil, "voteToRegisterAirline", airline)
}

// PayFunding pays the airline participation fee
func (g *Gateway) PayFunding(ctx context.Context, from common.Address, amount *big.Int) (common.Hash, error) {
	return g.send(ctx, from, amount, "payFunding")
}

// GetAirlineIsRegistered reports whether airline is registered
func (g *Gateway) GetAirlineIsRegistered(ctx context.Context, from common.Address, airline common.Address) (bool, error) {
	values, err := g.call(ctx, from, "getAirlineIsRegistered", airline)
	if err != nil {
		return false, err
	}
	return unpackBool(values), nil
}

// GetAirlinesCount returns the number of registered airlines
func (g *Gateway) GetAirlinesCount(ctx context.Context, from common.Address) (*big.Int, error) {
	values, err := g.call(ctx, from, "getAirlinesCount")
	if err != nil {
		return nil, err
	}
	return unpackBig(values), nil
}

// RegisterFlight registers a flight for insurance
func (g *Gateway) RegisterFlight(ctx context.Context, from common.Address, key entity.FlightKey) (common.Hash, error) {
	return g.send(ctx, from, nil, "registerFlight", key.Airline, key.Flight, key.Timestamp)
}

// FetchFlightStatus makes the contract emit an OracleRequest for the flight
func (g *Gateway) FetchFlightStatus(ctx context.Context, from common.Address, key entity.FlightKey) (common.Hash, error) {
	return g.send(ctx, from, nil, "fetchFlightStatus", key.Airline, key.Flight, key.Timestamp)
}

// CheckFlightStatus returns the flight's current status code
func (g *Gateway) CheckFlightStatus(ctx context.Context, from common.Address, key entity.FlightKey) (uint8, error) {
	values, err := g.call(ctx, from, "checkFlightStatus", key.Airline, key.Flight, key.Timestamp)
	if err != nil {
		return 0, err
	}
	return unpackUint8(values), nil
}

// Buy purchases insurance for passenger
func (g *Gateway) Buy(ctx context.Context, from common.Address, key entity.FlightKey, passenger common.Address, amount *big.Int) (common.Hash, error) {
	return g.send(ctx, from, amount, "buy", key.Airline, key.Flight, key.Timestamp, passenger)
}

// ClaimInsurance returns the status code that decides whether a claim pays out
func (g *Gateway) ClaimInsurance(ctx context.Context, from common.Address, key entity.FlightKey) (uint8, error) {
	values, err := g.call(ctx, from, "claimInsurance", key.Airline, key.Flight, key.Timestamp)
	if err != nil {
		return 0, err
	}
	return unpackUint8(values), nil
}

// GetInsuranceCredits returns the passenger's credits in wei
func (g *Gateway) GetInsuranceCredits(ctx context.Context, from common.Address, key entity.FlightKey, passenger common.Address) (*big.Int, error) {
	values, err := g.call(ctx, from, "getInsuranceCredits", key.Airline, key.Flight, key.Timestamp, passenger)
	if err != nil {
		return nil, err
	}
	return unpackBig(values), nil
}

// WithdrawInsuranceCredits pays the passenger's credits out
func (g *Gateway) WithdrawInsuranceCredits(ctx context.Context, from common.Address, key entity.FlightKey, passenger common.Address) (common.Hash, error) {
	return g.send(ctx, from, nil, "withdrawInsuranceCredits", key.Airline, key.Flight, key.Timestamp, passenger)
}

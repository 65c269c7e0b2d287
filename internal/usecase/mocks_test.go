package usecase

import (
	"context"
	"math/big"
	"sync"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"
	"flightsurety-service/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

type mockContract struct {
	mock.Mock
}

var _ repository.FlightSuretyContract = (*mockContract)(nil)

func hashOrZero(args mock.Arguments) common.Hash {
	if h, ok := args.Get(0).(common.Hash); ok {
		return h
	}
	return common.Hash{}
}

func bigOrNil(args mock.Arguments) *big.Int {
	if b, ok := args.Get(0).(*big.Int); ok {
		return b
	}
	return nil
}

func (m *mockContract) Accounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]common.Address)
	return accounts, args.Error(1)
}

func (m *mockContract) IsOperational(ctx context.Context, from common.Address) (bool, error) {
	args := m.Called(ctx, from)
	return args.Bool(0), args.Error(1)
}

func (m *mockContract) RegistrationFee(ctx context.Context, from common.Address) (*big.Int, error) {
	args := m.Called(ctx, from)
	return bigOrNil(args), args.Error(1)
}

func (m *mockContract) RegisterOracle(ctx context.Context, from common.Address, fee *big.Int) (common.Hash, error) {
	args := m.Called(ctx, from, fee)
	return hashOrZero(args), args.Error(1)
}

func (m *mockContract) GetMyIndexes(ctx context.Context, from common.Address) ([3]uint8, error) {
	args := m.Called(ctx, from)
	indices, _ := args.Get(0).([3]uint8)
	return indices, args.Error(1)
}

func (m *mockContract) SubmitOracleResponse(ctx context.Context, from common.Address, index uint8, key entity.FlightKey, status entity.StatusCode) (common.Hash, error) {
	args := m.Called(ctx, from, index, key, status)
	return hashOrZero(args), args.Error(1)
}

func (m *mockContract) RegisterAirline(ctx context.Context, from common.Address, airline common.Address, name string) (common.Hash, error) {
	args := m.Called(ctx, from, airline, name)
	return hashOrZero(args), args.Error(1)
}

func (m *mockContract) VoteToRegisterAirline(ctx context.Context, from common.Address, airline common.Address) (common.Hash, error) {
	args := m.Called(ctx, from, airline)
	return hashOrZero(args), args.Error(1)
}

func (m *mockContract) PayFunding(ctx context.Context, from common.Address, amount *big.Int) (common.Hash, error) {
	args := m.Called(ctx, from, amount)
	return hashOrZero(args), args.Error(1)
}

func (m *mockContract) GetAirlineIsRegistered(ctx context.Context, from common.Address, airline common.Address) (bool, error) {
	args := m.Called(ctx, from, airline)
	return args.Bool(0), args.Error(1)
}

func (m *mockContract) GetAirlinesCount(ctx context.Context, from common.Address) (*big.Int, error) {
	args := m.Called(ctx, from)
	return bigOrNil(args), args.Error(1)
}

func (m *mockContract) RegisterFlight(ctx context.Context, from common.Address, key entity.FlightKey) (common.Hash, error) {
	args := m.Called(ctx, from, key)
	return hashOrZero(args), args.Error(1)
}

func (m *mockContract) FetchFlightStatus(ctx context.Context, from common.Address, key entity.FlightKey) (common.Hash, error) {
	args := m.Called(ctx, from, key)
	return hashOrZero(args), args.Error(1)
}

func (m *mockContract) CheckFlightStatus(ctx context.Context, from common.Address, key entity.FlightKey) (uint8, error) {
	args := m.Called(ctx, from, key)
	status, _ := args.Get(0).(uint8)
	return status, args.Error(1)
}

func (m *mockContract) Buy(ctx context.Context, from common.Address, key entity.FlightKey, passenger common.Address, amount *big.Int) (common.Hash, error) {
	args := m.Called(ctx, from, key, passenger, amount)
	return hashOrZero(args), args.Error(1)
}

func (m *mockContract) ClaimInsurance(ctx context.Context, from common.Address, key entity.FlightKey) (uint8, error) {
	args := m.Called(ctx, from, key)
	status, _ := args.Get(0).(uint8)
	return status, args.Error(1)
}

func (m *mockContract) GetInsuranceCredits(ctx context.Context, from common.Address, key entity.FlightKey, passenger common.Address) (*big.Int, error) {
	args := m.Called(ctx, from, key, passenger)
	return bigOrNil(args), args.Error(1)
}

func (m *mockContract) WithdrawInsuranceCredits(ctx context.Context, from common.Address, key entity.FlightKey, passenger common.Address) (common.Hash, error) {
	args := m.Called(ctx, from, key, passenger)
	return hashOrZero(args), args.Error(1)
}

// stubSubscription is a repository.Subscription controlled by the test
type stubSubscription struct {
	err          chan error
	unsubscribed chan struct{}
}

func newStubSubscription() *stubSubscription {
	return &stubSubscription{
		err:          make(chan error, 1),
		unsubscribed: make(chan struct{}),
	}
}

func (s *stubSubscription) Unsubscribe() {
	select {
	case <-s.unsubscribed:
	default:
		close(s.unsubscribed)
	}
}

func (s *stubSubscription) Err() <-chan error {
	return s.err
}

// stubEventSource hands the relay's channels back to the test
type stubEventSource struct {
	requests chan<- *entity.OracleRequest
	reports  chan<- *entity.OracleReport
	from     *big.Int
	reqSub   *stubSubscription
	repSub   *stubSubscription
	ready    chan struct{}
	failWith error
}

func newStubEventSource() *stubEventSource {
	return &stubEventSource{
		reqSub: newStubSubscription(),
		repSub: newStubSubscription(),
		ready:  make(chan struct{}),
	}
}

func (s *stubEventSource) SubscribeOracleRequests(ctx context.Context, fromBlock *big.Int, ch chan<- *entity.OracleRequest) (repository.Subscription, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.requests = ch
	s.from = fromBlock
	return s.reqSub, nil
}

func (s *stubEventSource) SubscribeOracleReports(ctx context.Context, fromBlock *big.Int, ch chan<- *entity.OracleReport) (repository.Subscription, error) {
	s.reports = ch
	close(s.ready)
	return s.repSub, nil
}

// recordingLogger keeps warning messages so tests can assert on them
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

var _ logger.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (l *recordingLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {}
func (l *recordingLogger) Fatal(msg string, keysAndValues ...interface{}) {}

func (l *recordingLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) With(keysAndValues ...interface{}) logger.Logger {
	return l
}

func (l *recordingLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

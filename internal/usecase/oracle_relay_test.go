package usecase

import (
	"context"
	"errors"
	"math/big"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"flightsurety-service/internal/domain/entity"
	repo "flightsurety-service/internal/interface/repository"
	"flightsurety-service/pkg/logger"
	"flightsurety-service/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAccounts(n int) []common.Address {
	accounts := make([]common.Address, n)
	for i := range accounts {
		accounts[i] = common.BytesToAddress([]byte{0xA0, byte(i + 1)})
	}
	return accounts
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

type relayFixture struct {
	relay     *OracleRelay
	contract  *mockContract
	events    *stubEventSource
	registry  *repo.MemoryOracleRegistry
	eventRepo *repo.MemoryOracleEventRepository
	metrics   *metrics.Metrics
}

func newRelayFixture(t *testing.T, oracleCount int) *relayFixture {
	t.Helper()
	f := &relayFixture{
		contract:  new(mockContract),
		events:    newStubEventSource(),
		registry:  repo.NewMemoryOracleRegistry().(*repo.MemoryOracleRegistry),
		eventRepo: repo.NewMemoryOracleEventRepository().(*repo.MemoryOracleEventRepository),
		metrics:   newTestMetrics(),
	}
	f.relay = NewOracleRelay(
		f.contract,
		f.events,
		f.registry,
		f.eventRepo,
		f.metrics,
		logger.NewNopLogger(),
		RelayConfig{OracleCount: oracleCount, FromBlock: big.NewInt(0), RPCTimeout: time.Second},
		rand.New(rand.NewPCG(3, 4)),
	)
	return f
}

func testRequest(index uint8) *entity.OracleRequest {
	return &entity.OracleRequest{
		Index:     index,
		Airline:   common.HexToAddress("0xf17f52151EbEF6C7334FAD080c5704D77216b732"),
		Flight:    "TE1234",
		Timestamp: big.NewInt(1700000000),
	}
}

func TestOracleRelay_RegisterOracles(t *testing.T) {
	f := newRelayFixture(t, 5)
	accounts := testAccounts(10)
	fee := big.NewInt(1e18)

	f.contract.On("Accounts", mock.Anything).Return(accounts, nil)
	f.contract.On("RegistrationFee", mock.Anything, accounts[1]).Return(fee, nil)
	for a := 1; a < 5; a++ {
		f.contract.On("RegisterOracle", mock.Anything, accounts[a], fee).Return(common.Hash{1}, nil).Once()
		f.contract.On("GetMyIndexes", mock.Anything, accounts[a]).Return([3]uint8{uint8(a), 2, 3}, nil).Once()
	}

	n, err := f.relay.RegisterOracles(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 4, f.registry.Len())
	require.Equal(t, float64(4), testutil.ToFloat64(f.metrics.RegisteredOracles))
	f.contract.AssertExpectations(t)
	f.contract.AssertNotCalled(t, "RegisterOracle", mock.Anything, accounts[0], mock.Anything)
	f.contract.AssertNotCalled(t, "RegisterOracle", mock.Anything, accounts[5], mock.Anything)
}

func TestOracleRelay_RegisterOracles_ClampsToAccounts(t *testing.T) {
	f := newRelayFixture(t, 30)
	accounts := testAccounts(4)
	fee := big.NewInt(1e18)

	f.contract.On("Accounts", mock.Anything).Return(accounts, nil)
	f.contract.On("RegistrationFee", mock.Anything, accounts[1]).Return(fee, nil)
	f.contract.On("RegisterOracle", mock.Anything, mock.Anything, fee).Return(common.Hash{1}, nil)
	f.contract.On("GetMyIndexes", mock.Anything, mock.Anything).Return([3]uint8{1, 2, 3}, nil)

	n, err := f.relay.RegisterOracles(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	f.contract.AssertNumberOfCalls(t, "RegisterOracle", 3)
}

func TestOracleRelay_RegisterOracles_ToleratesFailures(t *testing.T) {
	f := newRelayFixture(t, 4)
	accounts := testAccounts(4)
	fee := big.NewInt(1e18)

	f.contract.On("Accounts", mock.Anything).Return(accounts, nil)
	f.contract.On("RegistrationFee", mock.Anything, accounts[1]).Return(fee, nil)
	// Already registered: the transaction reverts but the indices are still readable
	f.contract.On("RegisterOracle", mock.Anything, accounts[1], fee).Return(nil, errors.New("revert"))
	f.contract.On("GetMyIndexes", mock.Anything, accounts[1]).Return([3]uint8{1, 2, 3}, nil)
	f.contract.On("RegisterOracle", mock.Anything, accounts[2], fee).Return(common.Hash{2}, nil)
	f.contract.On("GetMyIndexes", mock.Anything, accounts[2]).Return(nil, errors.New("not registered"))
	f.contract.On("RegisterOracle", mock.Anything, accounts[3], fee).Return(common.Hash{3}, nil)
	f.contract.On("GetMyIndexes", mock.Anything, accounts[3]).Return([3]uint8{4, 5, 6}, nil)

	n, err := f.relay.RegisterOracles(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	all := f.registry.All()
	require.Len(t, all, 2)
	require.Equal(t, accounts[1], all[0].Account)
	require.Equal(t, accounts[3], all[1].Account)
	require.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ErrorsCount.WithLabelValues("get_my_indexes")))
}

func TestOracleRelay_RegisterOracles_AccountsError(t *testing.T) {
	f := newRelayFixture(t, 5)
	f.contract.On("Accounts", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := f.relay.RegisterOracles(context.Background())
	require.ErrorContains(t, err, "connection refused")
}

func TestOracleRelay_HandleRequest(t *testing.T) {
	accounts := testAccounts(6)

	tests := []struct {
		name      string
		oracles   [][3]uint8
		index     uint8
		submitted []common.Address
	}{
		{
			name:      "exactly one match",
			oracles:   [][3]uint8{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, {1, 2, 3}, {9, 8, 7}},
			index:     5,
			submitted: []common.Address{accounts[2]},
		},
		{
			name:      "index repeated in one oracle",
			oracles:   [][3]uint8{{4, 4, 4}, {0, 1, 2}},
			index:     4,
			submitted: []common.Address{accounts[1]},
		},
		{
			name:      "several matches",
			oracles:   [][3]uint8{{4, 1, 2}, {0, 1, 2}, {3, 2, 4}},
			index:     4,
			submitted: []common.Address{accounts[1], accounts[3]},
		},
		{
			name:    "no match",
			oracles: [][3]uint8{{0, 1, 2}},
			index:   9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRelayFixture(t, 10)
			for i, indices := range tt.oracles {
				f.registry.Add(entity.OracleRegistration{Account: accounts[i+1], Indices: indices})
			}

			var mu sync.Mutex
			var got []common.Address
			req := testRequest(tt.index)
			f.contract.On("SubmitOracleResponse", mock.Anything, mock.Anything, tt.index, req.Key(), mock.Anything).
				Run(func(args mock.Arguments) {
					mu.Lock()
					got = append(got, args.Get(1).(common.Address))
					mu.Unlock()
					require.Contains(t, entity.StatusCodes, args.Get(4).(entity.StatusCode))
				}).
				Return(common.Hash{9}, nil)

			n := f.relay.HandleRequest(context.Background(), req)
			require.Equal(t, len(tt.submitted), n)
			require.ElementsMatch(t, tt.submitted, got)

			responses, err := f.eventRepo.ListResponses(context.Background(), 0, 10)
			require.NoError(t, err)
			require.Len(t, responses, len(tt.submitted))
			require.Equal(t, float64(1), testutil.ToFloat64(f.metrics.OracleRequests))
			require.Equal(t, float64(len(tt.submitted)), testutil.ToFloat64(f.metrics.OracleResponses))
		})
	}
}

func TestOracleRelay_HandleRequest_StatusAlwaysValid(t *testing.T) {
	f := newRelayFixture(t, 10)
	f.registry.Add(entity.OracleRegistration{Account: testAccounts(2)[1], Indices: [3]uint8{1, 2, 3}})

	f.contract.On("SubmitOracleResponse", mock.Anything, mock.Anything, uint8(2), mock.Anything, mock.Anything).
		Return(common.Hash{1}, nil)

	for i := 0; i < 200; i++ {
		f.relay.HandleRequest(context.Background(), testRequest(2))
	}

	responses, err := f.eventRepo.ListResponses(context.Background(), 0, 200)
	require.NoError(t, err)
	require.Len(t, responses, 200)

	seen := map[entity.StatusCode]bool{}
	for _, r := range responses {
		require.Contains(t, entity.StatusCodes, r.Status)
		seen[r.Status] = true
	}
	require.Len(t, seen, len(entity.StatusCodes))
}

func TestOracleRelay_HandleRequest_SubmitError(t *testing.T) {
	f := newRelayFixture(t, 10)
	accounts := testAccounts(3)
	f.registry.Add(entity.OracleRegistration{Account: accounts[1], Indices: [3]uint8{7, 0, 0}})
	f.registry.Add(entity.OracleRegistration{Account: accounts[2], Indices: [3]uint8{7, 0, 0}})

	f.contract.On("SubmitOracleResponse", mock.Anything, accounts[1], uint8(7), mock.Anything, mock.Anything).
		Return(nil, errors.New("Flight or timestamp do not match oracle request"))
	f.contract.On("SubmitOracleResponse", mock.Anything, accounts[2], uint8(7), mock.Anything, mock.Anything).
		Return(common.Hash{2}, nil)

	require.Equal(t, 2, f.relay.HandleRequest(context.Background(), testRequest(7)))

	responses, err := f.eventRepo.ListResponses(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, responses, 2)

	failed := 0
	for _, r := range responses {
		if r.Error != "" {
			failed++
			require.Equal(t, accounts[1], r.Oracle)
		}
	}
	require.Equal(t, 1, failed)
	require.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ErrorsCount.WithLabelValues("submit_oracle_response")))
}

func TestOracleRelay_StartListening(t *testing.T) {
	f := newRelayFixture(t, 10)
	accounts := testAccounts(2)
	f.registry.Add(entity.OracleRegistration{Account: accounts[1], Indices: [3]uint8{3, 4, 5}})

	submitted := make(chan struct{}, 1)
	f.contract.On("SubmitOracleResponse", mock.Anything, accounts[1], uint8(4), mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { submitted <- struct{}{} }).
		Return(common.Hash{1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.relay.StartListening(ctx) }()

	<-f.events.ready
	require.Equal(t, big.NewInt(0), f.events.from)

	f.events.requests <- testRequest(4)
	select {
	case <-submitted:
	case <-time.After(2 * time.Second):
		t.Fatal("oracle response not submitted")
	}

	f.events.reports <- &entity.OracleReport{Flight: "TE1234", Timestamp: big.NewInt(1), Status: entity.StatusLateAirline}
	require.Eventually(t, func() bool {
		reports, _ := f.eventRepo.ListReports(context.Background(), 0, 10)
		return len(reports) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A broken report stream does not stop the relay
	f.events.repSub.err <- errors.New("report stream closed")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
	<-f.events.reqSub.unsubscribed
	<-f.events.repSub.unsubscribed
}

func TestOracleRelay_StartListening_RequestSubscriptionError(t *testing.T) {
	f := newRelayFixture(t, 10)

	done := make(chan error, 1)
	go func() { done <- f.relay.StartListening(context.Background()) }()

	<-f.events.ready
	f.events.reqSub.err <- errors.New("websocket closed")

	select {
	case err := <-done:
		require.ErrorContains(t, err, "websocket closed")
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestOracleRelay_StartListening_SubscribeError(t *testing.T) {
	f := newRelayFixture(t, 10)
	f.events.failWith = errors.New("notifications not supported")

	err := f.relay.StartListening(context.Background())
	require.ErrorContains(t, err, "notifications not supported")
}

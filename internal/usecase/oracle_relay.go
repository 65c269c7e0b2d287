package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand/v2"
	"sync"
	"time"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"
	"flightsurety-service/pkg/logger"
	"flightsurety-service/pkg/metrics"
)

// RelayConfig tunes the oracle relay
type RelayConfig struct {
	OracleCount int
	FromBlock   *big.Int
	RPCTimeout  time.Duration
}

// OracleRelay registers simulated oracles and answers OracleRequest events for them
type OracleRelay struct {
	contract  repository.FlightSuretyContract
	events    repository.OracleEventSource
	registry  repository.OracleRegistry
	eventRepo repository.OracleEventRepository
	metrics   *metrics.Metrics
	logger    logger.Logger
	cfg       RelayConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewOracleRelay creates a new oracle relay
func NewOracleRelay(
	contract repository.FlightSuretyContract,
	events repository.OracleEventSource,
	registry repository.OracleRegistry,
	eventRepo repository.OracleEventRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
	cfg RelayConfig,
	rnd *rand.Rand,
) *OracleRelay {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &OracleRelay{
		contract:  contract,
		events:    events,
		registry:  registry,
		eventRepo: eventRepo,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		rnd:       rnd,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// RegisterOracles registers accounts 1 through OracleCount-1 as oracles and
// caches their indices. It returns the number of oracles cached by this call.
func (r *OracleRelay) RegisterOracles(ctx context.Context) (int, error) {
	callCtx, cancel := withTimeout(ctx, r.cfg.RPCTimeout)
	accounts, err := r.contract.Accounts(callCtx)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) < 2 {
		return 0, entity.ErrNotEnoughAccounts
	}

	callCtx, cancel = withTimeout(ctx, r.cfg.RPCTimeout)
	fee, err := r.contract.RegistrationFee(callCtx, accounts[1])
	cancel()
	if err != nil {
		return 0, fmt.Errorf("failed to read registration fee: %w", err)
	}

	last := min(r.cfg.OracleCount, len(accounts))
	if last < r.cfg.OracleCount {
		r.logger.Warn("Fewer accounts than oracles requested", "accounts", len(accounts), "oracleCount", r.cfg.OracleCount)
	}

	registered := 0
	for a := 1; a < last; a++ {
		if ctx.Err() != nil {
			return registered, ctx.Err()
		}
		account := accounts[a]

		callCtx, cancel := withTimeout(ctx, r.cfg.RPCTimeout)
		if _, err := r.contract.RegisterOracle(callCtx, account, fee); err != nil {
			r.logger.Warn("Oracle registration failed", "account", account.Hex(), "error", err)
			r.metrics.ErrorsCount.WithLabelValues("register_oracle").Inc()
		}
		indices, err := r.contract.GetMyIndexes(callCtx, account)
		cancel()
		if err != nil {
			r.logger.Error("Failed to read oracle indices", "account", account.Hex(), "error", err)
			r.metrics.ErrorsCount.WithLabelValues("get_my_indexes").Inc()
			continue
		}

		r.registry.Add(entity.OracleRegistration{
			Account:      account,
			Indices:      indices,
			RegisteredAt: time.Now(),
		})
		registered++
		r.logger.Info("Oracle Registered", "account", account.Hex(), "indices", indices)
	}

	r.metrics.RegisteredOracles.Set(float64(r.registry.Len()))
	return registered, nil
}

func (r *OracleRelay) randomStatus() entity.StatusCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return entity.StatusCodes[r.rnd.IntN(len(entity.StatusCodes))]
}

// HandleRequest submits one random status for every cached oracle holding the
// request's index and returns how many submissions were attempted.
func (r *OracleRelay) HandleRequest(ctx context.Context, req *entity.OracleRequest) int {
	start := time.Now()
	r.metrics.OracleRequests.Inc()

	r.logger.Info("OracleRequest received",
		"index", req.Index,
		"airline", req.Airline.Hex(),
		"flight", req.Flight,
		"timestamp", req.Timestamp)

	if err := r.eventRepo.SaveRequest(ctx, req); err != nil {
		r.logger.Error("Failed to save oracle request", "error", err)
	}

	matching := r.registry.Matching(req.Index)
	for _, oracle := range matching {
		status := r.randomStatus()
		response := &entity.OracleResponse{
			Index:     req.Index,
			Airline:   req.Airline,
			Flight:    req.Flight,
			Timestamp: req.Timestamp,
			Oracle:    oracle.Account,
			Status:    status,
		}

		callCtx, cancel := withTimeout(ctx, r.cfg.RPCTimeout)
		hash, err := r.contract.SubmitOracleResponse(callCtx, oracle.Account, req.Index, req.Key(), status)
		cancel()
		response.SubmittedAt = time.Now()

		if err != nil {
			response.Error = err.Error()
			r.metrics.ErrorsCount.WithLabelValues("submit_oracle_response").Inc()
			r.logger.Error("Error submitting oracle response",
				"oracle", oracle.Account.Hex(),
				"index", req.Index,
				"flight", req.Flight,
				"timestamp", req.Timestamp,
				"error", err)
		} else {
			response.TxHash = hash
			r.metrics.OracleResponses.Inc()
			r.logger.Debug("Oracle response submitted",
				"oracle", oracle.Account.Hex(),
				"status", status.Name(),
				"txHash", hash.Hex())
		}

		if err := r.eventRepo.SaveResponse(ctx, response); err != nil {
			r.logger.Error("Failed to save oracle response", "error", err)
		}
	}

	if len(matching) == 0 {
		r.logger.Debug("No cached oracle holds index", "index", req.Index)
	}

	r.metrics.DispatchTime.Observe(time.Since(start).Seconds())
	return len(matching)
}

// HandleReport records an OracleReport event
func (r *OracleRelay) HandleReport(ctx context.Context, report *entity.OracleReport) {
	r.metrics.OracleReports.Inc()
	r.logger.Info("OracleReport received",
		"airline", report.Airline.Hex(),
		"flight", report.Flight,
		"timestamp", report.Timestamp,
		"status", report.Status.Name())

	if err := r.eventRepo.SaveReport(ctx, report); err != nil {
		r.logger.Error("Failed to save oracle report", "error", err)
	}
}

// StartListening follows OracleRequest and OracleReport events until ctx is done.
// A failed request subscription ends the loop with an error; a failed report
// subscription is logged and the relay keeps answering requests.
func (r *OracleRelay) StartListening(ctx context.Context) error {
	requests := make(chan *entity.OracleRequest, 16)
	reports := make(chan *entity.OracleReport, 16)

	reqSub, err := r.events.SubscribeOracleRequests(ctx, r.cfg.FromBlock, requests)
	if err != nil {
		r.metrics.ErrorsCount.WithLabelValues("subscribe").Inc()
		return fmt.Errorf("failed to subscribe to oracle requests: %w", err)
	}
	defer reqSub.Unsubscribe()

	repSub, err := r.events.SubscribeOracleReports(ctx, r.cfg.FromBlock, reports)
	if err != nil {
		r.metrics.ErrorsCount.WithLabelValues("subscribe").Inc()
		return fmt.Errorf("failed to subscribe to oracle reports: %w", err)
	}
	defer repSub.Unsubscribe()

	r.logger.Info("Oracle relay listening", "oracles", r.registry.Len())

	repErr := repSub.Err()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Oracle relay stopped")
			return nil
		case req := <-requests:
			r.HandleRequest(ctx, req)
		case report := <-reports:
			r.HandleReport(ctx, report)
		case err := <-reqSub.Err():
			r.metrics.ErrorsCount.WithLabelValues("subscribe").Inc()
			if err == nil {
				err = errors.New("subscription closed")
			}
			return fmt.Errorf("oracle request subscription failed: %w", err)
		case err := <-repErr:
			r.metrics.ErrorsCount.WithLabelValues("subscribe").Inc()
			r.logger.Error("OracleReport subscription failed", "error", err)
			repErr = nil
		}
	}
}

package contract

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	eventOracleRequest = "OracleRequest"
	eventOracleReport  = "OracleReport"
)

type oracleRequestLog struct {
	Index     uint8
	Airline   common.Address
	Flight    string
	Timestamp *big.Int
}

type oracleReportLog struct {
	Airline   common.Address
	Flight    string
	Timestamp *big.Int
	Status    uint8
}

// DecodeOracleRequest decodes an OracleRequest log
func (g *Gateway) DecodeOracleRequest(l types.Log) (*entity.OracleRequest, error) {
	var raw oracleRequestLog
	if err := g.bound.UnpackLog(&raw, eventOracleRequest, l); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", eventOracleRequest, err)
	}

	return &entity.OracleRequest{
		Index:       raw.Index,
		Airline:     raw.Airline,
		Flight:      raw.Flight,
		Timestamp:   raw.Timestamp,
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash,
		ReceivedAt:  time.Now(),
	}, nil
}

// DecodeOracleReport decodes an OracleReport log
func (g *Gateway) DecodeOracleReport(l types.Log) (*entity.OracleReport, error) {
	var raw oracleReportLog
	if err := g.bound.UnpackLog(&raw, eventOracleReport, l); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", eventOracleReport, err)
	}

	return &entity.OracleReport{
		Airline:     raw.Airline,
		Flight:      raw.Flight,
		Timestamp:   raw.Timestamp,
		Status:      entity.StatusCode(raw.Status),
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash,
		ReceivedAt:  time.Now(),
	}, nil
}

// SubscribeOracleRequests streams OracleRequest events, replaying history from fromBlock
// when it is not nil.
func (g *Gateway) SubscribeOracleRequests(ctx context.Context, fromBlock *big.Int, ch chan<- *entity.OracleRequest) (repository.Subscription, error) {
	return subscribe(ctx, g, eventOracleRequest, fromBlock, ch, g.DecodeOracleRequest)
}

// SubscribeOracleReports streams OracleReport events, replaying history from fromBlock
// when it is not nil.
func (g *Gateway) SubscribeOracleReports(ctx context.Context, fromBlock *big.Int, ch chan<- *entity.OracleReport) (repository.Subscription, error) {
	return subscribe(ctx, g, eventOracleReport, fromBlock, ch, g.DecodeOracleReport)
}

// eventSubscription adapts a log subscription to repository.Subscription
type eventSubscription struct {
	quit chan struct{}
	err  chan error
	once sync.Once
}

// Unsubscribe stops delivery; it is safe to call more than once
func (s *eventSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.quit) })
}

// Err carries the error that ended the underlying log subscription
func (s *eventSubscription) Err() <-chan error {
	return s.err
}

type logKey struct {
	tx    common.Hash
	index uint
}

func subscribe[T any](ctx context.Context, g *Gateway, event string, fromBlock *big.Int, ch chan<- T, decode func(types.Log) (T, error)) (repository.Subscription, error) {
	ev, ok := g.abi.Events[event]
	if !ok {
		return nil, fmt.Errorf("event %s not in contract abi", event)
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{g.address},
		Topics:    [][]common.Hash{{ev.ID}},
	}

	// Subscribe before reading history so nothing falls in between
	logs := make(chan types.Log, 64)
	sub, err := g.filterer.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", event, err)
	}

	var history []types.Log
	if fromBlock != nil {
		historyQuery := query
		historyQuery.FromBlock = fromBlock
		history, err = g.filterer.FilterLogs(ctx, historyQuery)
		if err != nil {
			sub.Unsubscribe()
			return nil, fmt.Errorf("failed to read %s history: %w", event, err)
		}
	}

	s := &eventSubscription{
		quit: make(chan struct{}),
		err:  make(chan error, 1),
	}

	seen := make(map[logKey]struct{}, len(history))

	deliver := func(l types.Log) bool {
		if l.Removed {
			return true
		}
		value, err := decode(l)
		if err != nil {
			g.logger.Error("Skipping undecodable log", "event", event, "txHash", l.TxHash.Hex(), "error", err)
			return true
		}
		select {
		case ch <- value:
			return true
		case <-s.quit:
			return false
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer sub.Unsubscribe()

		for _, l := range history {
			seen[logKey{l.TxHash, l.Index}] = struct{}{}
			if !deliver(l) {
				return
			}
		}

		for {
			select {
			case l := <-logs:
				if _, dup := seen[logKey{l.TxHash, l.Index}]; dup {
					continue
				}
				if !deliver(l) {
					return
				}
			case err, ok := <-sub.Err():
				if ok && err != nil {
					s.err <- err
				}
				return
			case <-s.quit:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return s, nil
}

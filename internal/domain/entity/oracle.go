package entity

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// OracleRegistration is an account registered as an oracle with its assigned indices
type OracleRegistration struct {
	Account      common.Address `json:"account"`
	Indices      [3]uint8       `json:"indices"`
	RegisteredAt time.Time      `json:"registeredAt"`
}

// Matches reports whether any of the three indices equals index
func (o OracleRegistration) Matches(index uint8) bool {
	for _, i := range o.Indices {
		if i == index {
			return true
		}
	}
	return false
}

// OracleRequest is the contract's request for flight status
type OracleRequest struct {
	Index       uint8          `json:"index"`
	Airline     common.Address `json:"airline"`
	Flight      string         `json:"flight"`
	Timestamp   *big.Int       `json:"timestamp"`
	BlockNumber uint64         `json:"blockNumber"`
	TxHash      common.Hash    `json:"txHash"`
	ReceivedAt  time.Time      `json:"receivedAt"`
}

// Key returns the flight key the request refers to
func (r OracleRequest) Key() FlightKey {
	return FlightKey{
		Airline:   r.Airline,
		Flight:    r.Flight,
		Timestamp: r.Timestamp,
	}
}

// OracleResponse records one status submission made for a request
type OracleResponse struct {
	Index       uint8          `json:"index"`
	Airline     common.Address `json:"airline"`
	Flight      string         `json:"flight"`
	Timestamp   *big.Int       `json:"timestamp"`
	Oracle      common.Address `json:"oracle"`
	Status      StatusCode     `json:"status"`
	TxHash      common.Hash    `json:"txHash"`
	Error       string         `json:"error,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// OracleReport is emitted by the contract when an oracle response is accepted
type OracleReport struct {
	Airline     common.Address `json:"airline"`
	Flight      string         `json:"flight"`
	Timestamp   *big.Int       `json:"timestamp"`
	Status      StatusCode     `json:"status"`
	BlockNumber uint64         `json:"blockNumber"`
	TxHash      common.Hash    `json:"txHash"`
	ReceivedAt  time.Time      `json:"receivedAt"`
}

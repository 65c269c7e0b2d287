package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// FlightDraft is a demo flight generated client-side for a funded airline
type FlightDraft struct {
	Airline      string         `json:"airline"`
	FlightNumber int            `json:"flightNumber"`
	Code         string         `json:"code"`
	Departure    string         `json:"departure"`
	Destination  string         `json:"destination"`
	Address      common.Address `json:"address"`
	Date         string         `json:"date"`
}

// FlightKey identifies a flight on the contract
type FlightKey struct {
	Airline   common.Address
	Flight    string
	Timestamp *big.Int
}

// Key returns the contract key of the draft at the given session timestamp
func (f FlightDraft) Key(timestamp *big.Int) FlightKey {
	return FlightKey{
		Airline:   f.Address,
		Flight:    f.Code,
		Timestamp: timestamp,
	}
}

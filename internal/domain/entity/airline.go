package entity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Airline represents an airline known to the dapp
type Airline struct {
	Name       string         `json:"name"`
	Address    common.Address `json:"address"`
	Registered bool           `json:"registered"`
	Funded     bool           `json:"funded"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

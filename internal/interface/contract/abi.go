package contract

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed flightsurety_app.abi.json
var defaultABI []byte

// artifact is the subset of a truffle build artifact we read
type artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
}

// DefaultABI parses the FlightSuretyApp ABI bundled with the binary
func DefaultABI() (abi.ABI, error) {
	return abi.JSON(bytes.NewReader(defaultABI))
}

// LoadABI parses the ABI of a truffle build artifact such as
// build/contracts/FlightSuretyApp.json. An empty path selects the bundled ABI.
func LoadABI(path string) (abi.ABI, error) {
	if path == "" {
		return DefaultABI()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to read contract artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return abi.ABI{}, fmt.Errorf("failed to decode contract artifact: %w", err)
	}
	if len(a.ABI) == 0 {
		return abi.ABI{}, fmt.Errorf("contract artifact %s has no abi", path)
	}

	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse contract abi: %w", err)
	}
	return parsed, nil
}

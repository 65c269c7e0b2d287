package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/xeipuuv/gojsonschema"
)

// networkSchema describes config.json: one entry per network name
const networkSchema = `{
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {
		"type": "object",
		"required": ["url", "appAddress"],
		"properties": {
			"url": {"type": "string", "pattern": "^(http|https|ws|wss)://"},
			"dataAddress": {"type": "string", "pattern": "^0x[0-9a-fA-F]{40}$"},
			"appAddress": {"type": "string", "pattern": "^0x[0-9a-fA-F]{40}$"}
		}
	}
}`

// Network is one entry of the network config document
type Network struct {
	URL         string `json:"url"`
	DataAddress string `json:"dataAddress"`
	AppAddress  string `json:"appAddress"`
}

// AppContract returns the FlightSuretyApp address
func (n Network) AppContract() common.Address {
	return common.HexToAddress(n.AppAddress)
}

// WebSocketURL rewrites an http(s) endpoint to its ws(s) counterpart
func (n Network) WebSocketURL() string {
	return strings.Replace(n.URL, "http", "ws", 1)
}

// LoadNetwork reads the network config document at path and returns the named entry
func LoadNetwork(path, name string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network config: %w", err)
	}
	return ParseNetwork(data, name)
}

// ParseNetwork validates the network config document and returns the named entry
func ParseNetwork(data []byte, name string) (*Network, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(networkSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate network config: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return nil, fmt.Errorf("invalid network config: %s", strings.Join(errs, "; "))
	}

	var networks map[string]Network
	if err := json.Unmarshal(data, &networks); err != nil {
		return nil, fmt.Errorf("failed to decode network config: %w", err)
	}

	network, ok := networks[name]
	if !ok {
		return nil, fmt.Errorf("network %q not found in config", name)
	}
	return &network, nil
}

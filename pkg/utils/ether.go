package utils

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

var errNotWholeWei = errors.New("amount has more than 18 decimals")

// EtherToWei converts a decimal ether amount such as "0.5" into wei
func EtherToWei(amount string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(amount))
	if !ok {
		return nil, fmt.Errorf("invalid ether amount %q", amount)
	}

	r.Mul(r, new(big.Rat).SetInt(big.NewInt(params.Ether)))
	if !r.IsInt() {
		return nil, errNotWholeWei
	}

	return new(big.Int).Set(r.Num()), nil
}

// MustEtherToWei is EtherToWei for constants
func MustEtherToWei(amount string) *big.Int {
	wei, err := EtherToWei(amount)
	if err != nil {
		panic(err)
	}
	return wei
}

// WeiToEther formats a wei amount as a decimal ether string without trailing zeros
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	r := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether))
	s := r.FloatString(18)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEtherToWei(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1", want: "1000000000000000000"},
		{in: "0.5", want: "500000000000000000"},
		{in: "10", want: "10000000000000000000"},
		{in: " 0.000000000000000001 ", want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			wei, err := EtherToWei(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, wei.String())
		})
	}
}

func TestEtherToWei_Invalid(t *testing.T) {
	_, err := EtherToWei("abc")
	require.Error(t, err)

	_, err = EtherToWei("0.0000000000000000001")
	require.ErrorIs(t, err, errNotWholeWei)
}

func TestWeiToEther(t *testing.T) {
	require.Equal(t, "0", WeiToEther(nil))
	require.Equal(t, "0", WeiToEther(big.NewInt(0)))
	require.Equal(t, "1.5", WeiToEther(MustEtherToWei("1.5")))
	require.Equal(t, "10", WeiToEther(MustEtherToWei("10")))
	require.Equal(t, "0.00000000000000002", WeiToEther(big.NewInt(20)))
}

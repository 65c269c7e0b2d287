package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupStatus(t *testing.T) {
	tests := []struct {
		code  uint8
		label string
		name  string
		late  bool
	}{
		{code: 0, label: "UNKNOWN", name: "STATUS_CODE_UNKNOWN"},
		{code: 10, label: "FLIGHT: ON TIME", name: "STATUS_CODE_ON_TIME"},
		{code: 20, label: "FLIGHT LATE: AIRLINE", name: "STATUS_CODE_LATE_AIRLINE", late: true},
		{code: 30, label: "FLIGHT LATE: Due to WEATHER", name: "STATUS_CODE_LATE_WEATHER", late: true},
		{code: 40, label: "FLIGHT LATE: Due to TECHNICAL Issues", name: "STATUS_CODE_LATE_TECHNICAL", late: true},
		{code: 50, label: "FLIGHT LATE: OTHER Reason", name: "STATUS_CODE_LATE_OTHER", late: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := LookupStatus(tt.code)
			require.NoError(t, err)
			require.Equal(t, tt.label, status.Label)
			require.Equal(t, tt.name, status.Code.Name())
			require.Equal(t, tt.late, status.Code.IsLate())
		})
	}
}

func TestLookupStatus_UnknownCode(t *testing.T) {
	for _, code := range []uint8{1, 15, 60, 255} {
		_, err := LookupStatus(code)
		require.ErrorIs(t, err, ErrUnknownStatus)
	}
	require.Empty(t, StatusCode(7).Name())
}

func TestStatusCodes_AllTranslate(t *testing.T) {
	require.Len(t, StatusCodes, 6)
	for _, code := range StatusCodes {
		_, err := LookupStatus(uint8(code))
		require.NoError(t, err)
	}
}

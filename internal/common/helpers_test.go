package common

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTONToNano(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1", want: "1000000000"},
		{in: "0.5", want: "500000000"},
		{in: "0.000000001", want: "1"},
		{in: "  2.25 ", want: "2250000000"},
		{in: "0", want: "0"},
		{in: "15e-1", want: "1500000000"},
		{in: "1000000", want: "1000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := TONToNano(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTONToNano_Rejects(t *testing.T) {
	_, err := TONToNano("")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = TONToNano("-1")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = TONToNano("abc")
	assert.Error(t, err)

	_, err = TONToNano("1.0000000001")
	assert.ErrorContains(t, err, "fractional digits")

	_, err = TONToNano("1" + strings.Repeat("0", 40))
	assert.ErrorContains(t, err, "coin limit")

	_, err = TONToNano("1e-10")
	assert.ErrorContains(t, err, "fractional digits")
}

func TestTONToNano_HugeExponents(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr string
	}{
		{in: "1e2000000000", wantErr: "coin limit"},
		{in: "1e100000000", wantErr: "coin limit"},
		{in: "1e-2000000000", wantErr: "fractional digits"},
		{in: "0e-2000000000", want: "0"},
		{in: "0e2000000000", want: "0"},
		{in: "1e27", want: "1" + strings.Repeat("0", 36)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start := time.Now()
			got, err := TONToNano(tt.in)
			assert.Less(t, time.Since(start), time.Second)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNanoToTON(t *testing.T) {
	assert.Equal(t, "0.024981836", NanoToTON(big.NewInt(24981836)))
	assert.Equal(t, "1.000000000", NanoToTON(big.NewInt(1_000_000_000)))
	assert.Equal(t, "0.000000000", NanoToTON(big.NewInt(0)))
	assert.Equal(t, "0", NanoToTON(nil))
}

package utils

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBigInt(t *testing.T) {
	cases := []struct {
		amount   *big.Int
		decimals uint8
		want     string
	}{
		{nil, 18, "0"},
		{big.NewInt(0), 18, "0"},
		{big.NewInt(1_234_500_000_000_000_000), 18, "1.2345"},
		{big.NewInt(2_000_000_000_000_000_000), 15, "2000"},
		{big.NewInt(12345678), 6, "12.345678"},
		{big.NewInt(42), 0, "42"},
		{big.NewInt(1), 18, "0.000000000000000001"},
	}
	for _, tc := range cases {
		got, err := FormatBigInt(tc.amount, tc.decimals)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "amount=%v decimals=%d", tc.amount, tc.decimals)
	}
}

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "report.csv")
	require.NoError(t, EnsureParentDir(path))
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, EnsureParentDir("report.csv"))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PNL_TEST_VALUE", " set ")
	assert.Equal(t, "set", GetEnv("PNL_TEST_VALUE", "fallback"))
	t.Setenv("PNL_TEST_VALUE", "")
	assert.Equal(t, "fallback", GetEnv("PNL_TEST_VALUE", "fallback"))
}

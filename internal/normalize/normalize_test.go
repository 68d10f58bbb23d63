package normalize_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cryptotrend/internal/normalize"
	"cryptotrend/internal/source"
)

func TestNormalize_EmptyAndNilInputs(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.Empty(t, normalize.Normalize(nil, at))
	require.Empty(t, normalize.Normalize(source.PriceMap{}, at))
}

func TestNormalize_KeepsOnlyUSDRows(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := source.PriceMap{
		"bitcoin":  {"usd": 50000, "inr": 4150000},
		"ethereum": {"usd": 2000, "inr": 166000, "eur": 1850},
	}

	table := normalize.Normalize(raw, at)
	require.Len(t, table, 2)
	for _, row := range table {
		require.Equal(t, "usd", row.Currency)
		require.NotNil(t, row.PriceUSD)
		require.Equal(t, at, row.Timestamp)
	}
}

func TestNormalize_SingleCoinEndToEnd(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := source.PriceMap{"bitcoin": {"usd": 50000, "inr": 4150000}}

	table := normalize.Normalize(raw, at)
	require.Len(t, table, 1)
	row := table[0]
	require.Equal(t, "bitcoin", row.Coin)
	require.Equal(t, "usd", row.Currency)
	require.Equal(t, 50000.0, row.Price)
	require.NotNil(t, row.PriceUSD)
	require.Equal(t, 50000.0, *row.PriceUSD)
}

func TestUSDValue_INRConversionBeforeFilter(t *testing.T) {
	t.Parallel()

	// The inr path is converted before the usd-only filter drops it.
	v := normalize.USDValue("inr", 4150000)
	require.NotNil(t, v)
	require.InDelta(t, 4150000/83.0, *v, 1e-9)
}

func TestUSDValue_USDPassThrough(t *testing.T) {
	t.Parallel()

	v := normalize.USDValue("usd", 123.45)
	require.NotNil(t, v)
	require.Equal(t, 123.45, *v)
}

func TestUSDValue_UnknownCurrencyAndNonFinite(t *testing.T) {
	t.Parallel()

	require.Nil(t, normalize.USDValue("eur", 100))
	require.Nil(t, normalize.USDValue("usd", math.NaN()))
	require.Nil(t, normalize.USDValue("usd", math.Inf(1)))
}

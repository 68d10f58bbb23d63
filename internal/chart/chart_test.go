package chart_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cryptotrend/internal/chart"
	"cryptotrend/internal/normalize"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func usd(v float64) *float64 { return &v }

func TestRender_EmptyTableWritesNothing(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out", "chart.png")
	r := &chart.Renderer{Logger: quietLogger()}

	require.NoError(t, r.Render(nil, out))

	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err), "no file should be written for an empty table")
	_, err = os.Stat(filepath.Dir(out))
	require.True(t, os.IsNotExist(err), "no directory should be created for an empty table")
}

func TestRender_WritesChartAndCreatesParentDirs(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(5 * time.Second)
	table := normalize.Table{
		{Timestamp: t1, Coin: "bitcoin", Currency: "usd", Price: 30000, PriceUSD: usd(30000)},
		{Timestamp: t2, Coin: "bitcoin", Currency: "usd", Price: 31000, PriceUSD: usd(31000)},
		{Timestamp: t1, Coin: "ethereum", Currency: "usd", Price: 2000, PriceUSD: usd(2000)},
	}

	out := filepath.Join(t.TempDir(), "out", "chart.png")
	r := &chart.Renderer{Logger: quietLogger()}

	require.NoError(t, r.Render(table, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	// PNG signature
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(b), 8)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, b[:8])
}

func TestRender_SingleInstantTableStillProducesFile(t *testing.T) {
	t.Parallel()

	// One iteration stamps every row with the same instant; a flat price
	// makes the y-range zero-width too. Both must still render.
	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	table := normalize.Table{
		{Timestamp: t1, Coin: "bitcoin", Currency: "usd", Price: 50000, PriceUSD: usd(50000)},
	}

	out := filepath.Join(t.TempDir(), "out", "chart.png")
	r := &chart.Renderer{Logger: quietLogger()}

	require.NoError(t, r.Render(table, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, b[:8])
}

func TestRender_BadOutputPathReturnsError(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	table := normalize.Table{
		{Timestamp: t1, Coin: "bitcoin", Currency: "usd", Price: 30000, PriceUSD: usd(30000)},
		{Timestamp: t1.Add(time.Second), Coin: "bitcoin", Currency: "usd", Price: 31000, PriceUSD: usd(31000)},
	}

	// a file where a directory is expected
	base := t.TempDir()
	blocker := filepath.Join(base, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	r := &chart.Renderer{Logger: quietLogger()}
	err := r.Render(table, filepath.Join(blocker, "chart.png"))
	require.Error(t, err)
}

package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"cryptotrend/internal/normalize"
)

// Renderer draws a per-coin price-vs-time line chart to a PNG file.
type Renderer struct {
	Width  int
	Height int
	Logger *slog.Logger
}

// Render writes the chart for table to outputPath, creating missing parent
// directories. An empty table is a no-op. The file handle is closed via
// defer regardless of render success.
func (r *Renderer) Render(table normalize.Table, outputPath string) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(table) == 0 {
		logger.Info("nothing to visualize")
		return nil
	}

	width := r.Width
	if width <= 0 {
		width = 1200
	}
	height := r.Height
	if height <= 0 {
		height = 600
	}

	byCoin := make(map[string]normalize.Table)
	for _, row := range table {
		byCoin[row.Coin] = append(byCoin[row.Coin], row)
	}
	coins := make([]string, 0, len(byCoin))
	for coin := range byCoin {
		coins = append(coins, coin)
	}
	sort.Strings(coins)

	var (
		minTS, maxTS time.Time
		minY, maxY   float64
		points       int
	)
	series := make([]gochart.Series, 0, len(coins))
	for _, coin := range coins {
		rows := byCoin[coin]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Timestamp.Before(rows[j].Timestamp)
		})
		xs := make([]time.Time, 0, len(rows))
		ys := make([]float64, 0, len(rows))
		for _, row := range rows {
			if row.PriceUSD == nil {
				continue
			}
			if points == 0 || row.Timestamp.Before(minTS) {
				minTS = row.Timestamp
			}
			if points == 0 || row.Timestamp.After(maxTS) {
				maxTS = row.Timestamp
			}
			if points == 0 || *row.PriceUSD < minY {
				minY = *row.PriceUSD
			}
			if points == 0 || *row.PriceUSD > maxY {
				maxY = *row.PriceUSD
			}
			points++
			xs = append(xs, row.Timestamp)
			ys = append(ys, *row.PriceUSD)
		}
		if len(xs) == 0 {
			continue
		}
		series = append(series, gochart.TimeSeries{
			Name:    displayName(coin),
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeWidth: 2.0,
				DotWidth:    4.0,
			},
		})
	}

	if points == 0 {
		logger.Info("nothing to visualize")
		return nil
	}

	// A run that sampled a single instant (or a flat price line) has a
	// zero-width axis range go-chart refuses to render; pad the bounds so
	// a lone point still yields a chart.
	var xRange, yRange gochart.Range
	if minTS.Equal(maxTS) {
		xRange = &gochart.ContinuousRange{
			Min: gochart.TimeToFloat64(minTS.Add(-time.Second)),
			Max: gochart.TimeToFloat64(maxTS.Add(time.Second)),
		}
	}
	if minY == maxY {
		pad := maxY * 0.05
		if pad <= 0 {
			pad = 1
		}
		yRange = &gochart.ContinuousRange{Min: minY - pad, Max: maxY + pad}
	}

	gridStyle := gochart.Style{
		StrokeColor: gochart.ColorAlternateGray,
		StrokeWidth: 1.0,
	}
	graph := gochart.Chart{
		Title:  "Cryptocurrency Price Trend Over Time (USD)",
		Width:  width,
		Height: height,
		XAxis: gochart.XAxis{
			Name:           "Time",
			ValueFormatter: gochart.TimeValueFormatterWithFormat("15:04:05"),
			TickStyle:      gochart.Style{TextRotationDegrees: 45.0},
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
			Range:          xRange,
		},
		YAxis: gochart.YAxis{
			Name:           "Price (USD)",
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
			Range:          yRange,
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(gochart.PNG, f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	logger.Info("chart saved", "path", outputPath, "series", len(series))
	return nil
}

// displayName capitalizes a coin id for the legend.
func displayName(coin string) string {
	if coin == "" {
		return coin
	}
	return strings.ToUpper(coin[:1]) + coin[1:]
}

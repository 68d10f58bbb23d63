package source

import (
	"context"
)

// PriceMap is the raw shape returned by all sources:
// coin id -> currency code -> spot price.
// Ephemeral per fetch, never persisted.
type PriceMap map[string]map[string]float64

type Source interface {
	Name() string
	Fetch(ctx context.Context, coinIDs, vsCurrencies []string) (PriceMap, error)
}

package normalize

import (
	"math"
	"sort"
	"time"

	"cryptotrend/internal/source"
)

// usdPerINR is the fixed conversion rate applied to inr quotes.
const usdPerINR = 83.0

// Observation is one normalized price sample for a (coin, currency) pair.
// PriceUSD is nil when no USD value could be derived. Immutable once created.
type Observation struct {
	Timestamp time.Time `json:"timestamp"`
	Coin      string    `json:"coin"`
	Currency  string    `json:"currency"`
	Price     float64   `json:"price"`
	PriceUSD  *float64  `json:"price_usd,omitempty"`
}

// Table is an ordered sequence of observations, append-only within a run.
type Table []Observation

// USDValue derives the USD-denominated value for a quote:
// usd passes through, inr is divided by the fixed rate, anything else
// (and any non-finite price) has no USD value.
func USDValue(currency string, price float64) *float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return nil
	}
	switch currency {
	case "usd":
		return &price
	case "inr":
		v := price / usdPerINR
		return &v
	default:
		return nil
	}
}

// Normalize flattens raw into observations, stamping every row with at.
// Only rows quoted in usd with a derived USD value survive the final
// filter; inr rows are converted and then discarded with the rest.
func Normalize(raw source.PriceMap, at time.Time) Table {
	if len(raw) == 0 {
		return nil
	}

	coins := make([]string, 0, len(raw))
	for coin := range raw {
		coins = append(coins, coin)
	}
	sort.Strings(coins)

	out := make(Table, 0, len(raw))
	for _, coin := range coins {
		currencies := make([]string, 0, len(raw[coin]))
		for currency := range raw[coin] {
			currencies = append(currencies, currency)
		}
		sort.Strings(currencies)

		for _, currency := range currencies {
			price := raw[coin][currency]
			usd := USDValue(currency, price)
			if currency != "usd" || usd == nil {
				continue
			}
			out = append(out, Observation{
				Timestamp: at,
				Coin:      coin,
				Currency:  currency,
				Price:     price,
				PriceUSD:  usd,
			})
		}
	}
	return out
}

package fallback

import (
	"context"
	"log/slog"

	"cryptotrend/internal/source"
)

// Source wraps a primary source with a secondary one. When the primary
// errors or comes back empty, the secondary answers instead. With a
// synthetic secondary the wrapper never fails and never returns an
// empty map.
type Source struct {
	Primary   source.Source
	Secondary source.Source
	Logger    *slog.Logger
}

func (s *Source) Name() string { return s.Primary.Name() }

func (s *Source) Fetch(ctx context.Context, coinIDs, vsCurrencies []string) (source.PriceMap, error) {
	raw, err := s.Primary.Fetch(ctx, coinIDs, vsCurrencies)
	if err == nil && len(raw) > 0 {
		return raw, nil
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("primary source unavailable, using fallback",
		"primary", s.Primary.Name(), "fallback", s.Secondary.Name(), "err", err)
	return s.Secondary.Fetch(ctx, coinIDs, vsCurrencies)
}

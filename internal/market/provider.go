package market

import (
	"context"
	"strings"
	"time"

	"github.com/yanun0323/logs"

	"main/pkg/cache"
)

// Provider tries its configured sources in order and falls back to a
// synthetic series when none can serve the symbol. Results are cached for
// a short TTL so page reloads do not refetch history.
type Provider struct {
	sources  []Source
	fallback Synthetic
	cache    *cache.MapCache[string, Series]
	days     int
}

func NewProvider(days int, ttl time.Duration, sources ...Source) *Provider {
	if days <= 0 {
		days = 60
	}
	return &Provider{
		sources: sources,
		cache:   cache.NewMapCache[string, Series](ttl),
		days:    days,
	}
}

// History returns a recent close series for symbol. The returned series is
// labeled with its source; callers must check for SourceSynthetic when
// presenting the data.
func (p *Provider) History(ctx context.Context, symbol string) (Series, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if series, ok := p.cache.Get(symbol); ok {
		return series, nil
	}

	for _, source := range p.sources {
		series, err := source.History(ctx, symbol, p.days)
		if err != nil {
			logs.Warnf("market source %s failed for %s, err: %+v", source.Name(), symbol, err)
			continue
		}
		p.cache.Set(symbol, series)
		return series, nil
	}

	series, err := p.fallback.History(ctx, symbol, p.days)
	if err != nil {
		return Series{}, err
	}
	p.cache.Set(symbol, series)
	return series, nil
}

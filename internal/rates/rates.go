// Package rates supplies native->CZK exchange rates for material prices.
package rates

import (
	"context"
	"fmt"
	"sync"

	"github.com/piwi3910/SlabQuote/internal/model"
	"go.uber.org/zap"
)

// Provider looks up how many units of `to` one unit of `from` buys.
type Provider interface {
	FetchRate(ctx context.Context, from, to model.Currency) (float64, error)
}

// Static serves fixed rates, by default the built-in manual ones.
type Static struct {
	Rates map[model.Currency]float64 // native -> CZK
}

// NewStatic returns a Static provider seeded with the default manual rates.
func NewStatic() *Static {
	return &Static{Rates: map[model.Currency]float64{
		model.CurrencyCZK: model.DefaultExchangeRate(model.CurrencyCZK),
		model.CurrencyEUR: model.DefaultExchangeRate(model.CurrencyEUR),
		model.CurrencyUSD: model.DefaultExchangeRate(model.CurrencyUSD),
	}}
}

func (s *Static) FetchRate(_ context.Context, from, to model.Currency) (float64, error) {
	if from == to {
		return 1, nil
	}
	if to != model.SettlementCurrency {
		return 0, fmt.Errorf("static rates only convert to %s, not %s", model.SettlementCurrency, to)
	}
	r, ok := s.Rates[from]
	if !ok || r <= 0 {
		return 0, fmt.Errorf("no static rate for %s", from)
	}
	return r, nil
}

type pair struct {
	from, to model.Currency
}

// Cached remembers the last good rate per currency pair and serves it when
// the wrapped provider fails.
type Cached struct {
	next Provider
	log  *zap.Logger

	mu   sync.RWMutex
	last map[pair]float64
}

func NewCached(next Provider, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{next: next, log: log, last: make(map[pair]float64)}
}

func (c *Cached) FetchRate(ctx context.Context, from, to model.Currency) (float64, error) {
	key := pair{from, to}
	rate, err := c.next.FetchRate(ctx, from, to)
	if err == nil {
		c.mu.Lock()
		c.last[key] = rate
		c.mu.Unlock()
		return rate, nil
	}

	c.mu.RLock()
	prev, ok := c.last[key]
	c.mu.RUnlock()
	if !ok {
		return 0, err
	}
	c.log.Warn("rate lookup failed, using last known rate",
		zap.String("from", string(from)), zap.String("to", string(to)),
		zap.Float64("rate", prev), zap.Error(err))
	return prev, nil
}

// Last returns the last good rate seen for a pair.
func (c *Cached) Last(from, to model.Currency) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.last[pair{from, to}]
	return r, ok
}

// Notice describes why a refresh did not update the rate. Empty on success.
type Notice string

// Refresh fetches the current rate for the spec's material currency and
// stores it in the returned copy. On failure the spec keeps its manually
// entered rate and a Notice explains what happened. CZK needs no lookup.
func Refresh(ctx context.Context, p Provider, spec model.QuoteSpec) (model.QuoteSpec, Notice) {
	if spec.MaterialCurrency == model.CurrencyCZK || spec.MaterialCurrency == "" {
		spec.MaterialExchangeRate = 1
		return spec, ""
	}
	rate, err := p.FetchRate(ctx, spec.MaterialCurrency, model.SettlementCurrency)
	if err != nil {
		return spec, Notice(fmt.Sprintf("could not fetch the current %s rate, keeping %g: %v",
			spec.MaterialCurrency, spec.MaterialExchangeRate, err))
	}
	if rate <= 0 {
		return spec, Notice(fmt.Sprintf("provider returned an invalid %s rate %g, keeping %g",
			spec.MaterialCurrency, rate, spec.MaterialExchangeRate))
	}
	spec.MaterialExchangeRate = rate
	return spec, ""
}

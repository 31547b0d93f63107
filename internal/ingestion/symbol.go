package ingestion

import "strings"

// Resolver maps canonical tickers to the provider's query symbols.
//
// A ticker found in the override table resolves to the override verbatim;
// any other ticker is lower-cased and suffixed with the market suffix
// (e.g. "AGI" → "agi.us").
type Resolver struct {
	suffix    string
	overrides map[string]string
}

// NewResolver builds a Resolver. The overrides map is copied, so later
// changes by the caller do not affect resolution.
func NewResolver(suffix string, overrides map[string]string) *Resolver {
	cp := make(map[string]string, len(overrides))
	for k, v := range overrides {
		cp[k] = v
	}
	return &Resolver{suffix: suffix, overrides: cp}
}

// Resolve returns the provider symbol for ticker.
func (r *Resolver) Resolve(ticker string) string {
	if sym, ok := r.overrides[ticker]; ok {
		return sym
	}
	return strings.ToLower(ticker) + r.suffix
}

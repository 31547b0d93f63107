package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// AsOfLayout is the ISO-8601 layout used for Snapshot.AsOf (UTC, millisecond precision).
const AsOfLayout = "2006-01-02T15:04:05.000Z"

// FormatAsOf renders t in UTC using AsOfLayout.
func FormatAsOf(t time.Time) string {
	return t.UTC().Format(AsOfLayout)
}

// Quote is the resolved price for one ticker within a Snapshot.
// Price is always finite and strictly positive.
type Quote struct {
	Price float64 `json:"price" example:"12.34"`
}

// QuoteSet is an ordered ticker → Quote mapping.
//
// Keys are unique and iteration follows insertion order, which is the
// configured ticker order. It serialises as a JSON object in that order.
type QuoteSet struct {
	keys   []string
	values map[string]Quote
}

// Set inserts or replaces the quote for ticker. Replacing keeps the original position.
func (s *QuoteSet) Set(ticker string, q Quote) {
	if s.values == nil {
		s.values = make(map[string]Quote)
	}
	if _, ok := s.values[ticker]; !ok {
		s.keys = append(s.keys, ticker)
	}
	s.values[ticker] = q
}

// Get returns the quote for ticker and whether it is present.
func (s QuoteSet) Get(ticker string) (Quote, bool) {
	q, ok := s.values[ticker]
	return q, ok
}

// Len returns the number of quotes.
func (s QuoteSet) Len() int { return len(s.keys) }

// Tickers returns a copy of the keys in insertion order.
func (s QuoteSet) Tickers() []string {
	return append([]string(nil), s.keys...)
}

// MarshalJSON writes the set as a JSON object keeping insertion order.
func (s QuoteSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the document's key order.
func (s *QuoteSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = QuoteSet{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("quotes: expected object, got %v", tok)
	}
	out := QuoteSet{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("quotes: expected string key, got %v", kt)
		}
		var q Quote
		if err := dec.Decode(&q); err != nil {
			return fmt.Errorf("quotes[%s]: %w", key, err)
		}
		out.Set(key, q)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Snapshot is the single artifact produced per run.
//
// swagger:model Snapshot
type Snapshot struct {
	AsOf   string   `json:"asOf" example:"2025-09-12T21:00:00.000Z"`
	Source string   `json:"source" example:"stooq"`
	Quotes QuoteSet `json:"quotes" swaggertype:"object"`
}

// TickerResult is the outcome of processing one ticker.
// Err is nil on success; otherwise it carries the reason the ticker was omitted.
type TickerResult struct {
	Ticker string
	Symbol string
	Price  float64
	Err    error
}

// OK reports whether the ticker resolved to a usable price.
func (r TickerResult) OK() bool { return r.Err == nil }

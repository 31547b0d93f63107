package dto

// QuoteResponse represents the JSON structure returned by the
// GET /api/v1/quotes/{ticker} endpoint.
//
// It flattens one entry of the snapshot together with the snapshot's
// provenance so clients do not need to fetch the whole document.
type QuoteResponse struct {
	Ticker string  `json:"ticker" example:"AGI"`                     // Ticker requested
	Price  float64 `json:"price" example:"12.34"`                    // Latest usable close
	AsOf   string  `json:"asOf" example:"2025-09-12T21:00:00.000Z"` // Snapshot generation time
	Source string  `json:"source" example:"stooq"`                   // Provider label
}

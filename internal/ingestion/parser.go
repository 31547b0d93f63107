package ingestion

import (
	"math"
	"strconv"
	"strings"
)

// closeColumn is the index of Close in the provider's
// "Date,Open,High,Low,Close,Volume" layout.
const closeColumn = 4

// ExtractLatestClose returns the most recent usable closing price in a
// provider CSV document.
//
// The first line is the header. Rows are ordered oldest to newest, so the
// scan walks backwards and returns the first Close that parses to a finite,
// strictly positive number. Each line is split on "," with no quoting rules:
// a quote character is just part of a field, so a quoted Close is unusable
// and a stray quote never affects neighbouring rows. Rows with fewer than
// five fields or an unusable Close are skipped rather than aborting the scan.
//
// It never fails: ok is false when the document has no data rows or no row
// qualifies.
func ExtractLatestClose(raw string) (price float64, ok bool) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return 0, false
	}

	for i := len(lines) - 1; i >= 1; i-- {
		fields := strings.Split(strings.TrimSuffix(lines[i], "\r"), ",")
		if len(fields) <= closeColumn {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[closeColumn]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			continue
		}
		return v, true
	}
	return 0, false
}

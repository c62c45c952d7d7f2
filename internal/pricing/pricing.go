package pricing

import (
	"sort"

	"fitcheck/internal/listing"
)

// Verdict is the three-way fairness classification.
type Verdict string

const (
	VerdictSteal      Verdict = "STEAL"
	VerdictFair       Verdict = "FAIR"
	VerdictOverpriced Verdict = "OVERPRICED"
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PriceVerdict summarizes the priced market sample for one request.
// Range duplicates lowest/highest as a structured field for display.
type PriceVerdict struct {
	Verdict      Verdict `json:"verdict,omitempty"`
	MedianPrice  float64 `json:"medianPrice"`
	LowestPrice  float64 `json:"lowestPrice"`
	HighestPrice float64 `json:"highestPrice"`
	Range        Range   `json:"range"`
}

// CalculateVerdict classifies userPrice against the priced listings.
//
// Listings without a price are dropped before any computation; with no
// priced sample left there is no verdict and the result is nil. The
// percentile bounds are nearest-rank: the values at floor(n*0.25) and
// floor(n*0.75) in the ascending sample, no interpolation. Check order is
// the tie-break rule: a price equal to p25 is a STEAL even when p25==p75.
//
// Pure function of its inputs; no I/O, no clock, no randomness.
func CalculateVerdict(userPrice float64, listings []listing.Listing) *PriceVerdict {
	prices := make([]float64, 0, len(listings))
	for _, l := range listings {
		if l.Price != nil {
			prices = append(prices, *l.Price)
		}
	}
	if len(prices) == 0 {
		return nil
	}
	sort.Float64s(prices)

	n := len(prices)
	lowest := prices[0]
	highest := prices[n-1]

	mid := n / 2
	var median float64
	if n%2 != 0 {
		median = prices[mid]
	} else {
		median = (prices[mid-1] + prices[mid]) / 2
	}

	p25 := prices[int(float64(n)*0.25)]
	p75 := prices[int(float64(n)*0.75)]

	verdict := VerdictFair
	if userPrice <= p25 {
		verdict = VerdictSteal
	} else if userPrice >= p75 {
		verdict = VerdictOverpriced
	}

	return &PriceVerdict{
		Verdict:      verdict,
		MedianPrice:  median,
		LowestPrice:  lowest,
		HighestPrice: highest,
		Range:        Range{Min: lowest, Max: highest},
	}
}

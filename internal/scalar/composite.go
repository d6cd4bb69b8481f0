package scalar

import (
	"regexp"
	"strings"
)

// =============================================================================
// COMPOSITE WEIGHT / PIECE EXTRACTION
// =============================================================================
//
// The stock sheet keeps weight and piece count in one free-text column, and
// authors use it inconsistently: "3.2ct/2pcs", "10pcs", "1.05", "200.-/pc".
// WeightAndPieces splits such a cell with a fixed precedence:
//
//   1. number before "ct"                      -> weight
//   2. number before "pc", "pcs", "piece(s)"   -> pieces
//   3. number after "/" (pieces still unknown) -> pieces
//   4. neither found: the whole text is a bare number, counted as pieces
//      when "pc" occurs anywhere, otherwise as weight
//
// =============================================================================

var (
	caratPattern = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*ct`)
	piecePattern = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(?:pcs?|pieces?)`)
	slashPattern = regexp.MustCompile(`/\s*(-?\d+(?:\.\d+)?)`)
)

// WeightAndPieces extracts a carat weight and a piece count from raw text.
// Either result may be nil. Matching is case-insensitive.
func WeightAndPieces(raw *string) (weight, pieces *float64) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	lower := strings.ToLower(*raw)

	if m := caratPattern.FindStringSubmatch(lower); m != nil {
		weight = ParseNumber(m[1])
	}
	if m := piecePattern.FindStringSubmatch(lower); m != nil {
		pieces = ParseNumber(m[1])
	}
	if pieces == nil {
		if m := slashPattern.FindStringSubmatch(lower); m != nil {
			pieces = ParseNumber(m[1])
		}
	}

	if weight == nil && pieces == nil {
		if strings.Contains(lower, "pc") {
			pieces = ParseNumber(lower)
		} else {
			weight = ParseNumber(lower)
		}
	}
	return weight, pieces
}

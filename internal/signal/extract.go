// Package signal turns raw OCR text into trade-ready stop-loss candidates.
// OCR output is noisy; extraction and validation here are a fail-safe
// filter in front of order placement, not a correctness guarantee.
package signal

import "regexp"

// Field patterns for the terminal overlay this bot reads. The stop-loss
// label "SL" is frequently misread by OCR as "5L", so both spellings are
// accepted. Only the integer part in front of the literal decimal point is
// captured; the fraction is OCR garbage more often than not.
var (
	slPattern    = regexp.MustCompile(`(?:SL|5L)\s*:?\s*(\d+)\.`)
	entryPattern = regexp.MustCompile(`Entry\s*:?\s*(\d+)\.`)
)

// ExtractStopLoss pulls the stop-loss candidate out of an OCR text blob.
// Returns ok=false when the field prefix is absent.
func ExtractStopLoss(text string) (string, bool) {
	return firstGroup(slPattern, text)
}

// ExtractEntry pulls the entry-price candidate out of an OCR text blob.
func ExtractEntry(text string) (string, bool) {
	return firstGroup(entryPattern, text)
}

func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

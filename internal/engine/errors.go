package engine

import "fmt"

// FailKind classifies a failed submission attempt. The retry wrapper
// pattern-matches on it, so the producer and consumer of a failure share
// one closed set instead of duplicated magic return codes.
type FailKind int

const (
	// KindSymbolBlocked: the instrument is not on the allow-list.
	// Rejected before any gateway call.
	KindSymbolBlocked FailKind = iota
	// KindSymbolNotFound: the terminal does not know the instrument.
	KindSymbolNotFound
	// KindSymbolSelect: the instrument exists but could not be made
	// tradable.
	KindSymbolSelect
	// KindQuoteUnavailable: no tick at lookup or submission time.
	KindQuoteUnavailable
	// KindNoResult: the gateway returned nothing for the order.
	KindNoResult
	// KindRejected: the gateway returned a result with a non-done
	// retcode. The only retryable kind.
	KindRejected
)

func (k FailKind) String() string {
	switch k {
	case KindSymbolBlocked:
		return "symbol_blocked"
	case KindSymbolNotFound:
		return "symbol_not_found"
	case KindSymbolSelect:
		return "symbol_select_failed"
	case KindQuoteUnavailable:
		return "quote_unavailable"
	case KindNoResult:
		return "no_result"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// SubmitError is the structured failure of a single submission attempt.
type SubmitError struct {
	Kind    FailKind
	Retcode int    // gateway retcode when Kind is KindRejected
	Detail  string // terminal diagnostic, when one exists
}

func (e *SubmitError) Error() string {
	if e.Kind == KindRejected {
		return fmt.Sprintf("order %s: retcode=%d %s", e.Kind, e.Retcode, e.Detail)
	}
	if e.Detail == "" {
		return fmt.Sprintf("order %s", e.Kind)
	}
	return fmt.Sprintf("order %s: %s", e.Kind, e.Detail)
}

// Fatal reports whether retrying this attempt cannot help: environment
// problems (bad symbol, no quote, silent gateway) and configuration
// rejections are terminal, an order-level rejection may succeed on
// resubmission.
func (e *SubmitError) Fatal() bool {
	return e.Kind != KindRejected
}

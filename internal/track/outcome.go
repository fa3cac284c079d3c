package track

// Outcome classifies the most recent Tracker update.
type Outcome int

const (
	OutcomeNone    Outcome = iota // no update yet
	OutcomeSuccess                // score improved on the best by at least minDelta
	OutcomeNeutral                // non-improving, but within tolerance (or patience unlimited)
	OutcomeFail                   // non-improving streak exceeded patience
)

// String returns a human-readable label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeSuccess:
		return "success"
	case OutcomeNeutral:
		return "neutral"
	case OutcomeFail:
		return "fail"
	default:
		return "unknown"
	}
}

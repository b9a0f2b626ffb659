package shared

// Outcome is the result class of a facade operation. Presentation layers map
// it onto their own status codes.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeValidationFailed
	OutcomeConflict
	OutcomeNotFound
	// OutcomeFailure is a store-level failure. It is fatal to the current
	// request only and never retried.
	OutcomeFailure
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeConflict:
		return "conflict"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "failure"
	}
}

// Classify maps an error returned by the facade onto an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case IsValidation(err):
		return OutcomeValidationFailed
	case IsConflict(err):
		return OutcomeConflict
	case IsNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeFailure
	}
}

package taskoffer

import (
	"fmt"

	"fooddispatch/internal/pkg/errs"
)

// Outcome is the resolution state of a task offer.
type Outcome int

const (
	// OutcomeUnknown represents an invalid or undefined outcome.
	OutcomeUnknown Outcome = iota

	// OutcomePending means the offer is live and awaiting the current
	// candidate's response.
	OutcomePending

	// OutcomeAccepted means a driver won the offer. Terminal.
	OutcomeAccepted

	// OutcomeExpired means the candidate list was exhausted or the offer was
	// cancelled with its order. Terminal.
	OutcomeExpired
)

// getOutcomeStrings returns the string representation of every outcome.
func getOutcomeStrings() map[Outcome]string {
	return map[Outcome]string{
		OutcomeUnknown:  "unknown",
		OutcomePending:  "pending",
		OutcomeAccepted: "accepted",
		OutcomeExpired:  "expired",
	}
}

// OutcomeFromString parses an outcome name as stored in persistence.
func OutcomeFromString(s string) (Outcome, error) {
	for outcome, name := range getOutcomeStrings() {
		if outcome != OutcomeUnknown && name == s {
			return outcome, nil
		}
	}
	return OutcomeUnknown, errs.NewValueIsInvalidErrorWithCause("outcome",
		fmt.Errorf("%q is not a valid outcome", s))
}

// Validate checks that the outcome is one of the defined values.
func (o Outcome) Validate() error {
	if o != OutcomePending && o != OutcomeAccepted && o != OutcomeExpired {
		return errs.NewValueIsInvalidErrorWithCause("outcome",
			fmt.Errorf("%d is not a valid outcome", o))
	}
	return nil
}

// String returns the human-readable outcome name.
func (o Outcome) String() string {
	if s, ok := getOutcomeStrings()[o]; ok {
		return s
	}
	return "unknown"
}

// IsResolved reports whether the offer reached a terminal outcome.
func (o Outcome) IsResolved() bool {
	return o == OutcomeAccepted || o == OutcomeExpired
}

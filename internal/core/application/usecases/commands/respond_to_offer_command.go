package commands

import (
	"errors"
	"fmt"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

var ErrRespondToOfferCommandIsNotConstructed = errors.New(
	"RespondToOfferCommand must be created via NewRespondToOfferCommand constructor",
)

// Decision is a driver's response to a task offer.
type Decision int

const (
	// DecisionUnknown represents an invalid or undefined decision.
	DecisionUnknown Decision = iota

	// DecisionAccept takes the delivery task.
	DecisionAccept

	// DecisionDecline passes the task to the next candidate.
	DecisionDecline
)

// DecisionFromString parses a decision as supplied on the respond API.
func DecisionFromString(s string) (Decision, error) {
	switch s {
	case "accept":
		return DecisionAccept, nil
	case "decline":
		return DecisionDecline, nil
	default:
		return DecisionUnknown, errs.NewValueIsInvalidErrorWithCause("decision",
			fmt.Errorf("%q is not a valid decision", s))
	}
}

// Validate checks that the decision is one of the defined values.
func (d Decision) Validate() error {
	if d != DecisionAccept && d != DecisionDecline {
		return errs.NewValueIsInvalidErrorWithCause("decision",
			fmt.Errorf("%d is not a valid decision", d))
	}
	return nil
}

// String returns the wire name of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionDecline:
		return "decline"
	default:
		return "unknown"
	}
}

// RespondToOfferCommand records a driver's response to a task offer.
type RespondToOfferCommand struct {
	offerID  kernel.UUID
	driverID kernel.UUID
	decision Decision

	guard guard.ConstructorGuard
}

// NewRespondToOfferCommand creates a command carrying an offer response.
func NewRespondToOfferCommand(offerID, driverID kernel.UUID, decision Decision) (RespondToOfferCommand, error) {
	if err := errors.Join(
		offerID.Validate(),
		driverID.Validate(),
		decision.Validate(),
	); err != nil {
		return RespondToOfferCommand{}, err
	}

	return RespondToOfferCommand{
		offerID:  offerID,
		driverID: driverID,
		decision: decision,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *RespondToOfferCommand) Validate() error {
	return c.guard.Validate(ErrRespondToOfferCommandIsNotConstructed)
}

// OfferID returns the offer being responded to.
func (c *RespondToOfferCommand) OfferID() kernel.UUID { return c.offerID }

// DriverID returns the responding driver.
func (c *RespondToOfferCommand) DriverID() kernel.UUID { return c.driverID }

// Decision returns the driver's decision.
func (c *RespondToOfferCommand) Decision() Decision { return c.decision }

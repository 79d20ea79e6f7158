package taskoffer

import (
	"errors"
	"fmt"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

// Domain errors for task offer operations.
var (
	// ErrTaskOfferIsNotConstructed is returned when using an improperly
	// initialized TaskOffer.
	ErrTaskOfferIsNotConstructed = errors.New("TaskOffer must be created via NewTaskOffer or RestoreTaskOffer")

	// ErrStaleOffer is returned when the responding driver is not the current
	// candidate: either they were passed over already or were never offered
	// this task.
	ErrStaleOffer = errors.New("offer is not addressed to this driver")

	// ErrOfferExpired is returned when the current candidate responds after
	// the response deadline.
	ErrOfferExpired = errors.New("offer response deadline has passed")

	// ErrOfferNoLongerAvailable is returned when responding to an offer that
	// already reached a terminal outcome, e.g. the second driver in a
	// concurrent accept race.
	ErrOfferNoLongerAvailable = errors.New("offer is no longer available")

	// ErrCandidatesRequired is returned when creating an offer without
	// candidates.
	ErrCandidatesRequired = errs.NewValueIsRequiredError("candidates")
)

// TaskOffer offers one order's delivery task to a ranked candidate list.
//
// The offer tracks which candidate currently holds it (currentIndex), the
// response deadline for that candidate, and the final outcome. All mutations
// happen through Accept, Decline, AdvancePastCurrent, and Cancel; once the
// outcome is terminal the offer rejects every further operation.
type TaskOffer struct {
	id      kernel.UUID
	orderID kernel.UUID

	// candidates is the dispatch ranking at offer creation time, best first.
	// The list never changes; passing over a candidate only moves the index.
	candidates   []kernel.UUID
	currentIndex int

	ttl       time.Duration
	expiresAt time.Time

	outcome          Outcome
	acceptedDriverID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewTaskOffer creates a pending offer addressed to the top-ranked candidate,
// with the response deadline set ttl from now.
func NewTaskOffer(
	id kernel.UUID,
	orderID kernel.UUID,
	candidates []kernel.UUID,
	ttl time.Duration,
	now time.Time,
) (*TaskOffer, error) {
	offer := &TaskOffer{
		outcome: OutcomePending,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		offer.setID(id),
		offer.setOrderID(orderID),
		offer.setCandidates(candidates),
		offer.setTTL(ttl),
	); err != nil {
		return nil, err
	}

	offer.expiresAt = now.Add(ttl)
	return offer, nil
}

// RestoreTaskOffer reconstructs a task offer from persistent storage.
func RestoreTaskOffer(
	id kernel.UUID,
	orderID kernel.UUID,
	candidates []kernel.UUID,
	currentIndex int,
	ttl time.Duration,
	expiresAt time.Time,
	outcome Outcome,
	acceptedDriverID *kernel.UUID,
) (*TaskOffer, error) {
	offer := &TaskOffer{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		offer.setID(id),
		offer.setOrderID(orderID),
		offer.setCandidates(candidates),
		offer.setTTL(ttl),
		offer.setOutcome(outcome),
	); err != nil {
		return nil, err
	}

	if currentIndex < 0 || currentIndex > len(candidates) {
		return nil, errs.NewValueIsOutOfRangeError("current index",
			currentIndex, 0, len(candidates))
	}

	if acceptedDriverID != nil {
		if err := acceptedDriverID.Validate(); err != nil {
			return nil, err
		}
		driverID := *acceptedDriverID
		offer.acceptedDriverID = &driverID
	}

	offer.currentIndex = currentIndex
	offer.expiresAt = expiresAt
	return offer, nil
}

// Validate ensures the TaskOffer was created via a factory function.
func (t *TaskOffer) Validate() error {
	if t == nil {
		return ErrTaskOfferIsNotConstructed
	}
	return t.guard.Validate(ErrTaskOfferIsNotConstructed)
}

// IsEqual compares two offers by identifier.
func (t *TaskOffer) IsEqual(other *TaskOffer) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the offer's unique identifier.
func (t *TaskOffer) ID() kernel.UUID {
	return t.id
}

// OrderID returns the order whose delivery task is offered.
func (t *TaskOffer) OrderID() kernel.UUID {
	return t.orderID
}

// Candidates returns a copy of the ranked candidate list.
func (t *TaskOffer) Candidates() []kernel.UUID {
	out := make([]kernel.UUID, len(t.candidates))
	copy(out, t.candidates)
	return out
}

// CurrentIndex returns the position of the current candidate in the ranking.
func (t *TaskOffer) CurrentIndex() int {
	return t.currentIndex
}

// CurrentCandidate returns the driver the offer is currently addressed to,
// or nil when the offer is resolved or the list is exhausted.
func (t *TaskOffer) CurrentCandidate() *kernel.UUID {
	if t.outcome != OutcomePending || t.currentIndex >= len(t.candidates) {
		return nil
	}
	candidate := t.candidates[t.currentIndex]
	return &candidate
}

// TTL returns the per-candidate response window.
func (t *TaskOffer) TTL() time.Duration {
	return t.ttl
}

// ExpiresAt returns the current candidate's response deadline.
func (t *TaskOffer) ExpiresAt() time.Time {
	return t.expiresAt
}

// Outcome returns the offer's resolution state.
func (t *TaskOffer) Outcome() Outcome {
	return t.outcome
}

// AcceptedDriver returns the winning driver, or nil while unresolved.
func (t *TaskOffer) AcceptedDriver() *kernel.UUID {
	return t.acceptedDriverID
}

// IsLive reports whether the offer still awaits a response.
func (t *TaskOffer) IsLive() bool {
	return t.outcome == OutcomePending
}

// IsExpiredAt reports whether the current candidate's deadline has passed.
func (t *TaskOffer) IsExpiredAt(now time.Time) bool {
	return now.After(t.expiresAt)
}

// Accept resolves the offer in favor of the responding driver.
//
// Returns:
//   - ErrOfferNoLongerAvailable if the offer already reached a terminal
//     outcome (the driver lost a concurrent race)
//   - ErrStaleOffer if the driver is not the current candidate
//   - ErrOfferExpired if the response arrived after the deadline
func (t *TaskOffer) Accept(driverID kernel.UUID, now time.Time) error {
	if err := t.validateResponse(driverID, now); err != nil {
		return err
	}

	t.outcome = OutcomeAccepted
	t.acceptedDriverID = &driverID
	return nil
}

// Decline passes the offer over the responding driver: the offer advances to
// the next candidate with a fresh deadline, or resolves Expired when the list
// is exhausted. The same response errors as Accept apply.
func (t *TaskOffer) Decline(driverID kernel.UUID, now time.Time) error {
	if err := t.validateResponse(driverID, now); err != nil {
		return err
	}

	t.advance(now)
	return nil
}

// AdvancePastCurrent passes the offer over the current candidate without a
// response from them: the deadline sweep uses it for missed deadlines, and the
// accept path uses it when the winning driver turned out to be at capacity.
// It returns true when the candidate list is exhausted and the offer resolved
// Expired.
func (t *TaskOffer) AdvancePastCurrent(now time.Time) (bool, error) {
	if t.outcome != OutcomePending {
		return false, fmt.Errorf("%w: offer is %s", ErrOfferNoLongerAvailable, t.outcome)
	}

	t.advance(now)
	return t.outcome == OutcomeExpired, nil
}

// Cancel resolves a live offer when its order leaves ReadyForPickup through
// cancellation or another transition. Cancelling a resolved offer is a no-op.
func (t *TaskOffer) Cancel() {
	if t.outcome == OutcomePending {
		t.outcome = OutcomeExpired
	}
}

// ValidateResponse checks whether the driver may respond to the offer right
// now, without mutating it. The accept path uses it to vet the response
// before reserving the driver's task slot.
func (t *TaskOffer) ValidateResponse(driverID kernel.UUID, now time.Time) error {
	return t.validateResponse(driverID, now)
}

func (t *TaskOffer) validateResponse(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if t.outcome != OutcomePending {
		return fmt.Errorf("%w: offer is %s", ErrOfferNoLongerAvailable, t.outcome)
	}

	current := t.CurrentCandidate()
	if current == nil || !current.IsEqual(driverID) {
		return ErrStaleOffer
	}

	if t.IsExpiredAt(now) {
		return ErrOfferExpired
	}

	return nil
}

// advance moves the offer to the next candidate, resolving it Expired when
// the ranking is exhausted.
func (t *TaskOffer) advance(now time.Time) {
	t.currentIndex++
	if t.currentIndex >= len(t.candidates) {
		t.outcome = OutcomeExpired
		return
	}
	t.expiresAt = now.Add(t.ttl)
}

func (t *TaskOffer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *TaskOffer) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	t.orderID = orderID
	return nil
}

func (t *TaskOffer) setCandidates(candidates []kernel.UUID) error {
	if len(candidates) == 0 {
		return ErrCandidatesRequired
	}

	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			return err
		}
	}

	t.candidates = make([]kernel.UUID, len(candidates))
	copy(t.candidates, candidates)
	return nil
}

func (t *TaskOffer) setTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("ttl",
			fmt.Errorf("%s is not positive", ttl))
	}
	t.ttl = ttl
	return nil
}

func (t *TaskOffer) setOutcome(outcome Outcome) error {
	if err := outcome.Validate(); err != nil {
		return err
	}
	t.outcome = outcome
	return nil
}

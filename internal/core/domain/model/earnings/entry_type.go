package earnings

import (
	"fmt"

	"fooddispatch/internal/pkg/errs"
)

// EntryType classifies an earning entry.
type EntryType int

const (
	// EntryTypeUnknown represents an invalid or undefined entry type.
	EntryTypeUnknown EntryType = iota

	// EntryTypeDeliveryFee is the fee credited for a completed delivery.
	// At most one per order.
	EntryTypeDeliveryFee

	// EntryTypeBonus is an incentive credit on top of the delivery fee.
	EntryTypeBonus

	// EntryTypeAdjustment is a manual correction; its amount may be negative.
	EntryTypeAdjustment
)

// getEntryTypeStrings returns the string representation of every entry type.
func getEntryTypeStrings() map[EntryType]string {
	return map[EntryType]string{
		EntryTypeUnknown:     "unknown",
		EntryTypeDeliveryFee: "delivery_fee",
		EntryTypeBonus:       "bonus",
		EntryTypeAdjustment:  "adjustment",
	}
}

// EntryTypeFromString parses an entry type name as stored in persistence.
func EntryTypeFromString(s string) (EntryType, error) {
	for entryType, name := range getEntryTypeStrings() {
		if entryType != EntryTypeUnknown && name == s {
			return entryType, nil
		}
	}
	return EntryTypeUnknown, errs.NewValueIsInvalidErrorWithCause("entry type",
		fmt.Errorf("%q is not a valid entry type", s))
}

// Validate checks that the entry type is one of the defined values.
func (e EntryType) Validate() error {
	if e != EntryTypeDeliveryFee && e != EntryTypeBonus && e != EntryTypeAdjustment {
		return errs.NewValueIsInvalidErrorWithCause("entry type",
			fmt.Errorf("%d is not a valid entry type", e))
	}
	return nil
}

// String returns the stored name of the entry type.
func (e EntryType) String() string {
	if s, ok := getEntryTypeStrings()[e]; ok {
		return s
	}
	return "unknown"
}

// Package driver contains the Driver aggregate of the dispatch registry.
//
// A driver carries a live location (pushed by the geography collaborator), a
// vehicle type, and a concurrent-task capacity. Availability is never stored;
// it is derived from the active-task count being below capacity. Reserve and
// Release are the only mutations of that count, and the persistence layer
// serializes them per driver with row locks so two concurrent accepts cannot
// both reserve the last slot.
package driver

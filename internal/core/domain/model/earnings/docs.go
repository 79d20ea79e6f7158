// Package earnings contains the append-only EarningEntry record.
//
// Entries are created once and never modified; totals are always computed by
// summing entries over a window, so a driver's balance can be re-derived at
// any time. The delivery fee for an order is recorded at most once, which the
// persistence layer enforces with a uniqueness constraint keyed on the order.
package earnings

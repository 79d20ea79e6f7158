// Package order contains the Order aggregate and its lifecycle state machine.
//
// An order moves along a fixed transition graph from Placed to Delivered,
// with Cancelled reachable from any state before pickup and Failed reachable
// once a driver is involved. Every edge is bound to the actor roles allowed
// to drive it; the restaurant advances preparation, drivers advance delivery,
// and the platform itself binds drivers through dispatch. Terminal states
// (Delivered, Cancelled, Failed) accept no further transitions.
//
// Each accepted transition appends a timestamped history entry, so the
// per-order sequence of states is totally ordered and auditable.
package order

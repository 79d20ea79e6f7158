// Package kernel contains the shared value objects of the dispatch domain:
// entity identifiers, geographic coordinates, monetary amounts, and the
// verified actor identity supplied by the authentication collaborator.
//
// All value objects are immutable and validate themselves on construction.
// The zero value of every type in this package is invalid; use the provided
// constructor functions.
package kernel

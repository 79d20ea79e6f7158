// Package services contains stateless domain services that operate across
// aggregates: candidate ranking for dispatch and delivery fee calculation.
package services

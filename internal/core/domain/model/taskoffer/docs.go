// Package taskoffer contains the TaskOffer aggregate: the delivery task
// offered to a ranked list of driver candidates, one at a time.
//
// An offer starts Pending with the top-ranked candidate and a response
// deadline. The current candidate may accept or decline; a decline or a missed
// deadline advances the offer to the next candidate and resets the deadline,
// and a candidate that was passed over is never offered the task again.
// Advancing past the last candidate resolves the offer to Expired. Exactly one
// driver can ever win an offer: the first accept resolves it, and every later
// response is rejected.
package taskoffer

// Package store holds the client-side state of the MedScribe client: one
// slice per domain (auth, patients, encounters, checklist, analytics).
//
// Every slice action runs a request through the domain services and folds
// the outcome into the slice in three phases:
//
//   - pending: Loading is set and the previous error cleared;
//   - fulfilled: Loading is cleared and the result written to the slice;
//   - rejected: Loading is cleared and Error records what went wrong.
//
// Actions are synchronous and return a Result; wrap them with Async to run
// them in the background. Slices are safe for concurrent use. When several
// actions overlap on one slice, only the most recently started one settles
// Status, and a list fetch that finishes after a newer list fetch has
// started is discarded instead of overwriting fresher data.
package store

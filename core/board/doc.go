// Package board implements the assignment engine of the schedule board.
//
// Staff and assets are bound to routes and field trips. A resource holds at
// most one binding at a time: the Store keeps the owner records and the
// reverse indices in lockstep, Rules reject illegal candidates, the Resolver
// detects bindings that must be broken and asks a Confirmer first, and the
// History log retains the most recent mutations. Engine composes these into
// the operations callers use and flushes the board to a StateStore after
// every successful change.
package board

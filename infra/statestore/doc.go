// Package statestore holds the StateStore backends the board flushes to after
// every mutation: an in-memory store, a JSON file, a SQLite table and a
// BadgerDB key. Backends are picked by name through Registry.
package statestore

// Package resolver translates user-facing token names into canonical
// identifiers and named time windows into durations.
//
// The token table is immutable once built: it is assembled at startup from
// a compiled-in default list, optionally extended by a YAML file, and then
// only read. Capabilities resolve every token argument through it before
// any external call is made.
package resolver

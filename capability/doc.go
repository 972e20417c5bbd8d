// Package capability builds the closed set of named functions and values
// that executed snippets may reference.
//
// The registry is rebuilt for every execution: Build returns fresh
// closures bound to that execution's context, so no state crosses from
// one snippet to the next. The entry order is stable because the engine
// compiles the capability names into the snippet's parameter list.
//
// Every capability that takes a token name resolves it through the
// resolver before any external call. Formatting capabilities follow a
// fixed presentation contract: two decimals, "$" prefix for currency,
// "%" suffix for percentages, and the literal "N/A" when the underlying
// field is absent from the provider response.
package capability

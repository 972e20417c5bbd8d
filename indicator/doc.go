// Package indicator implements the technical analysis kernel.
//
// All functions are pure and operate on chronologically ordered price
// slices. They perform no I/O and allocate no shared state, which makes
// them safe to expose directly to sandboxed snippets and to call from
// concurrent executions.
package indicator

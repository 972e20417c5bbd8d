// Package engine runs model-generated snippets against the capability
// registry.
//
// Each execution walks one state machine: Normalizing (fence stripping),
// Compiling (the snippet becomes a single anonymous async function whose
// only parameters are the registry's capability names), Running (the
// function is invoked with the capability values in matching order), and
// either Succeeded or Failed. Failures collapse into a Failure record and
// are never retried or thrown past the engine.
//
// The evaluator is an embedded goja runtime created fresh per execution.
// Executed code sees the ECMAScript builtins plus its parameters and
// nothing else: no host globals, no environment, no filesystem. This is a
// scoping boundary for cooperative code, not a hardened sandbox.
package engine

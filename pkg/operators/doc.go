// Package operators implements the Veld operator engine: every binary and
// unary operator family evaluated over already-computed runtime values, in
// either legacy mode (value-coercing, the ancestral behaviour) or strict mode
// (fixed operand-kind sets, no value-dependent coercion). Rule lookup is a
// table keyed by operator family and operand kinds, built once at package
// init. Evaluation reads the tables and the operand values and nothing else,
// so hosts may call the engine concurrently without synchronisation.
package operators

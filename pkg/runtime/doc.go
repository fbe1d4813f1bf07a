// Package runtime defines the Veld value model shared by the operator engine
// and its hosts: the eight runtime kinds, ordered arrays, class-tagged objects
// with an optional text capability, opaque resources, the language truthiness
// rule, and literal-shaped value formatting. Values are constructed by the
// host, handed to the evaluator, and never mutated by it.
package runtime

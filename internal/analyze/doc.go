// Package analyze provides the built-in analyzers that run against
// contained documents: bracket balance, trailing whitespace, and
// formatting-rule conformance. They are deliberately lightweight; the
// point is position-correct findings, not language understanding.
package analyze

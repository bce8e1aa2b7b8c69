// Package wiring implements the type-checked construction of outputs and
// matching inputs: the Builder stages pending receiver ends, assigns
// each output its stable 64-bit hash, and deduplicates outputs that
// share a (producing actor, UID terminal name) pair.
package wiring

import "github.com/OneOfOne/xxhash"

// Fingerprint computes the stable 64-bit hash identifying one output: the
// tuple (producing-actor name, UID terminal name). It is the single
// source of truth for hash pairing — callers never hash anything else
// to form a wiring key.
func Fingerprint(actorName, terminalName string) uint64 {
	h := xxhash.New64()
	_, _ = h.WriteString(actorName)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(terminalName)
	return h.Sum64()
}

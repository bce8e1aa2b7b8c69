package wiring_test

import (
	"testing"

	"github.com/gmt-dos/actors/wiring"
	"github.com/stretchr/testify/require"
)

func TestFingerprintIsStableAndDistinguishing(t *testing.T) {
	a := wiring.Fingerprint("source", "sample")
	b := wiring.Fingerprint("source", "sample")
	require.Equal(t, a, b)

	c := wiring.Fingerprint("source", "other")
	require.NotEqual(t, a, c)

	d := wiring.Fingerprint("other-actor", "sample")
	require.NotEqual(t, a, d)
}

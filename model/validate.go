package model

import (
	"github.com/gmt-dos/actors/actor"
	"github.com/gmt-dos/actors/errorset"
)

// validate runs the wiring validation pass over a candidate actor list:
// rate validity, hash pairing (every output's fan-out count
// must match the number of inputs wired to its hash), and rate
// compatibility between every paired producer/consumer.
func validate(tasks []actor.Task) error {
	outputRate := make(map[uint64]int, len(tasks))
	outputFanOut := make(map[uint64]int, len(tasks))
	inputCount := make(map[uint64]int, len(tasks))

	for _, t := range tasks {
		ni, no := t.Rates()
		if (ni == 0) != (len(t.Inputs()) == 0) {
			return errorset.NewWiringError(t.Name(), "", 0,
				"actor %q has NI=%d but %d inputs: NI=0 must mean no inputs, and vice versa", t.Name(), ni, len(t.Inputs()))
		}
		if (no == 0) != (len(t.Outputs()) == 0) {
			return errorset.NewWiringError(t.Name(), "", 0,
				"actor %q has NO=%d but %d outputs: NO=0 must mean no outputs, and vice versa", t.Name(), no, len(t.Outputs()))
		}
		for _, out := range t.Outputs() {
			outputRate[out.Hash()] = no
			outputFanOut[out.Hash()] = out.FanOut()
		}
		for _, in := range t.Inputs() {
			inputCount[in.Hash()]++
		}
	}

	for hash, fanOut := range outputFanOut {
		if inputCount[hash] != fanOut {
			return errorset.NewWiringError("", "", hash,
				"output fan-out %d does not match %d paired inputs", fanOut, inputCount[hash])
		}
	}
	for hash, count := range inputCount {
		if _, ok := outputFanOut[hash]; !ok {
			return errorset.NewWiringError("", "", hash,
				"input wired to hash %#x has no matching output (found %d consumer(s))", hash, count)
		}
	}

	for _, t := range tasks {
		ni, _ := t.Rates()
		for _, in := range t.Inputs() {
			producer, ok := outputRate[in.Hash()]
			if !ok {
				continue // already reported above
			}
			if !actor.RatesCompatible(producer, ni) {
				return errorset.NewWiringError(t.Name(), "", in.Hash(),
					"rate incompatible: producer NO=%d, consumer NI=%d", producer, ni)
			}
		}
	}
	return nil
}

package tecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstOrderLPF_ZeroTauActsAsPassthrough(t *testing.T) {
	// GIVEN a filter parameterized with a zero time constant
	var f firstOrderLPF
	f.setParameters(0.02, 0)
	f.reset(0)

	// WHEN it is updated with a new input
	out := f.update(5.0)

	// THEN the output tracks the input immediately (alpha = 1)
	assert.Equal(t, 5.0, out)
}

func TestFirstOrderLPF_ConvergesTowardConstantInput(t *testing.T) {
	// GIVEN a filter with a meaningful time constant, reset to zero
	var f firstOrderLPF
	f.setParameters(0.02, 0.5)
	f.reset(0)

	// WHEN driven repeatedly by the same input
	var out float64
	for i := 0; i < 500; i++ {
		out = f.update(10.0)
	}

	// THEN it converges toward that input
	assert.InDelta(t, 10.0, out, 0.1)
}

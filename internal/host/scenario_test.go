package host

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScenario() Scenario {
	return Scenario{
		Meta:   ScenarioMeta{Name: "sample"},
		Timing: ScenarioTiming{DurationS: 100},
		Defaults: SetpointCmd{
			AltitudeM: 100,
			EASMPS:    20,
		},
		Segments: []ScenarioSegment{
			{T0: 0, T1: 20, SetpointCmd: SetpointCmd{AltitudeM: 150, EASMPS: 16, Climbout: true}},
			{T0: 20, T1: -1, SetpointCmd: SetpointCmd{AltitudeM: 150, EASMPS: 20}},
		},
	}
}

func TestEvalSetpoint_InsideFirstSegmentUsesSegmentValues(t *testing.T) {
	// GIVEN a scenario whose first segment starts at t=0
	scen := sampleScenario()

	// WHEN evaluated inside the first segment's [0, 20) window
	cmd := EvalSetpoint(&scen, 10)

	// THEN the active (climbout) segment applies, not the defaults
	assert.Equal(t, 150.0, cmd.AltitudeM)
	assert.True(t, cmd.Climbout)
}

func TestEvalSetpoint_OpenEndedSegmentRunsToScenarioDuration(t *testing.T) {
	// GIVEN a scenario whose last segment has T1 = -1
	scen := sampleScenario()

	// WHEN evaluated near the end of the scenario's duration
	cmd := EvalSetpoint(&scen, 99)

	// THEN the open-ended segment is still active
	assert.Equal(t, 150.0, cmd.AltitudeM)
	assert.Equal(t, 20.0, cmd.EASMPS)
	assert.False(t, cmd.Climbout)
}

func TestEvalSetpoint_OutsideAllSegmentsFallsBackToDefaults(t *testing.T) {
	// GIVEN a scenario with a gap before the first segment
	scen := sampleScenario()
	scen.Segments = scen.Segments[1:] // only the t>=20 segment remains

	// WHEN evaluated inside the gap
	cmd := EvalSetpoint(&scen, 5)

	// THEN the scenario defaults apply
	assert.Equal(t, 100.0, cmd.AltitudeM)
	assert.Equal(t, 20.0, cmd.EASMPS)
}

func TestLoadScenario_RejectsNonPositiveDuration(t *testing.T) {
	// GIVEN a scenario JSON with an invalid duration
	path := t.TempDir() + "/bad.json"
	writeFile(t, path, `{"meta":{"name":"x"},"timing":{"duration_s":0},"defaults":{},"segments":[]}`)

	// WHEN it is loaded
	_, err := LoadScenario(path)

	// THEN it is rejected
	assert.Error(t, err)
}

func TestEvalSetpoint_HeightRateSPNilUnlessSegmentSetsIt(t *testing.T) {
	// GIVEN a scenario where only one segment commands a height rate
	rate := -1.5
	scen := sampleScenario()
	scen.Segments[1].HeightRateSP = &rate

	// WHEN evaluated inside that segment
	cmd := EvalSetpoint(&scen, 25)

	// THEN the commanded rate is present
	require.NotNil(t, cmd.HeightRateSP)
	assert.Equal(t, rate, *cmd.HeightRateSP)

	// WHEN evaluated inside a segment that never set it
	cmd = EvalSetpoint(&scen, 5)

	// THEN it stays nil rather than leaking the previous segment's value
	assert.Nil(t, cmd.HeightRateSP)
}

func TestLoadScenario_ParsesWellFormedFile(t *testing.T) {
	// GIVEN a well-formed scenario file
	path := t.TempDir() + "/good.json"
	writeFile(t, path, `{
		"meta": {"name": "good", "version": 1},
		"timing": {"duration_s": 10, "log_hz": 1},
		"defaults": {"altitude_m": 100, "eas_mps": 20},
		"segments": []
	}`)

	// WHEN it is loaded
	scen, err := LoadScenario(path)

	// THEN fields populate as expected
	require.NoError(t, err)
	assert.Equal(t, "good", scen.Meta.Name)
	assert.Equal(t, 10.0, scen.Timing.DurationS)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
